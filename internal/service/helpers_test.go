package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Skotchmaster/storefront/internal/dbtest"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/repo"
)

func newRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return repo.New(dbtest.Open(t))
}

type resetMailer struct {
	err      error
	email    string
	token    string
	password string
}

func (m *resetMailer) SendPasswordResetLink(_ context.Context, email, token, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.email, m.token = email, token
	return nil
}

func (m *resetMailer) SendPasswordReset(_ context.Context, email, password, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.email, m.password = email, password
	return nil
}

type recordedEvents struct {
	mu    sync.Mutex
	types []string
}

func (e *recordedEvents) PublishEvent(_ context.Context, topic, _, eventType string, _ any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.types = append(e.types, topic+"/"+eventType)
	return nil
}

type orderNotifier struct {
	err      error
	payloads []notify.Payload
}

func (n *orderNotifier) NotifyOrder(_ context.Context, p notify.Payload) error {
	n.payloads = append(n.payloads, p)
	return n.err
}
