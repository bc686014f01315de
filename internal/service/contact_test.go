package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactMailer struct{ name, email, message string }

func (m *contactMailer) SendContact(_ context.Context, name, email, message string) error {
	m.name, m.email, m.message = name, email, message
	return nil
}

func TestContact_Send(t *testing.T) {
	m := &contactMailer{}
	s := &ContactService{Mailer: m}
	ctx := context.Background()

	assert.ErrorIs(t, s.Send(ctx, ContactInput{Name: "Ana", Email: "ana@example.com"}), ErrValidation)
	assert.ErrorIs(t, s.Send(ctx, ContactInput{Name: "Ana", Email: "nope", Message: "hi"}), ErrValidation)
	assert.ErrorIs(t, s.Send(ctx, ContactInput{Name: "Ana", Email: "ana@example.com", Message: strings.Repeat("x", maxContactMessage+1)}), ErrValidation)

	require.NoError(t, s.Send(ctx, ContactInput{Name: " Ana ", Email: "ana@example.com", Message: " Zdravo "}))
	assert.Equal(t, "Ana", m.name)
	assert.Equal(t, "Zdravo", m.message)
}
