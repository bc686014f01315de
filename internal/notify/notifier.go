package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type Notifier struct {
	Sender   Sender
	Operator string

	Attempts int
	Backoff  time.Duration
}

func New(sender Sender, operator string) *Notifier {
	return &Notifier{Sender: sender, Operator: operator, Attempts: 3, Backoff: 200 * time.Millisecond}
}

// SendOrderEmail sends the customer copy of an order notification.
func (n *Notifier) SendOrderEmail(ctx context.Context, p Payload) error {
	if err := p.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrNotification, err)
	}
	msg, err := renderCustomer(p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotification, err)
	}
	if err := n.send(ctx, msg); err != nil {
		return fmt.Errorf("%w: customer: %w", ErrNotification, err)
	}
	return nil
}

// NotifyOrder sends the customer mail and the operator copy. Both are always attempted.
func (n *Notifier) NotifyOrder(ctx context.Context, p Payload) error {
	l := logging.FromContext(ctx).With("component", "notify", "kind", p.Kind, "order_id", p.OrderID)

	var errs []error
	if err := n.SendOrderEmail(ctx, p); err != nil {
		errs = append(errs, err)
	}
	if err := n.sendOperator(ctx, p); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		l.Warn("order_notification_failed", "error", err)
		return err
	}
	l.Info("order_notification_sent")
	return nil
}

func (n *Notifier) sendOperator(ctx context.Context, p Payload) error {
	if n.Operator == "" {
		return fmt.Errorf("%w: operator: %w", ErrNotification, ErrEmailNotConfigured)
	}
	msg, err := renderOperator(p, n.Operator)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotification, err)
	}
	if err := n.send(ctx, msg); err != nil {
		return fmt.Errorf("%w: operator: %w", ErrNotification, err)
	}
	return nil
}

func (n *Notifier) SendContact(ctx context.Context, name, email, message string) error {
	if n.Operator == "" {
		return fmt.Errorf("%w: %w", ErrNotification, ErrEmailNotConfigured)
	}
	body, err := render("contact", struct{ Name, Email, Message string }{name, email, message})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotification, err)
	}
	msg := Message{To: n.Operator, ReplyTo: email, Subject: "Contact form: " + name, HTML: body}
	if err := n.send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrNotification, err)
	}
	return nil
}

// SendPasswordResetLink mails the confirmation code for a reset request.
func (n *Notifier) SendPasswordResetLink(ctx context.Context, email, token, lng string) error {
	txt := resetLinkTexts[lang(lng)]
	body, err := render("reset_link", struct{ Heading, Intro, Token, Note string }{txt.Heading, txt.Intro, token, txt.Note})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotification, err)
	}
	if err := n.send(ctx, Message{To: email, Subject: txt.Subject, HTML: body}); err != nil {
		return fmt.Errorf("%w: %w", ErrNotification, err)
	}
	return nil
}

func (n *Notifier) SendPasswordReset(ctx context.Context, email, password, lng string) error {
	txt := resetText[lang(lng)]
	body, err := render("reset", struct{ Heading, Intro, Password string }{txt.Heading, txt.Intro, password})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotification, err)
	}
	if err := n.send(ctx, Message{To: email, Subject: txt.Customer, HTML: body}); err != nil {
		return fmt.Errorf("%w: %w", ErrNotification, err)
	}
	return nil
}

func (n *Notifier) send(ctx context.Context, m Message) error {
	if n.Sender == nil {
		return ErrEmailNotConfigured
	}
	attempts := n.Attempts
	if attempts < 1 {
		attempts = 1
	}
	wait := n.Backoff

	var err error
	for i := 0; i < attempts; i++ {
		if err = n.Sender.Send(ctx, m); err == nil {
			return nil
		}
		if errors.Is(err, ErrEmailNotConfigured) || i == attempts-1 {
			break
		}
		logging.FromContext(ctx).Debug("email_retry", "attempt", i+1, "to", m.To, "error", err)

		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}
	return err
}
