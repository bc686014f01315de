package notify

import (
	"errors"
	"fmt"
)

var (
	ErrNotification       = errors.New("notification failed")
	ErrEmailNotConfigured = errors.New("email not configured")
)

type Kind string

const (
	KindOrderPlaced      Kind = "order_placed"
	KindPaymentConfirmed Kind = "payment_confirmed"
	KindContact          Kind = "contact"
	KindPasswordReset    Kind = "password_reset"
)

type LineItem struct {
	Name      string
	Quantity  uint
	UnitPrice int64
}

func (li LineItem) Total() int64 { return li.UnitPrice * int64(li.Quantity) }

type Payload struct {
	Kind           Kind
	OrderID        string
	RecipientEmail string
	RecipientName  string
	TotalAmount    int64
	LineItems      []LineItem
	Lang           string
}

func (p Payload) validate() error {
	if p.RecipientEmail == "" {
		return errors.New("recipient email is empty")
	}
	switch p.Kind {
	case KindOrderPlaced, KindPaymentConfirmed:
		return nil
	default:
		return fmt.Errorf("unsupported order notification kind %q", p.Kind)
	}
}

// Message is a rendered e-mail ready for a Sender.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// FormatMoney renders minor units as "12.50 €".
func FormatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d €", sign, cents/100, cents%100)
}
