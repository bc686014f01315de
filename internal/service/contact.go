package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
)

const maxContactMessage = 5000

type ContactMailer interface {
	SendContact(ctx context.Context, name, email, message string) error
}

type ContactService struct {
	Mailer ContactMailer
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *ContactService) Send(ctx context.Context, in ContactInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)

	if in.Name == "" || in.Email == "" || in.Message == "" {
		return fmt.Errorf("name, email and message are required: %w", ErrValidation)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("invalid email: %w", ErrValidation)
	}
	if len(in.Message) > maxContactMessage {
		return fmt.Errorf("message too long: %w", ErrValidation)
	}
	return s.Mailer.SendContact(ctx, in.Name, in.Email, in.Message)
}
