package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	pkghash "github.com/Skotchmaster/storefront/pkg/hash"
	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const (
	minPasswordLen   = 6
	resetPasswordLen = 8
	resetTokenLen    = 32
	resetTokenTTL    = time.Hour
)

type PasswordMailer interface {
	SendPasswordResetLink(ctx context.Context, email, token, lang string) error
	SendPasswordReset(ctx context.Context, email, password, lang string) error
}

type AuthService struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
	Mailer        PasswordMailer
}

type RegisterInput struct {
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Delivery  *DeliveryInput `json:"delivery,omitempty"`
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func (in RegisterInput) validate() error {
	if in.Email == "" || in.Password == "" || strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return fmt.Errorf("email, password, first and last name are required: %w", ErrValidation)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("invalid email: %w", ErrValidation)
	}
	if len(in.Password) < minPasswordLen {
		return fmt.Errorf("password shorter than %d characters: %w", minPasswordLen, ErrValidation)
	}
	return nil
}

// Register creates a user and, when any delivery field is sent, their delivery data.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")
	in.Email = normalizeEmail(in.Email)
	if err := in.validate(); err != nil {
		return nil, err
	}

	var delivery *models.DeliveryInfo
	if in.Delivery != nil && !in.Delivery.Empty() {
		d, err := in.Delivery.toModel(uuid.Nil)
		if err != nil {
			return nil, err
		}
		delivery = d
	}

	pwHash, err := pkghash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	u := &models.User{
		Email:        in.Email,
		PasswordHash: pwHash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUser(ctx, u, delivery); err != nil {
		return nil, fromRepo(err, "user")
	}
	l.Info("user_registered", "user_id", u.ID.String())
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*tokens.Pair, *models.User, error) {
	u, err := s.Repo.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, nil, err
	}
	if u == nil || !pkghash.CheckPassword(u.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issue(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return pair, u, nil
}

func (s *AuthService) issue(ctx context.Context, u *models.User) (*tokens.Pair, error) {
	pair, rec, err := s.newPair(u)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, rec); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) newPair(u *models.User) (*tokens.Pair, *models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(tokens.AccessTTL)
	refreshExp := now.Add(tokens.RefreshTTL)
	jti := jwthelp.NewJTI()

	access, err := tokens.CreateAccessToken(s.AccessSecret, u.ID.String(), u.Role, accessExp)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := tokens.CreateRefreshToken(s.RefreshSecret, u.ID.String(), jti, refreshExp)
	if err != nil {
		return nil, nil, err
	}

	rec := &models.RefreshToken{
		Token:     jwthelp.Sha256Hex(refresh),
		UserID:    u.ID,
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}
	pair := &tokens.Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		Role:         u.Role,
	}
	return pair, rec, nil
}

// Refresh rotates a refresh token. The role is read from the database, not from the old access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidRefreshToken)
	}
	u, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: unknown user", ErrInvalidRefreshToken)
	}

	pair, rec, err := s.newPair(u)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, jwthelp.Sha256Hex(refreshToken), rec); err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
		}
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, jwthelp.Sha256Hex(refreshToken))
}

// RequestPasswordReset mails a one-time confirmation code. An unknown address
// is not an error, so callers cannot tell which e-mails are registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email, lang string) error {
	l := logging.FromContext(ctx).With("svc", "auth.request_password_reset")
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email is required: %w", ErrValidation)
	}

	u, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		l.Info("reset_requested_unknown_email")
		return nil
	}
	if s.Mailer == nil {
		return errors.New("password mailer is not configured")
	}

	token, err := pkghash.RandomPassword(resetTokenLen)
	if err != nil {
		return err
	}
	rt := &models.PasswordResetToken{
		TokenHash: jwthelp.Sha256Hex(token),
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL).Unix(),
	}
	if err := s.Repo.SaveResetToken(ctx, rt); err != nil {
		return err
	}
	if err := s.Mailer.SendPasswordResetLink(ctx, u.Email, token, NormalizeLang(lang)); err != nil {
		l.Error("reset_link_mail_failed", "user_id", u.ID.String(), "error", err)
		return err
	}
	return nil
}

// ResetPassword redeems a confirmation code: it sets a random password and mails it to the user.
func (s *AuthService) ResetPassword(ctx context.Context, token, lang string) error {
	l := logging.FromContext(ctx).With("svc", "auth.reset_password")
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is required: %w", ErrValidation)
	}
	if s.Mailer == nil {
		return errors.New("password mailer is not configured")
	}

	password, err := pkghash.RandomPassword(resetPasswordLen)
	if err != nil {
		return err
	}
	h, err := pkghash.HashPassword(password)
	if err != nil {
		return err
	}

	// the token is spent and the new hash commits only after the mail is sent
	return s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		rt, err := tx.ConsumeResetToken(ctx, jwthelp.Sha256Hex(token), time.Now())
		if errors.Is(err, repo.ErrTokenRevoked) {
			return ErrInvalidResetToken
		}
		if err != nil {
			return err
		}
		u, err := tx.UserByID(ctx, rt.UserID)
		if err != nil {
			return err
		}
		if u == nil {
			return ErrInvalidResetToken
		}

		if err := tx.UpdatePasswordHash(ctx, u.ID, h); err != nil {
			return fromRepo(err, "user")
		}
		if err := tx.RevokeUserTokens(ctx, u.ID); err != nil {
			return err
		}
		if err := s.Mailer.SendPasswordReset(ctx, u.Email, password, NormalizeLang(lang)); err != nil {
			l.Error("reset_mail_failed", "user_id", u.ID.String(), "error", err)
			return err
		}
		l.Info("password_reset", "user_id", u.ID.String())
		return nil
	})
}

func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.Repo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrHasOrders) {
			return fmt.Errorf("account has orders: %w", ErrConflict)
		}
		return fromRepo(err, "user")
	}
	return nil
}
