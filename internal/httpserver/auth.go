package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/service"
	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"github.com/Skotchmaster/storefront/pkg/logging"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address"`
	Country    string `json:"country"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

type userView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func newUserView(u *models.User) userView {
	return userView{ID: u.ID.String(), Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "register_error", err)
	}

	u, err := h.Svc.Register(ctx, service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Delivery: &service.DeliveryInput{
			Address:    req.Address,
			Country:    req.Country,
			City:       req.City,
			PostalCode: req.PostalCode,
			Phone:      req.Phone,
		},
	})
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			l.Warn("register_error", "status", http.StatusConflict, "reason", "email exists")
			return failure(c, http.StatusConflict, "email_exists", "email already registered")
		}
		return serviceError(c, l, "register_error", err)
	}

	return success(c, http.StatusCreated, echo.Map{"user_id": u.ID.String()})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "login_error", err)
	}

	pair, u, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return serviceError(c, l, "login_error", err)
	}
	middleware.SetAuthCookies(c, pair)

	l.Info("login_ok", "user_id", u.ID.String())
	return success(c, http.StatusOK, echo.Map{"user": newUserView(u)})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	ck, err := c.Cookie(jwthelp.RefreshCookie)
	if err != nil || ck.Value == "" {
		middleware.ClearAuthCookies(c)
		return failure(c, http.StatusUnauthorized, "invalid_refresh_token", "missing refresh token")
	}

	pair, err := h.Svc.Refresh(ctx, ck.Value)
	if err != nil {
		middleware.ClearAuthCookies(c)
		return serviceError(c, l, "refresh_error", err)
	}
	middleware.SetAuthCookies(c, pair)
	return success(c, http.StatusOK, nil)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if ck, err := c.Cookie(jwthelp.RefreshCookie); err == nil {
		if err := h.Svc.Logout(ctx, ck.Value); err != nil {
			l.Error("logout_error", "status", http.StatusInternalServerError, "error", err)
		}
	}
	middleware.ClearAuthCookies(c)
	return success(c, http.StatusOK, nil)
}

// RequestPasswordReset answers the same way whether or not the address is registered.
func (h *AuthHTTP) RequestPasswordReset(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.request_password_reset")

	var req struct {
		Email string `json:"email"`
		Lang  string `json:"lang"`
	}
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "request_password_reset_error", err)
	}
	lang := req.Lang
	if lang == "" {
		lang = requestLang(c)
	}

	if err := h.Svc.RequestPasswordReset(ctx, req.Email, lang); err != nil {
		if errors.Is(err, service.ErrValidation) {
			return serviceError(c, l, "request_password_reset_error", err)
		}
		l.Error("request_password_reset_error", "error", err)
	}
	return success(c, http.StatusOK, nil)
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.reset_password")

	var req struct {
		Token string `json:"token"`
		Lang  string `json:"lang"`
	}
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "reset_password_error", err)
	}
	lang := req.Lang
	if lang == "" {
		lang = requestLang(c)
	}

	if err := h.Svc.ResetPassword(ctx, req.Token, lang); err != nil {
		if errors.Is(err, notify.ErrNotification) {
			l.Error("reset_password_error", "status", http.StatusBadGateway, "error", err)
			return failure(c, http.StatusBadGateway, "notification", "new password could not be sent")
		}
		return serviceError(c, l, "reset_password_error", err)
	}
	return success(c, http.StatusOK, nil)
}

func (h *AuthHTTP) DeleteAccount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.delete_account")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "delete_account_error")
	}

	if err := h.Svc.DeleteAccount(ctx, userID); err != nil {
		if errors.Is(err, service.ErrConflict) {
			l.Warn("delete_account_error", "status", http.StatusConflict, "reason", "user has orders")
			return failure(c, http.StatusConflict, "has_orders", "accounts with orders cannot be deleted")
		}
		return serviceError(c, l, "delete_account_error", err)
	}
	middleware.ClearAuthCookies(c)
	l.Info("account_deleted", "user_id", userID.String())
	return success(c, http.StatusOK, nil)
}
