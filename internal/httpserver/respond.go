package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

// Result is the tagged body every storefront action answers with.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

var errUnauthorized = errors.New("unauthorized")

func success(c echo.Context, status int, fields echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	return c.JSON(status, body)
}

func failure(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, Result{Success: false, Error: msg, Code: code})
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusConflict:
		return "conflict"
	case http.StatusTooManyRequests:
		return "rate_limited"
	}
	if status >= 500 {
		return "internal"
	}
	return "error"
}

// ErrorHandler renders errors that escape handlers (middleware rejections,
// echo.HTTPError, panics turned into errors) as a tagged Result.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(status)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = failure(c, status, codeForStatus(status), msg)
}

func currentUser(c echo.Context) (uuid.UUID, error) {
	s, ok := c.Get(middleware.UserIDKey).(string)
	if !ok || s == "" {
		return uuid.Nil, errUnauthorized
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errUnauthorized
	}
	return id, nil
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get(middleware.RoleKey).(string)
	return role == models.RoleAdmin
}

// sameUser checks a client-supplied user id against the session. An empty
// value means the session user.
func sameUser(claimed string, session uuid.UUID) bool {
	claimed = strings.TrimSpace(claimed)
	if claimed == "" {
		return true
	}
	id, err := uuid.Parse(claimed)
	return err == nil && id == session
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func requestLang(c echo.Context) string {
	if l := c.QueryParam("lang"); l != "" {
		return service.NormalizeLang(l)
	}
	if ck, err := c.Cookie("lang"); err == nil {
		return service.NormalizeLang(ck.Value)
	}
	return service.LangSR
}

// publicMessage drops the trailing sentinel text from a wrapped error.
func publicMessage(err, sentinel error) string {
	return strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
}

// serviceError logs and renders an error coming out of internal/service.
func serviceError(c echo.Context, l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", http.StatusBadRequest, "error", err)
		return failure(c, http.StatusBadRequest, "validation", publicMessage(err, service.ErrValidation))
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", http.StatusNotFound, "error", err)
		return failure(c, http.StatusNotFound, "not_found", publicMessage(err, service.ErrNotFound))
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", http.StatusConflict, "error", err)
		return failure(c, http.StatusConflict, "conflict", publicMessage(err, service.ErrConflict))
	case errors.Is(err, service.ErrForbidden):
		l.Warn(event, "status", http.StatusForbidden, "error", err)
		return failure(c, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, service.ErrInvalidCredentials):
		l.Warn(event, "status", http.StatusUnauthorized, "reason", "invalid credentials")
		return failure(c, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case errors.Is(err, service.ErrInvalidResetToken):
		l.Warn(event, "status", http.StatusBadRequest, "reason", "invalid reset token")
		return failure(c, http.StatusBadRequest, "invalid_token", "invalid or expired reset code")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		l.Warn(event, "status", http.StatusUnauthorized, "error", err)
		return failure(c, http.StatusUnauthorized, "invalid_refresh_token", "invalid refresh token")
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return failure(c, http.StatusInternalServerError, "internal", "internal error")
	}
}

func unauthenticated(c echo.Context, l *slog.Logger, event string) error {
	l.Warn(event, "status", http.StatusUnauthorized, "reason", "no session")
	return failure(c, http.StatusUnauthorized, "unauthenticated", "unauthorized")
}

func badBody(c echo.Context, l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "error", err)
	return failure(c, http.StatusBadRequest, "bad_request", "invalid body")
}
