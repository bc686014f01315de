package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type ContactHTTP struct {
	Svc *service.ContactService
}

func (h *ContactHTTP) Send(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.send")

	var in service.ContactInput
	if err := c.Bind(&in); err != nil {
		return badBody(c, l, "contact_error", err)
	}
	if err := h.Svc.Send(ctx, in); err != nil {
		if errors.Is(err, notify.ErrNotification) {
			l.Error("contact_error", "status", http.StatusBadGateway, "error", err)
			return failure(c, http.StatusBadGateway, "notification", "message could not be sent")
		}
		return serviceError(c, l, "contact_error", err)
	}
	return success(c, http.StatusOK, nil)
}
