package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type DeliveryHTTP struct {
	Svc *service.DeliveryService
}

func (h *DeliveryHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delivery.get")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "get_delivery_error")
	}
	d, err := h.Svc.Get(ctx, userID)
	if err != nil {
		return serviceError(c, l, "get_delivery_error", err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DeliveryHTTP) Save(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delivery.save")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "save_delivery_error")
	}
	var in service.DeliveryInput
	if err := c.Bind(&in); err != nil {
		return badBody(c, l, "save_delivery_error", err)
	}

	d, err := h.Svc.Save(ctx, userID, in)
	if err != nil {
		return serviceError(c, l, "save_delivery_error", err)
	}
	return success(c, http.StatusOK, echo.Map{"delivery": d})
}
