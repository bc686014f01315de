package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/util"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "list_orders_error")
	}
	page, err := h.Svc.List(ctx, userID,
		util.ParseIntDefault(c.QueryParam("page"), 1),
		util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))
	if err != nil {
		return serviceError(c, l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "get_order_error")
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	o, err := h.Svc.Get(ctx, userID, orderID, isAdmin(c))
	if err != nil {
		return serviceError(c, l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) ConfirmPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.confirm_payment")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "confirm_payment_error")
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	res, err := h.Svc.ConfirmPayment(ctx, userID, orderID, requestLang(c))
	if err != nil {
		return serviceError(c, l, "confirm_payment_error", err)
	}

	body := echo.Map{"order_id": res.Order.ID.String(), "status": res.Order.Status}
	if res.NotificationErr != nil {
		body["warning"] = "payment confirmed but the confirmation e-mail could not be sent"
	}
	l.Info("payment_confirmed", "order_id", res.Order.ID.String())
	return success(c, http.StatusOK, body)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.update_status")

	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "update_order_status_error", err)
	}

	o, err := h.Svc.UpdateStatus(ctx, orderID, req.Status)
	if err != nil {
		return serviceError(c, l, "update_order_status_error", err)
	}
	l.Info("order_status_updated", "order_id", o.ID.String(), "status", o.Status)
	return success(c, http.StatusOK, echo.Map{"order_id": o.ID.String(), "status": o.Status})
}
