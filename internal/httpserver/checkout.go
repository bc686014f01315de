package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type CheckoutHTTP struct {
	Orchestrator *checkout.Orchestrator
}

type checkoutRequest struct {
	UserID         string `json:"user_id"`
	IdempotencyKey string `json:"idempotency_key"`
	Lang           string `json:"lang"`
}

var checkoutStatus = map[string]int{
	"unauthenticated":       http.StatusUnauthorized,
	"missing_delivery_info": http.StatusUnprocessableEntity,
	"empty_cart":            http.StatusBadRequest,
	"validation":            http.StatusBadRequest,
	"insufficient_stock":    http.StatusConflict,
	"checkout_in_progress":  http.StatusConflict,
	"inventory_update":      http.StatusInternalServerError,
	"order_persistence":     http.StatusInternalServerError,
}

var checkoutMessage = map[string]string{
	"unauthenticated":       "please log in to place an order",
	"missing_delivery_info": "delivery information is required before checkout",
	"empty_cart":            "your cart is empty",
	"insufficient_stock":    "not enough stock for one or more products",
	"checkout_in_progress":  "this order is already being placed",
	"inventory_update":      "could not update inventory, please try again",
	"order_persistence":     "could not create the order, please try again",
}

func (h *CheckoutHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "checkout_error")
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "checkout_error", err)
	}
	if !sameUser(req.UserID, userID) {
		l.Warn("checkout_error", "status", http.StatusForbidden, "reason", "user_id does not match session")
		return failure(c, http.StatusForbidden, "forbidden", "user_id does not match session")
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		key = strings.TrimSpace(c.Request().Header.Get(IdempotencyKeyHeader))
	}
	lang := req.Lang
	if lang == "" {
		lang = requestLang(c)
	}

	res, err := h.Orchestrator.Checkout(ctx, checkout.Request{UserID: userID, IdempotencyKey: key, Lang: lang})
	if err != nil {
		return checkoutError(c, err)
	}

	body := echo.Map{
		"order_id": res.Order.ID.String(),
		"total":    res.Order.Total,
		"replayed": res.Replayed,
	}
	if res.NotificationErr != nil {
		body["warning"] = "order placed but the confirmation e-mail could not be sent"
	}
	return success(c, http.StatusCreated, body)
}

func checkoutError(c echo.Context, err error) error {
	code := checkout.Code(err)
	status, ok := checkoutStatus[code]
	if !ok {
		status = http.StatusInternalServerError
		code = "internal"
	}
	msg, ok := checkoutMessage[code]
	if !ok {
		msg = publicMessage(err, checkout.ErrValidation)
		if status >= 500 {
			msg = "internal error"
		}
	}

	body := echo.Map{"success": false, "error": msg, "code": code}
	if code == "missing_delivery_info" {
		body["redirect"] = "/delivery"
	}
	return c.JSON(status, body)
}
