package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "get_cart_error")
	}
	cart, err := h.Svc.GetCart(ctx, userID, requestLang(c))
	if err != nil {
		return serviceError(c, l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "add_to_cart_error")
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  uint      `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "add_to_cart_error", err)
	}

	item, err := h.Svc.AddToCart(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return serviceError(c, l, "add_to_cart_error", err)
	}
	return success(c, http.StatusCreated, echo.Map{"item": item})
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "update_cart_item_error")
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "update_cart_item_error", err)
	}

	item, err := h.Svc.UpdateQuantity(ctx, userID, itemID, req.Quantity)
	if err != nil {
		return serviceError(c, l, "update_cart_item_error", err)
	}
	return success(c, http.StatusOK, echo.Map{"item": item})
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "remove_cart_item_error")
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.RemoveItem(ctx, userID, itemID); err != nil {
		return serviceError(c, l, "remove_cart_item_error", err)
	}
	return success(c, http.StatusOK, nil)
}

// DeleteOneFromCart takes one unit of a product out of the cart.
func (h *CartHTTP) DeleteOneFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.delete_one")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "delete_one_from_cart_error")
	}
	var req struct {
		ProductID uuid.UUID `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "delete_one_from_cart_error", err)
	}

	deleted, item, err := h.Svc.DeleteOneFromCart(ctx, userID, req.ProductID)
	if err != nil {
		return serviceError(c, l, "delete_one_from_cart_error", err)
	}
	if deleted {
		return success(c, http.StatusOK, echo.Map{"deleted": true})
	}
	return success(c, http.StatusOK, echo.Map{"deleted": false, "item": item})
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "clear_cart_error")
	}
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "clear_cart_error", err)
	}
	if !sameUser(req.UserID, userID) {
		l.Warn("clear_cart_error", "status", http.StatusForbidden, "reason", "user_id does not match session")
		return failure(c, http.StatusForbidden, "forbidden", "user_id does not match session")
	}

	if err := h.Svc.Clear(ctx, userID); err != nil {
		return serviceError(c, l, "clear_cart_error", err)
	}
	return success(c, http.StatusOK, nil)
}

func (h *CartHTTP) Count(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.count")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "cart_count_error")
	}
	if !sameUser(c.QueryParam("user_id"), userID) {
		l.Warn("cart_count_error", "status", http.StatusForbidden, "reason", "user_id does not match session")
		return failure(c, http.StatusForbidden, "forbidden", "user_id does not match session")
	}

	n, err := h.Svc.Count(ctx, userID)
	if err != nil {
		return serviceError(c, l, "cart_count_error", err)
	}
	return success(c, http.StatusOK, echo.Map{"count": n})
}
