package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type FavoritesHTTP struct {
	Svc *service.FavoritesService
}

func (h *FavoritesHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorites.list")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "list_favorites_error")
	}
	items, err := h.Svc.List(ctx, userID, requestLang(c))
	if err != nil {
		return serviceError(c, l, "list_favorites_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *FavoritesHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorites.add")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "add_favorite_error")
	}
	var req struct {
		ProductID uuid.UUID `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "add_favorite_error", err)
	}

	created, err := h.Svc.Add(ctx, userID, req.ProductID)
	if err != nil {
		return serviceError(c, l, "add_favorite_error", err)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return success(c, status, echo.Map{"created": created})
}

func (h *FavoritesHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorites.remove")

	userID, err := currentUser(c)
	if err != nil {
		return unauthenticated(c, l, "remove_favorite_error")
	}
	productID, err := pathID(c, "product_id")
	if err != nil {
		return err
	}
	if err := h.Svc.Remove(ctx, userID, productID); err != nil {
		return serviceError(c, l, "remove_favorite_error", err)
	}
	return success(c, http.StatusOK, nil)
}
