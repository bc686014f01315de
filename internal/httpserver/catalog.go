package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func listQuery(c echo.Context) service.ListQuery {
	return service.ListQuery{
		Page:     util.ParseIntDefault(c.QueryParam("page"), 1),
		Size:     util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
		Lang:     requestLang(c),
		Category: c.QueryParam("category"),
	}
}

func (h *CatalogHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list")

	page, err := h.Svc.List(ctx, listQuery(c))
	if err != nil {
		return serviceError(c, l, "list_products_error", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	page, err := h.Svc.Search(ctx, c.QueryParam("q"), listQuery(c))
	if err != nil {
		return serviceError(c, l, "search_products_error", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.Svc.Get(ctx, id, requestLang(c))
	if err != nil {
		return serviceError(c, l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create")

	var in service.ProductInput
	if err := c.Bind(&in); err != nil {
		return badBody(c, l, "create_product_error", err)
	}
	p, err := h.Svc.Create(ctx, in)
	if err != nil {
		return serviceError(c, l, "create_product_error", err)
	}
	l.Info("product_created", "product_id", p.ID.String())
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in service.ProductInput
	if err := c.Bind(&in); err != nil {
		return badBody(c, l, "update_product_error", err)
	}
	p, err := h.Svc.Update(ctx, id, in)
	if err != nil {
		return serviceError(c, l, "update_product_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return serviceError(c, l, "delete_product_error", err)
	}
	l.Info("product_deleted", "product_id", id.String())
	return c.NoContent(http.StatusNoContent)
}
