package httpserver

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/catalog/service"
	"github.com/Skotchmaster/storefront/internal/catalog/transport"
	"github.com/Skotchmaster/storefront/internal/httpx"
	"github.com/Skotchmaster/storefront/internal/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func optionalCategory(c echo.Context) (*uint, error) {
	raw := strings.TrimSpace(c.QueryParam("category_id"))
	if raw == "" {
		return nil, nil
	}
	id, err := httpx.ParseUint(raw, "category_id")
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_categories")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return httpx.Fail(l, "list_categories_error", err)
	}
	return httpx.OK(c, "categories", cats)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_category")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "create_category_error", err)
	}
	var req transport.CategoryRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(l, "create_category_error", err)
	}

	cat, err := h.Svc.CreateCategory(ctx, caller, req)
	if err != nil {
		return httpx.Fail(l, "create_category_error", err)
	}
	l.Info("category created", "category_id", cat.ID)
	return httpx.Created(c, "category created", cat)
}

func (h *CatalogHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_category")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "update_category_error", err)
	}
	id, err := httpx.ParseUintParam(c, "id")
	if err != nil {
		return httpx.Fail(l, "update_category_error", err)
	}
	var req transport.CategoryRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(l, "update_category_error", err)
	}

	cat, err := h.Svc.UpdateCategory(ctx, caller, id, req)
	if err != nil {
		return httpx.Fail(l, "update_category_error", err)
	}
	return httpx.OK(c, "category updated", cat)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_category")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "delete_category_error", err)
	}
	id, err := httpx.ParseUintParam(c, "id")
	if err != nil {
		return httpx.Fail(l, "delete_category_error", err)
	}

	cat, err := h.Svc.DeleteCategory(ctx, caller, id)
	if err != nil {
		return httpx.Fail(l, "delete_category_error", err)
	}
	l.Info("category deleted", "category_id", id)
	return httpx.OK(c, "category deleted", cat)
}

func (h *CatalogHTTP) ListGalleries(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_galleries")

	page, err := httpx.PageFrom(c)
	if err != nil {
		return httpx.Fail(l, "list_galleries_error", err)
	}
	gals, meta, err := h.Svc.ListGalleries(ctx, page)
	if err != nil {
		return httpx.Fail(l, "list_galleries_error", err)
	}
	return httpx.List(c, "galleries", gals, meta)
}

func (h *CatalogHTTP) SearchGalleries(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search_galleries")

	page, err := httpx.PageFrom(c)
	if err != nil {
		return httpx.Fail(l, "search_galleries_error", err)
	}
	gals, meta, err := h.Svc.SearchGalleries(ctx, c.Param("keyword"), page)
	if err != nil {
		return httpx.Fail(l, "search_galleries_error", err)
	}
	return httpx.List(c, "galleries", gals, meta)
}

func (h *CatalogHTTP) CreateGallery(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_gallery")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "create_gallery_error", err)
	}
	var req transport.CreateGalleryRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(l, "create_gallery_error", err)
	}

	gal, err := h.Svc.CreateGallery(ctx, caller, req)
	if err != nil {
		return httpx.Fail(l, "create_gallery_error", err)
	}
	l.Info("gallery created", "gallery_id", gal.ID)
	return httpx.Created(c, "gallery created", gal)
}

func (h *CatalogHTTP) UpdateGallery(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_gallery")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "update_gallery_error", err)
	}
	id, err := httpx.ParseUintParam(c, "id")
	if err != nil {
		return httpx.Fail(l, "update_gallery_error", err)
	}
	var req transport.UpdateGalleryRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(l, "update_gallery_error", err)
	}

	gal, err := h.Svc.UpdateGallery(ctx, caller, id, req)
	if err != nil {
		return httpx.Fail(l, "update_gallery_error", err)
	}
	return httpx.OK(c, "gallery updated", gal)
}

func (h *CatalogHTTP) DeleteGallery(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_gallery")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "delete_gallery_error", err)
	}
	id, err := httpx.ParseUintParam(c, "id")
	if err != nil {
		return httpx.Fail(l, "delete_gallery_error", err)
	}

	gal, err := h.Svc.DeleteGallery(ctx, caller, id)
	if err != nil {
		return httpx.Fail(l, "delete_gallery_error", err)
	}
	l.Info("gallery deleted", "gallery_id", id)
	return httpx.OK(c, "gallery deleted", gal)
}
