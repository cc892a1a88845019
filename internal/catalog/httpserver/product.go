package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/catalog/transport"
	"github.com/Skotchmaster/storefront/internal/httpx"
	"github.com/Skotchmaster/storefront/internal/logging"
)

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page, err := httpx.PageFrom(c)
	if err != nil {
		return httpx.Fail(l, "get_products_error", err)
	}
	categoryID, err := optionalCategory(c)
	if err != nil {
		return httpx.Fail(l, "get_products_error", err)
	}

	items, meta, err := h.Svc.ListProducts(ctx, categoryID, page)
	if err != nil {
		return httpx.Fail(l, "get_products_error", err)
	}
	return httpx.List(c, "products", items, meta)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := httpx.ParseUintParam(c, "id")
	if err != nil {
		return httpx.Fail(l, "get_product_error", err)
	}
	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return httpx.Fail(l, "get_product_error", err)
	}
	return httpx.OK(c, "product", product)
}

func (h *CatalogHTTP) GetProductsByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.by_category")

	id, err := httpx.ParseUintParam(c, "id")
	if err != nil {
		return httpx.Fail(l, "get_products_error", err)
	}
	page, err := httpx.PageFrom(c)
	if err != nil {
		return httpx.Fail(l, "get_products_error", err)
	}

	items, meta, err := h.Svc.ListByCategoryID(ctx, id, page)
	if err != nil {
		return httpx.Fail(l, "get_products_error", err)
	}
	return httpx.List(c, "products", items, meta)
}

func (h *CatalogHTTP) GetProductsByCategoryName(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.by_category_name")

	page, err := httpx.PageFrom(c)
	if err != nil {
		return httpx.Fail(l, "get_products_error", err)
	}
	items, meta, err := h.Svc.ListByCategoryName(ctx, c.Param("name"), page)
	if err != nil {
		return httpx.Fail(l, "get_products_error", err)
	}
	return httpx.List(c, "products", items, meta)
}

func (h *CatalogHTTP) GetProductsByTitle(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.by_title")

	page, err := httpx.PageFrom(c)
	if err != nil {
		return httpx.Fail(l, "get_products_error", err)
	}
	items, meta, err := h.Svc.ListByTitle(ctx, c.Param("title"), page)
	if err != nil {
		return httpx.Fail(l, "get_products_error", err)
	}
	return httpx.List(c, "products", items, meta)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page, err := httpx.PageFrom(c)
	if err != nil {
		return httpx.Fail(l, "search_products_error", err)
	}
	categoryID, err := optionalCategory(c)
	if err != nil {
		return httpx.Fail(l, "search_products_error", err)
	}

	items, meta, err := h.Svc.Search(ctx, c.Param("keyword"), categoryID, page)
	if err != nil {
		return httpx.Fail(l, "search_products_error", err)
	}
	return httpx.List(c, "products", items, meta)
}

func (h *CatalogHTTP) FullTextSearch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.fulltext")

	page, err := httpx.PageFrom(c)
	if err != nil {
		return httpx.Fail(l, "search_products_error", err)
	}
	items, meta, err := h.Svc.FullText(ctx, c.QueryParam("q"), page)
	if err != nil {
		return httpx.Fail(l, "search_products_error", err)
	}
	return httpx.List(c, "products", items, meta)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "product_create_error", err)
	}
	var req transport.ProductRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(l, "product_create_error", err)
	}

	product, err := h.Svc.CreateProduct(ctx, caller, req)
	if err != nil {
		return httpx.Fail(l, "product_create_error", err)
	}
	l.Info("product created", "product_id", product.ID)
	return httpx.Created(c, "product created", product)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "product_update_error", err)
	}
	id, err := httpx.ParseUintParam(c, "id")
	if err != nil {
		return httpx.Fail(l, "product_update_error", err)
	}
	var req transport.ProductRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(l, "product_update_error", err)
	}

	product, err := h.Svc.UpdateProduct(ctx, caller, id, req)
	if err != nil {
		return httpx.Fail(l, "product_update_error", err)
	}
	l.Info("product updated", "product_id", id)
	return httpx.OK(c, "product updated", product)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "product_delete_error", err)
	}
	id, err := httpx.ParseUintParam(c, "id")
	if err != nil {
		return httpx.Fail(l, "product_delete_error", err)
	}

	product, err := h.Svc.DeleteProduct(ctx, caller, id)
	if err != nil {
		return httpx.Fail(l, "product_delete_error", err)
	}
	l.Info("product deleted", "product_id", id)
	return httpx.OK(c, "product deleted", product)
}
