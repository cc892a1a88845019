package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/httpx"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/order/service"
	"github.com/Skotchmaster/storefront/internal/order/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.add_to_cart")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "add_to_cart_error", err)
	}
	var req transport.AddToCartRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(l, "add_to_cart_error", err)
	}

	view, err := h.Svc.AddToCart(ctx, caller, req)
	if err != nil {
		return httpx.Fail(l, "add_to_cart_error", err)
	}

	l.Info("item added to cart", "order_id", view.OrderID, "product_id", view.ProductID)
	return httpx.OK(c, "product added to cart", view)
}

func (h *OrderHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.remove_from_cart")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "remove_from_cart_error", err)
	}
	userID, err := httpx.ParseUintParam(c, "user_id")
	if err != nil {
		return httpx.Fail(l, "remove_from_cart_error", err)
	}
	productID, err := httpx.ParseUintParam(c, "product_id")
	if err != nil {
		return httpx.Fail(l, "remove_from_cart_error", err)
	}

	view, err := h.Svc.RemoveFromCart(ctx, caller, userID, productID)
	if err != nil {
		return httpx.Fail(l, "remove_from_cart_error", err)
	}

	l.Info("item removed from cart", "user_id", userID, "product_id", productID)
	return httpx.OK(c, "product removed from cart", view)
}

func (h *OrderHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_cart")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "get_cart_error", err)
	}
	userID, err := httpx.ParseUintParam(c, "user_id")
	if err != nil {
		return httpx.Fail(l, "get_cart_error", err)
	}

	view, err := h.Svc.GetCart(ctx, caller, userID)
	if err != nil {
		return httpx.Fail(l, "get_cart_error", err)
	}
	return httpx.OK(c, "cart items", view)
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "place_order_error", err)
	}
	var req transport.PlaceOrderRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(l, "place_order_error", err)
	}

	view, err := h.Svc.PlaceOrder(ctx, caller, req)
	if err != nil {
		return httpx.Fail(l, "place_order_error", err)
	}

	l.Info("order placed", "order_id", view.OrderID, "total_money", view.TotalMoney)
	return httpx.OK(c, "order placed", view)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "cancel_order_error", err)
	}
	var req transport.CancelOrderRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(l, "cancel_order_error", err)
	}

	view, err := h.Svc.CancelOrder(ctx, caller, req)
	if err != nil {
		return httpx.Fail(l, "cancel_order_error", err)
	}

	l.Info("order canceled", "order_id", view.OrderID)
	return httpx.OK(c, "order canceled", view)
}

func (h *OrderHTTP) ConfirmOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.confirm")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "confirm_order_error", err)
	}
	orderID, err := httpx.ParseUintParam(c, "id_order")
	if err != nil {
		return httpx.Fail(l, "confirm_order_error", err)
	}
	var req transport.ConfirmOrderRequest
	if c.Request().ContentLength != 0 {
		if err := httpx.Bind(c, &req); err != nil {
			return httpx.Fail(l, "confirm_order_error", err)
		}
	}

	view, err := h.Svc.ConfirmOrder(ctx, caller, orderID, req)
	if err != nil {
		return httpx.Fail(l, "confirm_order_error", err)
	}

	l.Info("order advanced", "order_id", orderID, "status", view.Status)
	return httpx.OK(c, "order status updated", view)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "delete_order_error", err)
	}
	orderID, err := httpx.ParseUintParam(c, "id_order")
	if err != nil {
		return httpx.Fail(l, "delete_order_error", err)
	}

	view, err := h.Svc.DeleteOrder(ctx, caller, orderID)
	if err != nil {
		return httpx.Fail(l, "delete_order_error", err)
	}

	l.Info("order deleted", "order_id", orderID)
	return httpx.OK(c, "order deleted", view)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "get_order_error", err)
	}
	orderID, err := httpx.ParseUintParam(c, "id_order")
	if err != nil {
		return httpx.Fail(l, "get_order_error", err)
	}
	page, err := httpx.PageFrom(c)
	if err != nil {
		return httpx.Fail(l, "get_order_error", err)
	}

	view, meta, err := h.Svc.GetOrder(ctx, caller, orderID, page)
	if err != nil {
		return httpx.Fail(l, "get_order_error", err)
	}
	return httpx.List(c, "order details", view, meta)
}

func (h *OrderHTTP) ListByStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_by_status")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "list_orders_error", err)
	}
	page, err := httpx.PageFrom(c)
	if err != nil {
		return httpx.Fail(l, "list_orders_error", err)
	}

	views, meta, err := h.Svc.ListByStatus(ctx, caller, c.Param("status"), page)
	if err != nil {
		return httpx.Fail(l, "list_orders_error", err)
	}
	return httpx.List(c, "orders", views, meta)
}

func (h *OrderHTTP) ListByUserKeyword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_by_user")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "list_orders_error", err)
	}
	page, err := httpx.PageFrom(c)
	if err != nil {
		return httpx.Fail(l, "list_orders_error", err)
	}

	views, meta, err := h.Svc.ListByUserKeyword(ctx, caller, c.Param("keyword"), page)
	if err != nil {
		return httpx.Fail(l, "list_orders_error", err)
	}
	return httpx.List(c, "orders", views, meta)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "list_orders_error", err)
	}
	page, err := httpx.PageFrom(c)
	if err != nil {
		return httpx.Fail(l, "list_orders_error", err)
	}

	views, meta, err := h.Svc.ListOrders(ctx, caller, page)
	if err != nil {
		return httpx.Fail(l, "list_orders_error", err)
	}
	return httpx.List(c, "orders", views, meta)
}
