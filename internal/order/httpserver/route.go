package httpserver

import "github.com/labstack/echo/v4"

type Deps struct {
	OrderHandler *OrderHTTP
	RequireAuth  echo.MiddlewareFunc
	RequireAdmin echo.MiddlewareFunc
}

func Register(g *echo.Group, d *Deps) {
	h := d.OrderHandler

	cart := g.Group("/cart", d.RequireAuth)
	cart.POST("/items", h.AddToCart)
	cart.DELETE("/items/:user_id/:product_id", h.RemoveFromCart)
	cart.GET("/:user_id", h.GetCart)

	orders := g.Group("/orders", d.RequireAuth)
	orders.POST("", h.PlaceOrder)
	orders.POST("/cancel", h.CancelOrder)
	orders.GET("", h.ListOrders, d.RequireAdmin)
	orders.GET("/status/:status", h.ListByStatus, d.RequireAdmin)
	orders.GET("/user/:keyword", h.ListByUserKeyword)
	orders.GET("/:id_order", h.GetOrder)
	orders.PUT("/:id_order/confirm", h.ConfirmOrder, d.RequireAdmin)
	orders.DELETE("/:id_order", h.DeleteOrder, d.RequireAdmin)
}
