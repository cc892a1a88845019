package events

import "time"

const (
	CartItemAdded      = "cart_item_added"
	CartItemRemoved    = "cart_item_removed"
	OrderPlaced        = "order_placed"
	OrderCanceled      = "order_canceled"
	OrderStatusChanged = "order_status_changed"
	OrderDeleted       = "order_deleted"

	ProductCreated = "product_created"
	ProductUpdated = "product_updated"
	ProductDeleted = "product_deleted"

	UserRegistered = "user_registered"
)

type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    uint      `json:"order_id"`
	UserID     uint      `json:"user_id"`
	ProductID  uint      `json:"product_id,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	TotalMoney int64     `json:"total_money,omitempty"`
	At         time.Time `json:"at"`
}

type ProductEvent struct {
	Type      string    `json:"type"`
	ProductID uint      `json:"product_id"`
	Title     string    `json:"title,omitempty"`
	Price     int64     `json:"price,omitempty"`
	Discount  int       `json:"discount,omitempty"`
	At        time.Time `json:"at"`
}

type UserEvent struct {
	Type   string    `json:"type"`
	UserID uint      `json:"user_id"`
	Email  string    `json:"email"`
	At     time.Time `json:"at"`
}
