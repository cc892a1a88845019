package transport

type AddToCartRequest struct {
	UserID    uint    `json:"user_id"    validate:"required"`
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity"   validate:"required,min=1"`
	Note      *string `json:"note"`
}

type PlaceOrderRequest struct {
	UserID uint    `json:"user_id" validate:"required"`
	Note   *string `json:"note"`
}

type CancelOrderRequest struct {
	OrderID uint `json:"id_order" validate:"required"`
	UserID  uint `json:"id_user"  validate:"required"`
}

type ConfirmOrderRequest struct {
	DeliveryStatus string `json:"deliveryStatus"`
}
