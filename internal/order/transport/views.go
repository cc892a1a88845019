package transport

import (
	"time"

	"github.com/samber/lo"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
)

type ProductDetails struct {
	Title     string   `json:"title"`
	Size      string   `json:"size"`
	Price     int64    `json:"price"`
	Discount  int      `json:"discount"`
	Thumbnail []string `json:"thumbnail"`
}

type LineView struct {
	ProductID      uint           `json:"product_id"`
	Quantity       int            `json:"quantity"`
	TotalMoney     int64          `json:"total_money"`
	ProductDetails ProductDetails `json:"product_details"`
}

type UserView struct {
	IDUser      uint   `json:"id_user"`
	Fullname    string `json:"fullname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

type OrderView struct {
	OrderID    uint               `json:"order_id"`
	UserID     uint               `json:"user_id"`
	User       *UserView          `json:"user,omitempty"`
	OrderDate  time.Time          `json:"order_date"`
	Status     domain.OrderStatus `json:"status"`
	Note       string             `json:"note"`
	TotalMoney int64              `json:"total_money"`
	Products   []LineView         `json:"products"`
}

type CartLineView struct {
	OrderID        uint           `json:"order_id"`
	ProductID      uint           `json:"product_id"`
	Quantity       int            `json:"quantity"`
	TotalMoney     int64          `json:"total_money"`
	ProductDetails ProductDetails `json:"product_details"`
}

type RemovedItemView struct {
	IDUser         uint           `json:"id_user"`
	ProductID      uint           `json:"product_id"`
	ProductDetails ProductDetails `json:"product_details"`
}

func NewProductDetails(p *models.Product) ProductDetails {
	if p == nil {
		return ProductDetails{Thumbnail: []string{}}
	}
	d := ProductDetails{
		Title:     p.Title,
		Size:      p.Size,
		Price:     p.Price,
		Discount:  p.Discount,
		Thumbnail: []string{},
	}
	if p.Gallery != nil {
		d.Thumbnail = p.Gallery.Thumbnails.List()
	}
	return d
}

func NewLineView(l models.OrderLine) LineView {
	return LineView{
		ProductID:      l.ProductID,
		Quantity:       l.Quantity,
		TotalMoney:     l.TotalMoney,
		ProductDetails: NewProductDetails(l.Product),
	}
}

func NewUserView(u *models.User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		IDUser:      u.ID,
		Fullname:    u.Fullname,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
	}
}

// NewOrderView renders an order with its preloaded lines. The total always
// covers every line.
func NewOrderView(o *models.Order) OrderView {
	return NewOrderPageView(o, o.Lines, Total(o.Lines))
}

// NewOrderPageView renders an order with only the given lines while keeping
// the total computed over the whole order.
func NewOrderPageView(o *models.Order, lines []models.OrderLine, total int64) OrderView {
	return OrderView{
		OrderID:    o.ID,
		UserID:     o.UserID,
		User:       NewUserView(o.User),
		OrderDate:  o.OrderDate,
		Status:     o.Status,
		Note:       o.Note,
		TotalMoney: total,
		Products:   lo.Map(lines, func(l models.OrderLine, _ int) LineView { return NewLineView(l) }),
	}
}

func NewOrderViews(orders []models.Order) []OrderView {
	return lo.Map(orders, func(o models.Order, _ int) OrderView { return NewOrderView(&o) })
}

func Total(lines []models.OrderLine) int64 {
	return lo.SumBy(lines, func(l models.OrderLine) int64 { return l.TotalMoney })
}
