package models

import (
	"time"

	"github.com/Skotchmaster/storefront/internal/domain"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"           json:"id_user"`
	Fullname     string    `gorm:"size:50;not null"                   json:"fullname"`
	Email        string    `gorm:"size:150;uniqueIndex;not null"      json:"email"`
	PhoneNumber  string    `gorm:"size:20;not null"                   json:"phone_number"`
	Address      string    `gorm:"size:200"                           json:"address"`
	PasswordHash string    `gorm:"size:255;not null"                  json:"-"`
	Role         string    `gorm:"size:10;not null;default:user"      json:"role"`
	CreatedAt    time.Time `                                          json:"created_at"`
	UpdatedAt    time.Time `                                          json:"updated_at"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"       json:"id_category"`
	Name string `gorm:"size:100;uniqueIndex;not null"  json:"name"`
}

type Gallery struct {
	ID         uint       `gorm:"primaryKey;autoIncrement"  json:"id_gallery"`
	Name       string     `gorm:"size:255;not null"         json:"name"`
	Thumbnails Thumbnails `gorm:"type:text"                 json:"thumbnails"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"  json:"id_product"`
	CategoryID  uint      `gorm:"index;not null"            json:"id_category"`
	Category    *Category `gorm:"foreignKey:CategoryID"     json:"category,omitempty"`
	GalleryID   uint      `gorm:"index;not null"            json:"id_gallery"`
	Gallery     *Gallery  `gorm:"foreignKey:GalleryID"      json:"gallery,omitempty"`
	Title       string    `gorm:"size:150;not null"         json:"title"`
	Price       int64     `gorm:"not null"                  json:"price"`
	Discount    int       `gorm:"not null;default:0"        json:"discount"`
	Size        string    `gorm:"size:20;not null"          json:"size"`
	Description string    `gorm:"type:text;not null"        json:"description"`
	CreatedAt   time.Time `                                 json:"created_at"`
	UpdatedAt   time.Time `                                 json:"updated_at"`
}

type Order struct {
	ID        uint               `gorm:"primaryKey;autoIncrement"  json:"id_order"`
	UserID    uint               `gorm:"index;not null"            json:"id_user"`
	User      *User              `gorm:"foreignKey:UserID"         json:"user,omitempty"`
	OrderDate time.Time          `gorm:"not null"                  json:"order_date"`
	Status    domain.OrderStatus `gorm:"size:20;index;not null"    json:"status"`
	Note      string             `gorm:"type:text"                 json:"note"`
	Lines     []OrderLine        `gorm:"foreignKey:OrderID"        json:"lines,omitempty"`
	CreatedAt time.Time          `                                 json:"created_at"`
	UpdatedAt time.Time          `                                 json:"updated_at"`
}

type OrderLine struct {
	OrderID    uint     `gorm:"primaryKey;autoIncrement:false"  json:"id_order"`
	ProductID  uint     `gorm:"primaryKey;autoIncrement:false"  json:"id_product"`
	Product    *Product `gorm:"foreignKey:ProductID"            json:"product,omitempty"`
	Quantity   int      `gorm:"not null;default:1"              json:"quantity"`
	UnitPrice  int64    `gorm:"not null"                        json:"unit_price"`
	TotalMoney int64    `gorm:"not null"                        json:"total_money"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"              json:"id"`
	Token     string    `gorm:"uniqueIndex;not null"    json:"-"`
	UserID    uint      `gorm:"index;not null"          json:"user_id"`
	JTI       string    `gorm:"uniqueIndex;not null"    json:"jti"`
	ExpiresAt int64     `gorm:"not null"                json:"expires_at"`
	Revoked   bool      `gorm:"not null;default:false"  json:"revoked"`
	CreatedAt time.Time `                               json:"created_at"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{}, &Category{}, &Gallery{}, &Product{}, &Order{}, &OrderLine{}, &RefreshToken{},
	}
}
