package transport

import (
	"time"

	"github.com/samber/lo"

	"github.com/Skotchmaster/storefront/internal/models"
)

type UserView struct {
	ID          uint      `json:"id_user"`
	Fullname    string    `json:"fullname"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

type LoginView struct {
	User        UserView `json:"user"`
	AccessToken string   `json:"accessToken"`
}

type TokenView struct {
	AccessToken string `json:"accessToken"`
}

// LoginResult carries both tokens out of the service; only the access
// token goes into the body.
type LoginResult struct {
	User         UserView
	AccessToken  string
	RefreshToken string
	RefreshExp   time.Time
}

func NewUserView(u *models.User) UserView {
	return UserView{
		ID:          u.ID,
		Fullname:    u.Fullname,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}

func NewUserViews(us []models.User) []UserView {
	return lo.Map(us, func(u models.User, _ int) UserView { return NewUserView(&u) })
}
