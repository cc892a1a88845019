package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
)

type AddItem struct {
	UserID    uint
	ProductID uint
	Quantity  int
	UnitPrice int64
	Note      *string
	Now       time.Time
}

// AddToCart finds or creates the user's cart and increments the product
// line, all under a lock on the user row so concurrent adds serialize.
func (r *GormRepo) AddToCart(ctx context.Context, in AddItem) (*models.OrderLine, error) {
	var line models.OrderLine
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&user, in.UserID).Error; err != nil {
			return miss(err, "user %d", in.UserID)
		}

		cart, err := findCart(tx, in.UserID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			cart = &models.Order{UserID: in.UserID, OrderDate: in.Now, Status: domain.StatusCart}
			if in.Note != nil {
				cart.Note = *in.Note
			}
			if err := tx.Create(cart).Error; err != nil {
				return errors.Wrap(err, "create cart")
			}
		case err != nil:
			return errors.Wrap(err, "find cart")
		case in.Note != nil:
			if err := tx.Model(cart).Update("note", *in.Note).Error; err != nil {
				return errors.Wrap(err, "update cart note")
			}
		}

		res := tx.Model(&models.OrderLine{}).
			Where("order_id = ? AND product_id = ?", cart.ID, in.ProductID).
			Updates(map[string]any{
				"quantity":    gorm.Expr("quantity + ?", in.Quantity),
				"total_money": gorm.Expr("(quantity + ?) * unit_price", in.Quantity),
			})
		if res.Error != nil {
			return errors.Wrap(res.Error, "increment line")
		}
		if res.RowsAffected == 0 {
			line = models.OrderLine{
				OrderID:    cart.ID,
				ProductID:  in.ProductID,
				Quantity:   in.Quantity,
				UnitPrice:  in.UnitPrice,
				TotalMoney: int64(in.Quantity) * in.UnitPrice,
			}
			if err := tx.Create(&line).Error; err != nil {
				return errors.Wrap(err, "create line")
			}
			return nil
		}
		if err := tx.Where("order_id = ? AND product_id = ?", cart.ID, in.ProductID).First(&line).Error; err != nil {
			return errors.Wrap(err, "reload line")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// RemoveFromCart deletes one line and drops the cart once it is empty.
// It returns the cart id.
func (r *GormRepo) RemoveFromCart(ctx context.Context, userID, productID uint) (uint, error) {
	var cartID uint
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := findCart(tx, userID)
		if err != nil {
			return miss(err, "cart of user %d", userID)
		}
		cartID = cart.ID

		res := tx.Where("order_id = ? AND product_id = ?", cart.ID, productID).Delete(&models.OrderLine{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete line")
		}
		if res.RowsAffected == 0 {
			return miss(gorm.ErrRecordNotFound, "product %d in cart", productID)
		}
		return pruneIfEmpty(tx, cart.ID)
	})
	return cartID, err
}

// PlaceOrder turns the user's cart into a pending order.
func (r *GormRepo) PlaceOrder(ctx context.Context, userID uint, note *string, now time.Time) (*models.Order, error) {
	var placed *models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := findCart(tx, userID)
		if err != nil {
			return miss(err, "cart of user %d", userID)
		}

		var lines int64
		if err := tx.Model(&models.OrderLine{}).Where("order_id = ?", cart.ID).Count(&lines).Error; err != nil {
			return errors.Wrap(err, "count lines")
		}
		if lines == 0 {
			return fmt.Errorf("%w: cart is empty", domain.ErrInvalidState)
		}

		updates := map[string]any{"status": domain.StatusPending, "order_date": now}
		if note != nil {
			updates["note"] = *note
		}
		if err := tx.Model(cart).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "place order")
		}

		placed, err = loadSnapshot(tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

func findCart(tx *gorm.DB, userID uint) (*models.Order, error) {
	var cart models.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status = ?", userID, domain.StatusCart).
		Order("id").
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func pruneIfEmpty(tx *gorm.DB, orderID uint) error {
	var left int64
	if err := tx.Model(&models.OrderLine{}).Where("order_id = ?", orderID).Count(&left).Error; err != nil {
		return errors.Wrap(err, "count lines")
	}
	if left > 0 {
		return nil
	}
	if err := tx.Delete(&models.Order{}, orderID).Error; err != nil {
		return errors.Wrap(err, "delete empty cart")
	}
	return nil
}
