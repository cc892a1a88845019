package repo

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/pagination"
)

func (r *GormRepo) FindUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, miss(err, "user %d", id)
	}
	return &user, nil
}

func (r *GormRepo) FindProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Preload("Gallery").First(&product, id).Error; err != nil {
		return nil, miss(err, "product %d", id)
	}
	return &product, nil
}

// FindUserByKeyword returns the lowest-id user whose fullname, email, phone
// or address contains keyword, ignoring case.
func (r *GormRepo) FindUserByKeyword(ctx context.Context, keyword string) (*models.User, error) {
	like := "%" + strings.ToLower(keyword) + "%"
	var user models.User
	err := r.DB.WithContext(ctx).
		Where("LOWER(fullname) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone_number) LIKE ? OR LOWER(address) LIKE ?",
			like, like, like, like).
		Order("id").
		First(&user).Error
	if err != nil {
		return nil, miss(err, "user matching %q", keyword)
	}
	return &user, nil
}

// Cart returns the user's cart with every line.
func (r *GormRepo) Cart(ctx context.Context, userID uint) (*models.Order, error) {
	var cart models.Order
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, domain.StatusCart).
		Order("id").
		First(&cart).Error
	if err != nil {
		return nil, miss(err, "cart of user %d", userID)
	}
	return loadSnapshot(r.DB.WithContext(ctx), cart.ID)
}

func (r *GormRepo) FindOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("User").First(&order, id).Error; err != nil {
		return nil, miss(err, "order %d", id)
	}
	return &order, nil
}

// LinesPage returns one page of an order's lines plus the line count and the
// total over all lines.
func (r *GormRepo) LinesPage(ctx context.Context, orderID uint, p pagination.Page) ([]models.OrderLine, int64, int64, error) {
	db := r.DB.WithContext(ctx)

	var count int64
	if err := db.Model(&models.OrderLine{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return nil, 0, 0, errors.Wrap(err, "count lines")
	}
	var total int64
	if err := db.Model(&models.OrderLine{}).Where("order_id = ?", orderID).
		Select("COALESCE(SUM(total_money), 0)").Scan(&total).Error; err != nil {
		return nil, 0, 0, errors.Wrap(err, "sum lines")
	}

	var lines []models.OrderLine
	if err := db.Preload("Product.Gallery").
		Where("order_id = ?", orderID).
		Order("product_id").
		Limit(p.Limit).Offset(p.Offset()).
		Find(&lines).Error; err != nil {
		return nil, 0, 0, errors.Wrap(err, "list lines")
	}
	return lines, count, total, nil
}

// Transition locks the order, asks decide for the next status and persists
// it. It returns the updated order and the status it left.
func (r *GormRepo) Transition(ctx context.Context, orderID uint, decide func(o *models.Order) (domain.OrderStatus, error)) (*models.Order, domain.OrderStatus, error) {
	var (
		updated *models.Order
		from    domain.OrderStatus
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		from = order.Status

		next, err := decide(order)
		if err != nil {
			return err
		}
		if err := tx.Model(order).Update("status", next).Error; err != nil {
			return errors.Wrap(err, "update status")
		}

		updated, err = loadSnapshot(tx, orderID)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	return updated, from, nil
}

// DeleteOrder removes the order and its lines when guard allows it and
// returns the order as it was before deletion.
func (r *GormRepo) DeleteOrder(ctx context.Context, orderID uint, guard func(o *models.Order) error) (*models.Order, error) {
	var snapshot *models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if err := guard(order); err != nil {
			return err
		}

		if snapshot, err = loadSnapshot(tx, orderID); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderLine{}).Error; err != nil {
			return errors.Wrap(err, "delete lines")
		}
		if err := tx.Delete(&models.Order{}, orderID).Error; err != nil {
			return errors.Wrap(err, "delete order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *GormRepo) ListByStatus(ctx context.Context, status domain.OrderStatus, p pagination.Page) ([]models.Order, int64, error) {
	return r.list(ctx, p, "created_at DESC, id DESC", "status = ?", status)
}

func (r *GormRepo) ListByUser(ctx context.Context, userID uint, p pagination.Page) ([]models.Order, int64, error) {
	return r.list(ctx, p, "created_at DESC, id DESC", "user_id = ?", userID)
}

func (r *GormRepo) ListAll(ctx context.Context, p pagination.Page) ([]models.Order, int64, error) {
	return r.list(ctx, p, "created_at DESC, id DESC", "")
}

func (r *GormRepo) list(ctx context.Context, p pagination.Page, order string, where string, args ...any) ([]models.Order, int64, error) {
	scoped := func() *gorm.DB {
		q := r.DB.WithContext(ctx).Model(&models.Order{})
		if where != "" {
			q = q.Where(where, args...)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count orders")
	}

	var orders []models.Order
	if err := scoped().Scopes(withDetails).
		Order(order).
		Limit(p.Limit).Offset(p.Offset()).
		Find(&orders).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list orders")
	}
	return orders, total, nil
}

func lockOrder(tx *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
		return nil, miss(err, "order %d", id)
	}
	return &order, nil
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("User").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("product_id") }).
		Preload("Lines.Product.Gallery")
}

func loadSnapshot(tx *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := tx.Scopes(withDetails).First(&order, id).Error; err != nil {
		return nil, miss(err, "order %d", id)
	}
	return &order, nil
}
