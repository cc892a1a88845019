package repo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/pagination"
)

type ProductFilter struct {
	CategoryID *uint
	Title      string
	Keyword    string
}

func (f ProductFilter) scope(db *gorm.DB) *gorm.DB {
	if f.CategoryID != nil {
		db = db.Where("category_id = ?", *f.CategoryID)
	}
	if t := strings.TrimSpace(f.Title); t != "" {
		db = db.Where("LOWER(title) LIKE ?", like(t))
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		l := like(kw)
		if n, err := strconv.ParseInt(kw, 10, 64); err == nil {
			db = db.Where("(LOWER(title) LIKE ? OR LOWER(size) LIKE ? OR LOWER(description) LIKE ? OR price = ? OR discount = ?)",
				l, l, l, n, n)
		} else {
			db = db.Where("(LOWER(title) LIKE ? OR LOWER(size) LIKE ? OR LOWER(description) LIKE ?)", l, l, l)
		}
	}
	return db
}

func like(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter, p pagination.Page) ([]models.Product, int64, error) {
	return page[models.Product](ctx, r.DB, p, "id", f.scope, "Category", "Gallery")
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Preload("Category").Preload("Gallery").First(&product, id).Error; err != nil {
		return nil, miss(err, "product %d", id)
	}
	return &product, nil
}

// ProductsByIDs loads the products in the order of ids, skipping ids that no
// longer exist.
func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var found []models.Product
	if err := r.DB.WithContext(ctx).Preload("Category").Preload("Gallery").Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, errors.Wrap(err, "load products by id")
	}
	byID := lo.KeyBy(found, func(p models.Product) uint { return p.ID })
	return lo.FilterMap(ids, func(id uint, _ int) (models.Product, bool) {
		p, ok := byID[id]
		return p, ok
	}), nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := r.DB.WithContext(ctx).Create(product).Error; err != nil {
		return write(err, "product %q", product.Title)
	}
	return nil
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, apply func(p *models.Product)) (*models.Product, error) {
	var product models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
			return miss(err, "product %d", id)
		}
		apply(&product)
		product.Category, product.Gallery = nil, nil
		if err := tx.Save(&product).Error; err != nil {
			return write(err, "product %q", product.Title)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct refuses while an order in fulfilment holds the product.
// Otherwise it drops the product from every other order, removes carts left
// empty and deletes the product.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
			return miss(err, "product %d", id)
		}

		var active int64
		if err := tx.Model(&models.OrderLine{}).
			Joins("JOIN orders ON orders.id = order_lines.order_id").
			Where("order_lines.product_id = ? AND orders.status IN ?", id, domain.ActiveStatuses).
			Count(&active).Error; err != nil {
			return errors.Wrap(err, "count active lines")
		}
		if active > 0 {
			return fmt.Errorf("%w: product %d is part of %d order(s) in fulfilment", domain.ErrInvalidState, id, active)
		}

		var orderIDs []uint
		if err := tx.Model(&models.OrderLine{}).Where("product_id = ?", id).Pluck("order_id", &orderIDs).Error; err != nil {
			return errors.Wrap(err, "collect orders")
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.OrderLine{}).Error; err != nil {
			return errors.Wrap(err, "delete lines")
		}
		if len(orderIDs) > 0 {
			if err := tx.Where("id IN ? AND status = ?", orderIDs, domain.StatusCart).
				Where("NOT EXISTS (SELECT 1 FROM order_lines WHERE order_lines.order_id = orders.id)").
				Delete(&models.Order{}).Error; err != nil {
				return errors.Wrap(err, "prune empty carts")
			}
		}

		if err := tx.Delete(&product).Error; err != nil {
			return errors.Wrap(err, "delete product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}
