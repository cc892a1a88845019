package repo

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/pagination"
)

type GormRepo struct {
	DB *gorm.DB
}

func miss(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, fmt.Sprintf(format, args...))
	}
	return errors.Wrapf(err, "load "+format, args...)
}

// write maps unique-constraint violations to domain.ErrConflict.
func write(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s already exists", domain.ErrConflict, fmt.Sprintf(format, args...))
	}
	return errors.Wrapf(err, "write "+format, args...)
}

// page counts and fetches one page of model rows matching scope. Preloads
// apply to the fetch only.
func page[T any](ctx context.Context, db *gorm.DB, p pagination.Page, order string, scope func(*gorm.DB) *gorm.DB, preloads ...string) ([]T, int64, error) {
	var model T
	var total int64
	if err := db.WithContext(ctx).Model(&model).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count")
	}

	q := db.WithContext(ctx).Model(&model).Scopes(scope)
	for _, rel := range preloads {
		q = q.Preload(rel)
	}
	items := make([]T, 0, p.Limit)
	if err := q.Order(order).
		Limit(p.Limit).Offset(p.Offset()).
		Find(&items).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list")
	}
	return items, total, nil
}

func all(db *gorm.DB) *gorm.DB { return db }
