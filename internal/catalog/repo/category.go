package repo

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	cats := []models.Category{}
	if err := r.DB.WithContext(ctx).Order("id").Find(&cats).Error; err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return cats, nil
}

func (r *GormRepo) FindCategory(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, miss(err, "category %d", id)
	}
	return &cat, nil
}

func (r *GormRepo) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&cat).Error; err != nil {
		return nil, miss(err, "category %q", name)
	}
	return &cat, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) error {
	if err := r.DB.WithContext(ctx).Create(cat).Error; err != nil {
		return write(err, "category %q", cat.Name)
	}
	return nil
}

func (r *GormRepo) RenameCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	var cat models.Category
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cat, id).Error; err != nil {
			return miss(err, "category %d", id)
		}
		if err := tx.Model(&cat).Update("name", name).Error; err != nil {
			return write(err, "category %q", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory refuses while any product still references the category.
func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cat, id).Error; err != nil {
			return miss(err, "category %d", id)
		}
		var used int64
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&used).Error; err != nil {
			return errors.Wrap(err, "count products")
		}
		if used > 0 {
			return fmt.Errorf("%w: category %d is used by %d product(s)", domain.ErrInvalidState, id, used)
		}
		if err := tx.Delete(&cat).Error; err != nil {
			return errors.Wrap(err, "delete category")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}
