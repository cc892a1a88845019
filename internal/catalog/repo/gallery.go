package repo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/pagination"
)

func (r *GormRepo) FindGallery(ctx context.Context, id uint) (*models.Gallery, error) {
	var gal models.Gallery
	if err := r.DB.WithContext(ctx).First(&gal, id).Error; err != nil {
		return nil, miss(err, "gallery %d", id)
	}
	return &gal, nil
}

func (r *GormRepo) ListGalleries(ctx context.Context, p pagination.Page) ([]models.Gallery, int64, error) {
	return page[models.Gallery](ctx, r.DB, p, "id", all)
}

// SearchGalleries matches the id exactly when keyword is numeric and the
// name otherwise.
func (r *GormRepo) SearchGalleries(ctx context.Context, keyword string, p pagination.Page) ([]models.Gallery, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if id, err := strconv.ParseUint(keyword, 10, 64); err == nil {
			return db.Where("id = ?", id)
		}
		return db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(keyword)+"%")
	}
	return page[models.Gallery](ctx, r.DB, p, "id", scope)
}

func (r *GormRepo) CreateGallery(ctx context.Context, gal *models.Gallery) error {
	if err := r.DB.WithContext(ctx).Create(gal).Error; err != nil {
		return write(err, "gallery %q", gal.Name)
	}
	return nil
}

func (r *GormRepo) UpdateGallery(ctx context.Context, id uint, name *string, thumbnails models.Thumbnails) (*models.Gallery, error) {
	var gal models.Gallery
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&gal, id).Error; err != nil {
			return miss(err, "gallery %d", id)
		}
		if name != nil {
			gal.Name = *name
		}
		if thumbnails != nil {
			gal.Thumbnails = thumbnails
		}
		if err := tx.Save(&gal).Error; err != nil {
			return write(err, "gallery %q", gal.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &gal, nil
}

func (r *GormRepo) DeleteGallery(ctx context.Context, id uint) (*models.Gallery, error) {
	var gal models.Gallery
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&gal, id).Error; err != nil {
			return miss(err, "gallery %d", id)
		}
		var used int64
		if err := tx.Model(&models.Product{}).Where("gallery_id = ?", id).Count(&used).Error; err != nil {
			return errors.Wrap(err, "count products")
		}
		if used > 0 {
			return fmt.Errorf("%w: gallery %d is used by %d product(s)", domain.ErrInvalidState, id, used)
		}
		if err := tx.Delete(&gal).Error; err != nil {
			return errors.Wrap(err, "delete gallery")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &gal, nil
}
