package repo

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/pagination"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		return write(err, "user %q", u.Email)
	}
	return nil
}

func (r *GormRepo) FindUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, miss(err, "user %d", id)
	}
	return &u, nil
}

func (r *GormRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, miss(err, "user %q", email)
	}
	return &u, nil
}

func (r *GormRepo) ListUsers(ctx context.Context, p pagination.Page) ([]models.User, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count users")
	}
	users := []models.User{}
	err := r.DB.WithContext(ctx).
		Order("id").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list users")
	}
	return users, total, nil
}

// UpdateUser loads the user under lock, lets apply mutate it and saves the
// changed columns.
func (r *GormRepo) UpdateUser(ctx context.Context, id uint, apply func(*models.User) error) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, id).Error; err != nil {
			return miss(err, "user %d", id)
		}
		if err := apply(&u); err != nil {
			return err
		}
		if err := tx.Save(&u).Error; err != nil {
			return write(err, "user %q", u.Email)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EnsureAdmin creates the admin account unless a user with that email
// exists, in which case it is promoted. It reports whether a row was created.
func (r *GormRepo) EnsureAdmin(ctx context.Context, u *models.User) (bool, error) {
	created := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("LOWER(email) = ?", strings.ToLower(u.Email)).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(u).Error; err != nil {
				return write(err, "user %q", u.Email)
			}
			created = true
			return nil
		case err != nil:
			return errors.Wrap(err, "load admin")
		}
		*u = existing
		if existing.Role == models.RoleAdmin {
			return nil
		}
		u.Role = models.RoleAdmin
		return errors.Wrap(tx.Model(&existing).Update("role", models.RoleAdmin).Error, "promote admin")
	})
	return created, err
}
