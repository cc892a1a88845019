package repo

import (
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
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

// write maps a unique-key violation to domain.ErrConflict.
func write(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s already exists", domain.ErrConflict, fmt.Sprintf(format, args...))
	}
	return errors.Wrapf(err, "save "+format, args...)
}
