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

// miss turns a gorm lookup miss into domain.ErrNotFound and wraps anything
// else with a stack.
func miss(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, fmt.Sprintf(format, args...))
	}
	return errors.Wrapf(err, "load "+format, args...)
}
