// Package access holds the role and ownership predicates every service
// evaluates before touching data.
package access

import (
	"fmt"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
)

// Caller is the identity decoded from a verified access token.
type Caller struct {
	UserID uint
	Email  string
	Role   string
}

func deny(reason string) error {
	return fmt.Errorf("%w: %s", domain.ErrForbidden, reason)
}

func IsAdmin(c Caller) error {
	if c.Role != models.RoleAdmin {
		return deny("only an admin can perform this action")
	}
	return nil
}

// IsPlainUser passes only for the user role; admins are rejected.
func IsPlainUser(c Caller) error {
	if c.Role != models.RoleUser {
		return deny("only a regular user can perform this action")
	}
	return nil
}

func IsOwner(c Caller, ownerID uint) error {
	if c.UserID == 0 || c.UserID != ownerID {
		return deny("the resource belongs to another user")
	}
	return nil
}

func OwnerOrAdmin(c Caller, ownerID uint) error {
	if c.Role == models.RoleAdmin {
		return nil
	}
	return IsOwner(c, ownerID)
}
