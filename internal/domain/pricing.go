package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const MaxDiscount = 99

var hundred = decimal.NewFromInt(100)

// EffectivePrice applies a percentage discount and rounds half-up to the minor unit.
func EffectivePrice(price int64, discount int) (int64, error) {
	if price <= 0 {
		return 0, fmt.Errorf("%w: product price must be positive", ErrInvalidState)
	}
	if discount < 0 || discount > MaxDiscount {
		return 0, fmt.Errorf("%w: discount must be between 0 and %d", ErrInvalidState, MaxDiscount)
	}

	eff := decimal.NewFromInt(price).
		Mul(decimal.NewFromInt(int64(100 - discount))).
		Div(hundred).
		Round(0)
	if !eff.IsPositive() {
		return 0, fmt.Errorf("%w: discounted price must be positive", ErrInvalidState)
	}
	return eff.IntPart(), nil
}
