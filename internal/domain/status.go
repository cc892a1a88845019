package domain

import (
	"fmt"

	"github.com/samber/lo"
)

type OrderStatus string

const (
	StatusCart       OrderStatus = "cart"
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusDelivering OrderStatus = "delivering"
	StatusDelivered  OrderStatus = "delivered"
	StatusFailed     OrderStatus = "failed"
	StatusCanceled   OrderStatus = "canceled"
)

const (
	DeliverySuccess = "success"
	DeliveryFailed  = "failed"
)

// ListableStatuses are the statuses an admin may filter orders by.
var ListableStatuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusDelivering, StatusDelivered, StatusFailed, StatusCanceled,
}

// ActiveStatuses hold an order in fulfilment; products on such orders cannot be deleted.
var ActiveStatuses = []OrderStatus{StatusPending, StatusConfirmed, StatusDelivering}

func ParseListableStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !lo.Contains(ListableStatuses, st) {
		return "", fmt.Errorf("%w: status must be one of %v", ErrValidation, ListableStatuses)
	}
	return st, nil
}

// Advance returns the status an admin confirmation moves the order to.
// deliveryStatus is only consulted while the order is delivering.
func Advance(current OrderStatus, deliveryStatus string) (OrderStatus, error) {
	switch current {
	case StatusPending:
		return StatusConfirmed, nil
	case StatusConfirmed:
		return StatusDelivering, nil
	case StatusDelivering:
		switch deliveryStatus {
		case DeliverySuccess:
			return StatusDelivered, nil
		case DeliveryFailed:
			return StatusFailed, nil
		case "":
			return "", fmt.Errorf("%w: deliveryStatus (success or failed) is required while the order is delivering", ErrValidation)
		default:
			return "", fmt.Errorf("%w: deliveryStatus must be 'success' or 'failed'", ErrValidation)
		}
	default:
		return "", fmt.Errorf("%w: cannot confirm order in status %s", ErrInvalidState, current)
	}
}

func CanCancel(current OrderStatus) error {
	if current == StatusPending || current == StatusConfirmed {
		return nil
	}
	return fmt.Errorf("%w: only pending or confirmed orders can be canceled, current status is %s", ErrInvalidState, current)
}

func CanDelete(current OrderStatus) error {
	if current == StatusCanceled {
		return nil
	}
	return fmt.Errorf("%w: only canceled orders can be deleted, current status is %s", ErrInvalidState, current)
}
