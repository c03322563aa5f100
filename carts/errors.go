package carts

import (
	"Marketplace/inventory"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrItemNotFound      = inventory.ErrItemNotFound
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")

	// ErrActiveCartExists 會員已有另一台啟用中的購物車
	ErrActiveCartExists = errors.New("member already has an active cart")

	// ErrConflictRetryExhausted 重試次數用盡，實際庫存可能仍足夠
	ErrConflictRetryExhausted = errors.New("concurrent update conflict, retries exhausted")
)

type InsufficientStockError struct {
	ItemID    uint
	Requested uint
	Available uint
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: requested %d, available %d",
		e.ItemID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

func isRetryable(err error) bool {
	return errors.Is(err, inventory.ErrConflict) ||
		errors.Is(err, ErrStaleCart) ||
		errors.Is(err, gorm.ErrDuplicatedKey)
}
