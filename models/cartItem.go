package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID       uint `gorm:"primarykey"`
	CartID   uint `gorm:"not null;uniqueIndex:idx_cart_item"`
	ItemID   uint `gorm:"not null;uniqueIndex:idx_cart_item"`
	Quantity uint `gorm:"not null"`

	//單價快照，加入購物車時的價格
	PricePerUnit decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
