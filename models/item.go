package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item 賣家商品，Stock為可供購物車預留的數量
// Version在每次預留提交及賣家修改時遞增，過期的讀取會在條件更新時失敗
type Item struct {
	gorm.Model
	Name    string          `gorm:"not null"`
	Price   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock   uint            `gorm:"not null"`
	Version uint            `gorm:"not null;default:0"`
}
