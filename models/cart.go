package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart 與購物車商品一起實體刪除，因此不使用gorm.Model(無軟刪除)
type Cart struct {
	ID       uint `gorm:"primarykey"`
	MemberID uint `gorm:"not null;index"`
	Active   bool `gorm:"not null"`

	//啟用中等於MemberID，停用時為NULL，確保每位會員只有一台啟用中的購物車
	ActiveOwner *uint           `gorm:"uniqueIndex"`
	TotalCost   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Version     uint            `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CartItems   []CartItem `gorm:"foreignKey:CartID"`
}
