package carts

import (
	"Marketplace/models"
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStaleCart 購物車在讀取後已被其他請求修改，整個操作可以重試
var ErrStaleCart = errors.New("cart changed since it was read")

// Store 購物車的存取，所有寫入都在呼叫端的交易中進行
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

func orderLines(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// GetActiveCart 回傳會員啟用中的購物車，沒有則建立一台空的
func (s *Store) GetActiveCart(ctx context.Context, memberID uint) (*models.Cart, error) {
	db := s.db.WithContext(ctx)

	var cart models.Cart
	err := db.
		Where("member_id = ?", memberID).
		Order("active desc").
		Order("id desc").
		Preload("CartItems", orderLines).
		Take(&cart).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && IsCurrent(&cart) {
		return &cart, nil
	}

	//沒有購物車或最近的購物車已停用，建立新的購物車
	cart = models.Cart{
		MemberID:  memberID,
		TotalCost: decimal.Zero,
	}
	activate(&cart)
	if err := db.Omit(clause.Associations).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *Store) FindByID(ctx context.Context, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Preload("CartItems", orderLines).
		Take(&cart, cartID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart %d: %w", cartID, ErrCartNotFound)
		}
		return nil, err
	}
	return &cart, nil
}

// Save 重新計算總金額後寫入，呼叫端給的TotalCost會被覆寫
// 版本號不符時回傳ErrStaleCart
func (s *Store) Save(ctx context.Context, cart *models.Cart) error {
	Recompute(cart)

	result := s.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ? AND version = ?", cart.ID, cart.Version).
		Updates(map[string]interface{}{
			"active":       cart.Active,
			"active_owner": cart.ActiveOwner,
			"total_cost":   cart.TotalCost,
			"version":      gorm.Expr("version + ?", 1),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("cart %d: %w", cart.ID, ErrStaleCart)
	}
	cart.Version++
	return nil
}

// SetActive 唯一會改變active的寫入路徑
func (s *Store) SetActive(ctx context.Context, cartID uint, active bool) (*models.Cart, error) {
	cart, err := s.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if active {
		activate(cart)
	} else {
		deactivate(cart)
	}

	err = s.Save(ctx, cart)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("member %d: %w", cart.MemberID, ErrActiveCartExists)
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// DeleteByID 先刪除購物車商品再刪除購物車
func (s *Store) DeleteByID(ctx context.Context, cartID uint) (*models.Cart, error) {
	db := s.db.WithContext(ctx)

	var cart models.Cart
	err := db.Select("id", "member_id").Take(&cart, cartID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart %d: %w", cartID, ErrCartNotFound)
		}
		return nil, err
	}

	if err := db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return nil, err
	}
	if err := db.Delete(&models.Cart{}, cartID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// DeleteAllByOwner 刪除會員所有購物車及其商品，回傳刪除的購物車數量
func (s *Store) DeleteAllByOwner(ctx context.Context, memberID uint) (int64, error) {
	db := s.db.WithContext(ctx)

	cartIDs := db.Model(&models.Cart{}).Select("id").Where("member_id = ?", memberID)
	if err := db.Where("cart_id IN (?)", cartIDs).Delete(&models.CartItem{}).Error; err != nil {
		return 0, err
	}

	result := db.Where("member_id = ?", memberID).Delete(&models.Cart{})
	return result.RowsAffected, result.Error
}
