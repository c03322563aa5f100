package carts

import (
	"Marketplace/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

func lineIndex(cart *models.Cart, itemID uint) int {
	for i, line := range cart.CartItems {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}

// cartForLine 取得購物車商品所屬的購物車，不屬於該會員時視為不存在
func (s *Store) cartForLine(ctx context.Context, memberID, cartItemID uint) (*models.Cart, int, error) {
	var line models.CartItem
	err := s.db.WithContext(ctx).Select("id", "cart_id").Take(&line, cartItemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, -1, fmt.Errorf("cart item %d: %w", cartItemID, ErrCartItemNotFound)
		}
		return nil, -1, err
	}

	cart, err := s.FindByID(ctx, line.CartID)
	if errors.Is(err, ErrCartNotFound) || (err == nil && cart.MemberID != memberID) {
		return nil, -1, fmt.Errorf("cart item %d: %w", cartItemID, ErrCartItemNotFound)
	}
	if err != nil {
		return nil, -1, err
	}

	for i := range cart.CartItems {
		if cart.CartItems[i].ID == cartItemID {
			return cart, i, nil
		}
	}
	return nil, -1, fmt.Errorf("cart item %d: %w", cartItemID, ErrCartItemNotFound)
}

func (s *Store) createLine(ctx context.Context, line *models.CartItem) error {
	return s.db.WithContext(ctx).Create(line).Error
}

func (s *Store) setLineQuantity(ctx context.Context, line *models.CartItem, quantity uint) error {
	result := s.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", line.ID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("cart item %d: %w", line.ID, ErrCartItemNotFound)
	}
	line.Quantity = quantity
	return nil
}

func (s *Store) deleteLine(ctx context.Context, lineID uint) error {
	result := s.db.WithContext(ctx).Delete(&models.CartItem{}, lineID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("cart item %d: %w", lineID, ErrCartItemNotFound)
	}
	return nil
}

// clearLines 一次刪除購物車內所有商品
func (s *Store) clearLines(ctx context.Context, cartID uint) error {
	return s.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
