// Package inventory is the stock ledger carts reserve against.
//
// A reservation is a read of (stock, price, version) followed, in the same
// transaction, by Confirm, which bumps the item's version only if it is still
// the version that was read. Any concurrent reservation or seller change in
// between makes Confirm fail with ErrConflict and the caller's transaction
// roll back.
package inventory

import (
	"Marketplace/models"
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrItemNotFound = errors.New("item not found")
	// ErrConflict 商品在讀取後被修改，整個操作可以重試
	ErrConflict = errors.New("item changed since it was read")
)

type Options struct {
	// LockRows 讀取時加上SELECT ... FOR UPDATE(sqlite會忽略)
	LockRows bool
}

type Ledger struct {
	db       *gorm.DB
	lockRows bool
}

type Reservation struct {
	ItemID       uint
	Available    uint
	PricePerUnit decimal.Decimal
	version      uint
}

func NewLedger(db *gorm.DB, opts Options) *Ledger {
	return &Ledger{db: db, lockRows: opts.LockRows}
}

// ReadForReservation 在呼叫端的交易中讀取庫存與價格
func (l *Ledger) ReadForReservation(tx *gorm.DB, itemID uint) (Reservation, error) {
	query := tx.Select("id", "price", "stock", "version")
	if l.lockRows {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var item models.Item
	err := query.Take(&item, itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Reservation{}, fmt.Errorf("item %d: %w", itemID, ErrItemNotFound)
		}
		return Reservation{}, err
	}

	return Reservation{
		ItemID:       item.ID,
		Available:    item.Stock,
		PricePerUnit: item.Price,
		version:      item.Version,
	}, nil
}

// Confirm 條件更新版本號，版本已變更則回傳ErrConflict
func (l *Ledger) Confirm(tx *gorm.DB, r Reservation) error {
	result := tx.Model(&models.Item{}).
		Where("id = ? AND version = ?", r.ItemID, r.version).
		UpdateColumn("version", gorm.Expr("version + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("item %d: %w", r.ItemID, ErrConflict)
	}
	return nil
}

func (l *Ledger) Get(ctx context.Context, itemID uint) (models.Item, error) {
	var item models.Item
	err := l.db.WithContext(ctx).Take(&item, itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, fmt.Errorf("item %d: %w", itemID, ErrItemNotFound)
		}
		return item, err
	}
	return item, nil
}

// Upsert 賣家端新增或修改商品庫存與價格，修改時遞增版本號
func (l *Ledger) Upsert(ctx context.Context, item models.Item) (models.Item, error) {
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Item
		err := tx.Take(&existing, item.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item.Version = 0
			return tx.Create(&item).Error
		}
		if err != nil {
			return err
		}

		err = tx.Model(&existing).Updates(map[string]interface{}{
			"name":    item.Name,
			"price":   item.Price,
			"stock":   item.Stock,
			"version": gorm.Expr("version + ?", 1),
		}).Error
		if err != nil {
			return err
		}
		item = models.Item{}
		return tx.Take(&item, existing.ID).Error
	})
	if err != nil {
		return models.Item{}, err
	}
	return item, nil
}
