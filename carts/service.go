// Package carts keeps a member's cart consistent with item stock.
//
// Every operation runs as one transaction: resolve the cart, read the item
// for reservation, compare against the requested quantity, write the line,
// confirm the reservation and save the cart with its recomputed total. A
// lost race on the item version, the cart version or the unique indexes
// rolls the transaction back and the whole operation runs again, up to
// MaxAttempts times.
package carts

import (
	"Marketplace/events"
	"Marketplace/inventory"
	"Marketplace/models"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultMaxAttempts = 3

const (
	EventCartUpdated     = "cart.updated"
	EventCartCleared     = "cart.cleared"
	EventCartActivated   = "cart.activated"
	EventCartDeactivated = "cart.deactivated"
	EventCartDeleted     = "cart.deleted"
	EventCartsPurged     = "cart.purged"
)

type Event struct {
	Type       string     `json:"type"`
	CartID     uint       `json:"cartID,omitempty"`
	MemberID   uint       `json:"memberID"`
	TotalCost  string     `json:"totalCost,omitempty"`
	Items      []LineView `json:"items,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
}

type Options struct {
	Logger      *zap.Logger
	Cache       ViewCache
	Publisher   events.Publisher
	MaxAttempts int
}

type Service struct {
	db          *gorm.DB
	store       *Store
	ledger      *inventory.Ledger
	cache       ViewCache
	publisher   events.Publisher
	log         *zap.Logger
	maxAttempts int
}

func NewService(db *gorm.DB, ledger *inventory.Ledger, opts Options) *Service {
	s := &Service{
		db:          db,
		store:       NewStore(db),
		ledger:      ledger,
		cache:       opts.Cache,
		publisher:   opts.Publisher,
		log:         opts.Logger,
		maxAttempts: opts.MaxAttempts,
	}
	if s.cache == nil {
		s.cache = noCache{}
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = defaultMaxAttempts
	}
	return s
}

// inTx 在交易中執行fn，遇到可重試的衝突時從頭重跑
func (s *Service) inTx(ctx context.Context, op string, fn func(store *Store, tx *gorm.DB) error) error {
	for attempt := 1; ; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(s.store.WithTx(tx), tx)
		})
		if err == nil || !isRetryable(err) {
			return err
		}
		if attempt >= s.maxAttempts {
			s.log.Warn("cart conflict, giving up",
				zap.String("op", op),
				zap.Int("attempts", attempt),
				zap.Error(err))
			return fmt.Errorf("%s: %w", op, ErrConflictRetryExhausted)
		}
		s.log.Debug("cart conflict, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
}

func (s *Service) publish(ctx context.Context, event Event) {
	event.OccurredAt = time.Now().UTC()
	if err := s.publisher.Publish(ctx, event.Type, event); err != nil {
		s.log.Error("publish cart event",
			zap.String("type", event.Type),
			zap.Uint("member_id", event.MemberID),
			zap.Error(err))
	}
}

// committed 交易提交後清除快取並發送事件
func (s *Service) committed(ctx context.Context, eventType string, cart *models.Cart) View {
	view := NewView(cart)
	s.cache.Invalidate(ctx, cart.MemberID)
	s.publish(ctx, Event{
		Type:      eventType,
		CartID:    view.ID,
		MemberID:  view.MemberID,
		TotalCost: view.TotalCost,
		Items:     view.Items,
	})
	return view
}

// GetCart 回傳會員目前的購物車，沒有則建立
func (s *Service) GetCart(ctx context.Context, memberID uint) (View, error) {
	if view, ok := s.cache.Get(ctx, memberID); ok {
		return view, nil
	}

	var cart *models.Cart
	err := s.inTx(ctx, "get cart", func(store *Store, _ *gorm.DB) error {
		var err error
		cart, err = store.GetActiveCart(ctx, memberID)
		return err
	})
	if err != nil {
		return View{}, err
	}

	view := NewView(cart)
	s.cache.Set(ctx, view)
	return view, nil
}

// AddItemToCart 加入商品，已有相同商品時數量相加
func (s *Service) AddItemToCart(ctx context.Context, memberID, itemID, quantity uint) (View, error) {
	if quantity == 0 {
		return View{}, ErrInvalidQuantity
	}

	var cart *models.Cart
	err := s.inTx(ctx, "add item", func(store *Store, tx *gorm.DB) error {
		var err error
		cart, err = store.GetActiveCart(ctx, memberID)
		if err != nil {
			return err
		}

		reservation, err := s.ledger.ReadForReservation(tx, itemID)
		if err != nil {
			return err
		}

		if reservation.Available < quantity {
			return &InsufficientStockError{ItemID: itemID, Requested: quantity, Available: reservation.Available}
		}

		idx := lineIndex(cart, itemID)
		effective := quantity
		if idx >= 0 {
			effective += cart.CartItems[idx].Quantity
			//相加溢位時數量必定超過庫存
			if effective < quantity {
				return &InsufficientStockError{ItemID: itemID, Requested: quantity, Available: reservation.Available}
			}
		}
		if reservation.Available < effective {
			return &InsufficientStockError{ItemID: itemID, Requested: effective, Available: reservation.Available}
		}

		if idx >= 0 {
			//已有相同商品，只更新數量，保留原本的單價快照
			err = store.setLineQuantity(ctx, &cart.CartItems[idx], effective)
		} else {
			line := models.CartItem{
				CartID:       cart.ID,
				ItemID:       itemID,
				Quantity:     effective,
				PricePerUnit: reservation.PricePerUnit,
			}
			err = store.createLine(ctx, &line)
			cart.CartItems = append(cart.CartItems, line)
		}
		if err != nil {
			return err
		}

		if err := s.ledger.Confirm(tx, reservation); err != nil {
			return err
		}
		return store.Save(ctx, cart)
	})
	if err != nil {
		return View{}, err
	}

	return s.committed(ctx, EventCartUpdated, cart), nil
}

// ModifyCartItem 將數量直接設為quantity，移除商品需呼叫RemoveItemFromCart
func (s *Service) ModifyCartItem(ctx context.Context, memberID, cartItemID, quantity uint) (View, error) {
	if quantity == 0 {
		return View{}, ErrInvalidQuantity
	}

	var cart *models.Cart
	err := s.inTx(ctx, "modify item", func(store *Store, tx *gorm.DB) error {
		var (
			idx int
			err error
		)
		cart, idx, err = store.cartForLine(ctx, memberID, cartItemID)
		if err != nil {
			return err
		}
		line := &cart.CartItems[idx]

		reservation, err := s.ledger.ReadForReservation(tx, line.ItemID)
		if err != nil {
			return err
		}
		if reservation.Available < quantity {
			return &InsufficientStockError{ItemID: line.ItemID, Requested: quantity, Available: reservation.Available}
		}

		if err := store.setLineQuantity(ctx, line, quantity); err != nil {
			return err
		}
		if err := s.ledger.Confirm(tx, reservation); err != nil {
			return err
		}
		return store.Save(ctx, cart)
	})
	if err != nil {
		return View{}, err
	}

	return s.committed(ctx, EventCartUpdated, cart), nil
}

func (s *Service) RemoveItemFromCart(ctx context.Context, memberID, cartItemID uint) (View, error) {
	var cart *models.Cart
	err := s.inTx(ctx, "remove item", func(store *Store, _ *gorm.DB) error {
		var (
			idx int
			err error
		)
		cart, idx, err = store.cartForLine(ctx, memberID, cartItemID)
		if err != nil {
			return err
		}

		if err := store.deleteLine(ctx, cartItemID); err != nil {
			return err
		}
		cart.CartItems = append(cart.CartItems[:idx], cart.CartItems[idx+1:]...)
		return store.Save(ctx, cart)
	})
	if err != nil {
		return View{}, err
	}

	return s.committed(ctx, EventCartUpdated, cart), nil
}

// Clear 清空購物車，購物車維持啟用
func (s *Service) Clear(ctx context.Context, memberID uint) (View, error) {
	var cart *models.Cart
	err := s.inTx(ctx, "clear cart", func(store *Store, _ *gorm.DB) error {
		var err error
		cart, err = store.GetActiveCart(ctx, memberID)
		if err != nil {
			return err
		}

		if err := store.clearLines(ctx, cart.ID); err != nil {
			return err
		}
		cart.CartItems = nil
		return store.Save(ctx, cart)
	})
	if err != nil {
		return View{}, err
	}

	return s.committed(ctx, EventCartCleared, cart), nil
}

func (s *Service) FindCart(ctx context.Context, cartID uint) (View, error) {
	cart, err := s.store.FindByID(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	return NewView(cart), nil
}

func (s *Service) SetCartActive(ctx context.Context, cartID uint, active bool) (View, error) {
	var cart *models.Cart
	err := s.inTx(ctx, "set cart active", func(store *Store, _ *gorm.DB) error {
		var err error
		cart, err = store.SetActive(ctx, cartID, active)
		return err
	})
	if err != nil {
		return View{}, err
	}

	eventType := EventCartDeactivated
	if active {
		eventType = EventCartActivated
	}
	return s.committed(ctx, eventType, cart), nil
}

func (s *Service) DeleteCart(ctx context.Context, cartID uint) error {
	var cart *models.Cart
	err := s.inTx(ctx, "delete cart", func(store *Store, _ *gorm.DB) error {
		var err error
		cart, err = store.DeleteByID(ctx, cartID)
		return err
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cart.MemberID)
	s.publish(ctx, Event{Type: EventCartDeleted, CartID: cart.ID, MemberID: cart.MemberID})
	return nil
}

// PurgeMember 刪除會員所有購物車，回傳刪除數量
func (s *Service) PurgeMember(ctx context.Context, memberID uint) (int64, error) {
	var deleted int64
	err := s.inTx(ctx, "purge member carts", func(store *Store, _ *gorm.DB) error {
		var err error
		deleted, err = store.DeleteAllByOwner(ctx, memberID)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.cache.Invalidate(ctx, memberID)
	s.publish(ctx, Event{Type: EventCartsPurged, MemberID: memberID})
	return deleted, nil
}
