package carts

import (
	"Marketplace/models"
	"Marketplace/testutil"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGetActiveCartCreatesEmptyCart(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.OpenTestDB(t))

	cart, err := store.GetActiveCart(ctx, 7)
	require.NoError(t, err)

	assert.NotZero(t, cart.ID)
	assert.Equal(t, uint(7), cart.MemberID)
	assert.True(t, cart.Active)
	assert.True(t, cart.TotalCost.Equal(decimal.Zero))
	assert.Empty(t, cart.CartItems)

	again, err := store.GetActiveCart(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestGetActiveCartSupersedesInactiveCart(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.OpenTestDB(t))

	first, err := store.GetActiveCart(ctx, 7)
	require.NoError(t, err)
	_, err = store.SetActive(ctx, first.ID, false)
	require.NoError(t, err)

	second, err := store.GetActiveCart(ctx, 7)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, second.Active)

	old, err := store.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, old.Active)
	assert.Nil(t, old.ActiveOwner)
}

func TestSetActiveRejectsSecondActiveCart(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.OpenTestDB(t))

	first, err := store.GetActiveCart(ctx, 7)
	require.NoError(t, err)
	_, err = store.SetActive(ctx, first.ID, false)
	require.NoError(t, err)
	_, err = store.GetActiveCart(ctx, 7)
	require.NoError(t, err)

	_, err = store.SetActive(ctx, first.ID, true)
	assert.ErrorIs(t, err, ErrActiveCartExists)
}

func TestSaveOverwritesTotalCost(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	store := NewStore(db)

	cart, err := store.GetActiveCart(ctx, 7)
	require.NoError(t, err)
	l := models.CartItem{CartID: cart.ID, ItemID: 1, Quantity: 2, PricePerUnit: decimal.RequireFromString("10.00")}
	require.NoError(t, store.createLine(ctx, &l))
	cart.CartItems = append(cart.CartItems, l)

	cart.TotalCost = decimal.RequireFromString("1.00")
	require.NoError(t, store.Save(ctx, cart))
	assert.Equal(t, "20.00", cart.TotalCost.StringFixed(2))

	stored, err := store.FindByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, "20.00", stored.TotalCost.StringFixed(2))
	assert.Equal(t, cart.Version, stored.Version)
}

func TestSaveRejectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.OpenTestDB(t))

	cart, err := store.GetActiveCart(ctx, 7)
	require.NoError(t, err)
	stale := *cart

	require.NoError(t, store.Save(ctx, cart))
	err = store.Save(ctx, &stale)
	assert.ErrorIs(t, err, ErrStaleCart)
	assert.True(t, isRetryable(err))
}

func TestFindByIDNotFound(t *testing.T) {
	_, err := NewStore(testutil.OpenTestDB(t)).FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestDeleteByIDRemovesLines(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	store := NewStore(db)

	cart, err := store.GetActiveCart(ctx, 7)
	require.NoError(t, err)
	for _, itemID := range []uint{1, 2} {
		l := models.CartItem{CartID: cart.ID, ItemID: itemID, Quantity: 1, PricePerUnit: decimal.RequireFromString("1.00")}
		require.NoError(t, store.createLine(ctx, &l))
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := store.WithTx(tx).DeleteByID(ctx, cart.ID)
		return err
	})
	require.NoError(t, err)

	var lines int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&lines).Error)
	assert.Zero(t, lines)

	_, err = store.FindByID(ctx, cart.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	_, err = store.DeleteByID(ctx, cart.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestDeleteAllByOwner(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	store := NewStore(db)

	first, err := store.GetActiveCart(ctx, 7)
	require.NoError(t, err)
	l := models.CartItem{CartID: first.ID, ItemID: 1, Quantity: 1, PricePerUnit: decimal.RequireFromString("1.00")}
	require.NoError(t, store.createLine(ctx, &l))
	_, err = store.SetActive(ctx, first.ID, false)
	require.NoError(t, err)
	_, err = store.GetActiveCart(ctx, 7)
	require.NoError(t, err)
	other, err := store.GetActiveCart(ctx, 8)
	require.NoError(t, err)

	deleted, err := store.DeleteAllByOwner(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var carts, lines int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&carts).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Count(&lines).Error)
	assert.Equal(t, int64(1), carts)
	assert.Zero(t, lines)

	_, err = store.FindByID(ctx, other.ID)
	assert.NoError(t, err)
}
