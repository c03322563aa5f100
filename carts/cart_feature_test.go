package carts

import (
	"Marketplace/inventory"
	"Marketplace/models"
	"Marketplace/testutil"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type cartTestContext struct {
	db     *gorm.DB
	ledger *inventory.Ledger
	svc    *Service
	items  map[string]uint
	member uint
	err    error
}

func (c *cartTestContext) reset(name string) error {
	if c.db != nil {
		if sqlDB, err := c.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	db, err := testutil.Open(name)
	if err != nil {
		return err
	}
	c.db = db
	c.ledger = inventory.NewLedger(db, inventory.Options{})
	c.svc = NewService(db, c.ledger, Options{})
	c.items = map[string]uint{}
	c.member = 0
	c.err = nil
	return nil
}

func (c *cartTestContext) anItemWithStockAndPrice(name string, stock int, price string) error {
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	item, err := c.ledger.Upsert(context.Background(), models.Item{Name: name, Price: amount, Stock: uint(stock)})
	if err != nil {
		return err
	}
	c.items[name] = item.ID
	return nil
}

func (c *cartTestContext) itemID(name string) (uint, error) {
	id, ok := c.items[name]
	if !ok {
		return 0, fmt.Errorf("unknown item %q", name)
	}
	return id, nil
}

func (c *cartTestContext) lineFor(memberID uint, name string) (LineView, error) {
	itemID, err := c.itemID(name)
	if err != nil {
		return LineView{}, err
	}
	view, err := c.svc.GetCart(context.Background(), memberID)
	if err != nil {
		return LineView{}, err
	}
	for _, l := range view.Items {
		if l.ItemID == itemID {
			return l, nil
		}
	}
	return LineView{}, fmt.Errorf("no %q line in cart of member %d", name, memberID)
}

func (c *cartTestContext) memberAddsOf(memberID, quantity int, name string) error {
	itemID, err := c.itemID(name)
	if err != nil {
		return err
	}
	c.member = uint(memberID)
	_, c.err = c.svc.AddItemToCart(context.Background(), c.member, itemID, uint(quantity))
	return nil
}

func (c *cartTestContext) memberSetsLineTo(memberID int, name string, quantity int) error {
	return c.memberSetsOwnersLineTo(memberID, memberID, name, quantity)
}

func (c *cartTestContext) memberSetsOwnersLineTo(memberID, ownerID int, name string, quantity int) error {
	line, err := c.lineFor(uint(ownerID), name)
	if err != nil {
		return err
	}
	c.member = uint(ownerID)
	_, c.err = c.svc.ModifyCartItem(context.Background(), uint(memberID), line.ID, uint(quantity))
	return nil
}

func (c *cartTestContext) memberRemovesLine(memberID int, name string) error {
	line, err := c.lineFor(uint(memberID), name)
	if err != nil {
		return err
	}
	c.member = uint(memberID)
	_, c.err = c.svc.RemoveItemFromCart(context.Background(), c.member, line.ID)
	return nil
}

func (c *cartTestContext) memberClearsTheCart(memberID int) error {
	c.member = uint(memberID)
	_, c.err = c.svc.Clear(context.Background(), c.member)
	return nil
}

func (c *cartTestContext) theRequestFailsWith(reason string) error {
	expected := map[string]error{
		"insufficient stock":  ErrInsufficientStock,
		"cart item not found": ErrCartItemNotFound,
	}[reason]
	if expected == nil {
		return fmt.Errorf("unknown failure %q", reason)
	}
	if !errors.Is(c.err, expected) {
		return fmt.Errorf("expected %v, got %v", expected, c.err)
	}
	return nil
}

// cart 讀回資料庫中的購物車，總金額必須等於各商品小計加總
func (c *cartTestContext) cart() (*models.Cart, error) {
	view, err := c.svc.GetCart(context.Background(), c.member)
	if err != nil {
		return nil, err
	}
	cart, err := NewStore(c.db).FindByID(context.Background(), view.ID)
	if err != nil {
		return nil, err
	}

	sum := decimal.Zero
	for _, l := range cart.CartItems {
		sum = sum.Add(LineTotal(l))
	}
	if !sum.Equal(cart.TotalCost) {
		return nil, fmt.Errorf("total %s does not match lines %s", cart.TotalCost, sum)
	}
	return cart, nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	cart, err := c.cart()
	if err != nil {
		return err
	}
	if len(cart.CartItems) != n {
		return fmt.Errorf("expected %d lines, got %d", n, len(cart.CartItems))
	}
	return nil
}

func (c *cartTestContext) theLineHasQuantity(name string, quantity int) error {
	line, err := c.lineFor(c.member, name)
	if err != nil {
		return err
	}
	if line.Quantity != uint(quantity) {
		return fmt.Errorf("expected quantity %d, got %d", quantity, line.Quantity)
	}
	return nil
}

func (c *cartTestContext) theCartTotalIs(total string) error {
	cart, err := c.cart()
	if err != nil {
		return err
	}
	if got := cart.TotalCost.StringFixed(moneyScale); got != total {
		return fmt.Errorf("expected total %s, got %s", total, got)
	}
	return nil
}

func (c *cartTestContext) theCartIsActive() error {
	cart, err := c.cart()
	if err != nil {
		return err
	}
	if !IsCurrent(cart) {
		return errors.New("expected cart to be active")
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset("feature_" + sc.Id)
	})

	ctx.Step(`^an item "([^"]*)" with stock (\d+) and price "([^"]*)"$`, tc.anItemWithStockAndPrice)

	ctx.Step(`^member (\d+) adds (\d+) of "([^"]*)"$`, tc.memberAddsOf)
	ctx.Step(`^member (\d+) sets the "([^"]*)" line to (\d+)$`, tc.memberSetsLineTo)
	ctx.Step(`^member (\d+) sets member (\d+)'s "([^"]*)" line to (\d+)$`, tc.memberSetsOwnersLineTo)
	ctx.Step(`^member (\d+) removes the "([^"]*)" line$`, tc.memberRemovesLine)
	ctx.Step(`^member (\d+) clears the cart$`, tc.memberClearsTheCart)

	ctx.Step(`^the request fails with (.+)$`, tc.theRequestFailsWith)
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the "([^"]*)" line has quantity (\d+)$`, tc.theLineHasQuantity)
	ctx.Step(`^the cart total is "([^"]*)"$`, tc.theCartTotalIs)
	ctx.Step(`^the cart is active$`, tc.theCartIsActive)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
