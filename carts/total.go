package carts

import (
	"Marketplace/models"

	"github.com/shopspring/decimal"
)

const moneyScale = 2

// Recompute 以各商品的單價快照重新計算總金額
func Recompute(cart *models.Cart) {
	total := decimal.Zero
	for _, line := range cart.CartItems {
		total = total.Add(LineTotal(line))
	}
	cart.TotalCost = total.Round(moneyScale)
}

func LineTotal(line models.CartItem) decimal.Decimal {
	return line.PricePerUnit.Mul(decimal.NewFromInt(int64(line.Quantity)))
}
