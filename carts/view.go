package carts

import "Marketplace/models"

type LineView struct {
	ID           uint   `json:"id"`
	ItemID       uint   `json:"itemID"`
	Quantity     uint   `json:"quantity"`
	PricePerUnit string `json:"pricePerUnit"`
	LineTotal    string `json:"lineTotal"`
}

// View 回傳給呼叫端及存入快取的購物車內容，金額固定兩位小數
type View struct {
	ID        uint       `json:"id"`
	MemberID  uint       `json:"memberID"`
	Active    bool       `json:"active"`
	TotalCost string     `json:"totalCost"`
	Items     []LineView `json:"items"`
}

func NewView(cart *models.Cart) View {
	items := make([]LineView, 0, len(cart.CartItems))
	for _, line := range cart.CartItems {
		items = append(items, LineView{
			ID:           line.ID,
			ItemID:       line.ItemID,
			Quantity:     line.Quantity,
			PricePerUnit: line.PricePerUnit.StringFixed(moneyScale),
			LineTotal:    LineTotal(line).StringFixed(moneyScale),
		})
	}

	return View{
		ID:        cart.ID,
		MemberID:  cart.MemberID,
		Active:    cart.Active,
		TotalCost: cart.TotalCost.StringFixed(moneyScale),
		Items:     items,
	}
}
