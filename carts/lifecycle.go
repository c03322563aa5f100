package carts

import "Marketplace/models"

// IsCurrent 只有啟用中的購物車能被沿用，否則建立新的購物車
//
// 購物車不會自行停用，清空購物車也不會改變狀態；
// active只由管理端(SetCartActive)設定。
func IsCurrent(cart *models.Cart) bool {
	return cart != nil && cart.Active
}

func activate(cart *models.Cart) {
	owner := cart.MemberID
	cart.Active = true
	cart.ActiveOwner = &owner
}

func deactivate(cart *models.Cart) {
	cart.Active = false
	cart.ActiveOwner = nil
}
