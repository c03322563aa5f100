package handlers

import (
	"Marketplace/carts"
	"Marketplace/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

func currentMember(c *gin.Context) (uint, bool) {
	id, ok := middleware.MemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "無法取得會員ID",
		})
	}
	return id, ok
}

// 查詢購物車，沒有啟用中的購物車時建立新的
func GetCartHandler(c *gin.Context, svc *carts.Service) {
	memberID, ok := currentMember(c)
	if !ok {
		return
	}

	cart, err := svc.GetCart(c, memberID)
	if err != nil {
		respondError(c, "查詢購物車失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢購物車",
		"cart":    cart,
	})
}

// 新增商品至購物車，已有相同商品時數量相加
func AddToCartHandler(c *gin.Context, svc *carts.Service) {
	var cartItemReq struct {
		ItemID   uint `json:"itemID" binding:"required"`
		Quantity uint `json:"quantity" binding:"required,lte=1000000"`
	}
	err := c.ShouldBindJSON(&cartItemReq)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	memberID, ok := currentMember(c)
	if !ok {
		return
	}

	cart, err := svc.AddItemToCart(c, memberID, cartItemReq.ItemID, cartItemReq.Quantity)
	if err != nil {
		respondError(c, "新增物品至購物車失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功新增物品至購物車",
		"cart":    cart,
	})
}

// 修改購物車商品數量，數量為新的值而非增減
func UpdateCartItemQuantityHandler(c *gin.Context, svc *carts.Service) {
	cartItemID, ok := paramID(c, "cartItemID")
	if !ok {
		return
	}

	var cartItemReq struct {
		Quantity uint `json:"quantity" binding:"lte=1000000"`
	}
	err := c.ShouldBindJSON(&cartItemReq)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	memberID, ok := currentMember(c)
	if !ok {
		return
	}

	cart, err := svc.ModifyCartItem(c, memberID, cartItemID, cartItemReq.Quantity)
	if err != nil {
		respondError(c, "更新購物車物品數量失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功更新購物車物品數量",
		"cart":    cart,
	})
}

// 刪除購物車商品
func DeleteCartItemHandler(c *gin.Context, svc *carts.Service) {
	cartItemID, ok := paramID(c, "cartItemID")
	if !ok {
		return
	}

	memberID, ok := currentMember(c)
	if !ok {
		return
	}

	cart, err := svc.RemoveItemFromCart(c, memberID, cartItemID)
	if err != nil {
		respondError(c, "刪除購物車商品失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功刪除購物車物品",
		"cart":    cart,
	})
}

func ClearCartHandler(c *gin.Context, svc *carts.Service) {
	memberID, ok := currentMember(c)
	if !ok {
		return
	}

	cart, err := svc.Clear(c, memberID)
	if err != nil {
		respondError(c, "清空購物車失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功清空購物車",
		"cart":    cart,
	})
}
