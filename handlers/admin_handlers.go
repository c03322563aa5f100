package handlers

import (
	"Marketplace/carts"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 查詢購物車完整資料
func GetCartDataHandler(c *gin.Context, svc *carts.Service) {
	cartID, ok := paramID(c, "cartID")
	if !ok {
		return
	}

	cart, err := svc.FindCart(c, cartID)
	if err != nil {
		respondError(c, "查詢購物車失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢購物車",
		"cart":    cart,
	})
}

// 啟用或停用購物車，每位會員同時只能有一台啟用中的購物車
func SetCartActiveHandler(c *gin.Context, svc *carts.Service) {
	cartID, ok := paramID(c, "cartID")
	if !ok {
		return
	}

	var activeReq struct {
		Active *bool `json:"active" binding:"required"`
	}
	err := c.ShouldBindJSON(&activeReq)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	cart, err := svc.SetCartActive(c, cartID, *activeReq.Active)
	if err != nil {
		respondError(c, "修改購物車狀態失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功修改購物車狀態",
		"cart":    cart,
	})
}

func DeleteCartHandler(c *gin.Context, svc *carts.Service) {
	cartID, ok := paramID(c, "cartID")
	if !ok {
		return
	}

	if err := svc.DeleteCart(c, cartID); err != nil {
		respondError(c, "刪除購物車失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功刪除購物車",
	})
}

// 刪除會員所有購物車(會員註銷時呼叫)
func PurgeMemberCartsHandler(c *gin.Context, svc *carts.Service) {
	memberID, ok := paramID(c, "memberID")
	if !ok {
		return
	}

	deleted, err := svc.PurgeMember(c, memberID)
	if err != nil {
		respondError(c, "刪除會員購物車失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功刪除會員購物車",
		"deleted": deleted,
	})
}
