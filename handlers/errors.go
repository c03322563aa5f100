package handlers

import (
	"Marketplace/carts"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// 將錯誤對應到HTTP狀態碼
func statusOf(err error) int {
	switch {
	case errors.Is(err, carts.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, carts.ErrCartNotFound),
		errors.Is(err, carts.ErrCartItemNotFound),
		errors.Is(err, carts.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, carts.ErrInsufficientStock),
		errors.Is(err, carts.ErrActiveCartExists):
		return http.StatusConflict
	case errors.Is(err, carts.ErrConflictRetryExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, message string, err error) {
	_ = c.Error(err)

	body := gin.H{
		"message": message,
		"error":   err.Error(),
	}
	var stockErr *carts.InsufficientStockError
	if errors.As(err, &stockErr) {
		body["itemID"] = stockErr.ItemID
		body["requested"] = stockErr.Requested
		body["available"] = stockErr.Available
	}
	c.JSON(statusOf(err), body)
}

// 讀取路徑中的ID，格式錯誤時回應400
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": name + "格式錯誤",
		})
		return 0, false
	}
	return uint(id), true
}
