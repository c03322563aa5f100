package handlers

import (
	"Marketplace/inventory"
	"Marketplace/models"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func itemData(item models.Item) gin.H {
	return gin.H{
		"id":    item.ID,
		"name":  item.Name,
		"price": item.Price.StringFixed(2),
		"stock": item.Stock,
	}
}

// 查詢商品價格及庫存
func GetItemHandler(c *gin.Context, ledger *inventory.Ledger) {
	itemID, ok := paramID(c, "itemID")
	if !ok {
		return
	}

	item, err := ledger.Get(c, itemID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, inventory.ErrItemNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"message": "查詢商品失敗",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢商品",
		"item":    itemData(item),
	})
}

// 新增或修改商品，已加入購物車的單價不受影響
func UpsertItemHandler(c *gin.Context, ledger *inventory.Ledger) {
	itemID, ok := paramID(c, "itemID")
	if !ok {
		return
	}

	var itemReq struct {
		Name  string           `json:"name" binding:"required"`
		Price *decimal.Decimal `json:"price" binding:"required"`
		Stock *uint            `json:"stock" binding:"required"`
	}
	err := c.ShouldBindJSON(&itemReq)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}
	price := *itemReq.Price
	if price.IsNegative() || !price.Equal(price.Round(2)) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "商品價格格式錯誤",
		})
		return
	}

	item, err := ledger.Upsert(c, models.Item{
		Model: gorm.Model{ID: itemID},
		Name:  itemReq.Name,
		Price: price,
		Stock: *itemReq.Stock,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "儲存商品失敗",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功儲存商品",
		"item":    itemData(item),
	})
}
