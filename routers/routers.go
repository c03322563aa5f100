package routers

import (
	"Marketplace/carts"
	"Marketplace/handlers"
	"Marketplace/inventory"
	"Marketplace/jwt"
	"Marketplace/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Deps struct {
	Carts    *carts.Service
	Ledger   *inventory.Ledger
	Verifier *jwt.Verifier
	Logger   *zap.Logger
}

func SetupRouters(deps Deps) (*gin.Engine, error) {
	//建立Gin路由器
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogMiddleware(deps.Logger))
	//Token放在Authorization標頭，不使用Cookie，因此不開啟Allow-Credentials
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		c.Next()
	})
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	router.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	svc, ledger := deps.Carts, deps.Ledger

	router.Use(middleware.AuthMiddleware(deps.Verifier, deps.Logger))
	{
		//查詢商品價格及庫存
		router.GET("/api/v1/items/:itemID", func(context *gin.Context) {
			handlers.GetItemHandler(context, ledger)
		})

		////需要登入，使用中間件檢查是否登入
		loginRequired := router.Group("/api/v1/carts")
		loginRequired.Use(middleware.CheckLoginMiddleware())
		{
			//查詢購物車商品
			loginRequired.GET("", func(context *gin.Context) {
				handlers.GetCartHandler(context, svc)
			})
			//清除購物車商品
			loginRequired.DELETE("", func(context *gin.Context) {
				handlers.ClearCartHandler(context, svc)
			})
			//新增商品至購物車
			loginRequired.POST("/items", func(context *gin.Context) {
				handlers.AddToCartHandler(context, svc)
			})
			//更新購物車商品數量
			loginRequired.PATCH("/items/:cartItemID", func(context *gin.Context) {
				handlers.UpdateCartItemQuantityHandler(context, svc)
			})
			//刪除購物車商品
			loginRequired.DELETE("/items/:cartItemID", func(context *gin.Context) {
				handlers.DeleteCartItemHandler(context, svc)
			})
		}

		////需要admin身分，使用中間件檢查是否登入及admin權限
		adminRequired := router.Group("/api/v1/admin")
		adminRequired.Use(middleware.CheckLoginMiddleware(), middleware.CheckAdminPermissionMiddleware())
		{
			//查詢購物車完整資料
			adminRequired.GET("/carts/:cartID", func(context *gin.Context) {
				handlers.GetCartDataHandler(context, svc)
			})
			//啟用或停用購物車
			adminRequired.PUT("/carts/:cartID/active", func(context *gin.Context) {
				handlers.SetCartActiveHandler(context, svc)
			})
			//刪除購物車
			adminRequired.DELETE("/carts/:cartID", func(context *gin.Context) {
				handlers.DeleteCartHandler(context, svc)
			})
			//刪除會員所有購物車
			adminRequired.DELETE("/members/:memberID/carts", func(context *gin.Context) {
				handlers.PurgeMemberCartsHandler(context, svc)
			})
			//新增或修改商品
			adminRequired.PUT("/items/:itemID", func(context *gin.Context) {
				handlers.UpsertItemHandler(context, ledger)
			})
		}
	}

	return router, nil
}
