package http

import (
	"github.com/gin-gonic/gin"

	"github.com/brickbyblock/broker/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(auth *service.AuthService, catalog *service.CatalogService, tx *service.TxService) *gin.Engine {
	router := gin.Default()

	handlers := NewHandlers(auth, catalog, tx)
	protected := AuthMiddleware(auth)

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/request-message", handlers.RequestMessage)
		authGroup.POST("/verify", handlers.VerifySignature)
	}

	assets := router.Group("/api/assets")
	{
		assets.GET("", handlers.ListAssets)
		assets.GET("/:tokenId", handlers.GetAsset)
		assets.GET("/:tokenId/bids", handlers.GetBids)

		assets.POST("/mint-request", protected, handlers.MintRequest)
		assets.POST("/list-request", protected, handlers.ListRequest)
		assets.POST("/create-bid-transaction", protected, handlers.CreateBidTransaction)
		assets.POST("/accept-bid", protected, handlers.AcceptBid)
	}

	portfolio := router.Group("/api/portfolio")
	portfolio.Use(protected)
	{
		portfolio.GET("/owned", handlers.Portfolio)
	}

	return router
}
