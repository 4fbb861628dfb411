package routes

import (
	"stock_tracker_backend/controllers"
	"stock_tracker_backend/services/stream"
	"stock_tracker_backend/services/tracker"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all API routes
func SetupRoutes(router *gin.Engine, t *tracker.Service, hub *stream.Hub) {
	watchlistController := controllers.NewWatchlistController(t)

	// API v1 group
	api := router.Group("/api/v1")
	{
		watchlist := api.Group("/watchlist")
		{
			watchlist.GET("", watchlistController.GetWatchlist)
			watchlist.POST("", watchlistController.AddSymbol)
			watchlist.GET("/:symbol", watchlistController.GetSymbol)
			watchlist.DELETE("/:symbol", watchlistController.RemoveSymbol)
		}

		settings := api.Group("/settings")
		{
			settings.PUT("/predictions", watchlistController.SetPredictions)
		}
	}

	// WebSocket endpoint for snapshot push
	router.GET("/ws", func(c *gin.Context) {
		hub.HandleWebSocket(c.Writer, c.Request)
	})
}
