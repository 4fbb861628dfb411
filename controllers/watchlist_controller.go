package controllers

import (
	"errors"
	"net/http"

	"stock_tracker_backend/models"
	"stock_tracker_backend/services/tracker"

	"github.com/gin-gonic/gin"
)

// WatchlistController handles watchlist-related requests
type WatchlistController struct {
	tracker *tracker.Service
}

// NewWatchlistController creates a new watchlist controller
func NewWatchlistController(t *tracker.Service) *WatchlistController {
	return &WatchlistController{tracker: t}
}

// addSymbolRequest is the body for POST /watchlist
type addSymbolRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// predictionsRequest is the body for PUT /settings/predictions
type predictionsRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// GetWatchlist returns the ordered list of tracked symbol snapshots
// GET /api/v1/watchlist
func (wc *WatchlistController) GetWatchlist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data":                wc.tracker.Snapshots(),
		"predictions_enabled": wc.tracker.PredictionsEnabled(),
	})
}

// GetSymbol returns a single tracked symbol snapshot with its merged series
// GET /api/v1/watchlist/:symbol
func (wc *WatchlistController) GetSymbol(c *gin.Context) {
	symbol := c.Param("symbol")

	snapshot, ok := wc.tracker.Snapshot(symbol)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Symbol not tracked"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": snapshot})
}

// AddSymbol starts tracking a symbol
// POST /api/v1/watchlist
func (wc *WatchlistController) AddSymbol(c *gin.Context) {
	var req addSymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := wc.tracker.AddSymbol(req.Symbol); err != nil {
		if errors.Is(err, models.ErrDuplicateSymbol) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add symbol"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Symbol added to watchlist"})
}

// RemoveSymbol stops tracking a symbol; removing an untracked symbol succeeds
// DELETE /api/v1/watchlist/:symbol
func (wc *WatchlistController) RemoveSymbol(c *gin.Context) {
	wc.tracker.RemoveSymbol(c.Param("symbol"))
	c.JSON(http.StatusOK, gin.H{"message": "Symbol removed from watchlist"})
}

// SetPredictions toggles trend predictions and refreshes all tracked symbols
// PUT /api/v1/settings/predictions
func (wc *WatchlistController) SetPredictions(c *gin.Context) {
	var req predictionsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	wc.tracker.SetPredictionsEnabled(*req.Enabled)
	c.JSON(http.StatusOK, gin.H{"predictions_enabled": *req.Enabled})
}
