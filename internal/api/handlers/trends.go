package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sarthakmehta/kart-compare/backend/internal/history"
	"github.com/sarthakmehta/kart-compare/backend/internal/models"
)

type TrendHandler struct {
	store *history.Store
}

func NewTrendHandler(store *history.Store) *TrendHandler {
	return &TrendHandler{store: store}
}

// GetTrends returns per-platform price statistics for one product over a
// trailing window (default 7 days).
func (h *TrendHandler) GetTrends(c *gin.Context) {
	product := c.Query("product")
	if product == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product is required"})
		return
	}

	days := queryInt(c, "days", history.DefaultTrendWindowDays)

	c.JSON(http.StatusOK, gin.H{
		"product":     product,
		"window_days": days,
		"trends":      h.store.Trend(product, days),
	})
}

// GetHistory returns the daily price series for one product on one platform
// (default window 30 days).
func (h *TrendHandler) GetHistory(c *gin.Context) {
	product := c.Query("product")
	platform := c.Query("platform")
	if product == "" || platform == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product and platform are required"})
		return
	}

	days := queryInt(c, "days", history.DefaultSeriesWindowDays)

	c.JSON(http.StatusOK, gin.H{
		"product":     product,
		"platform":    platform,
		"window_days": days,
		"data":        h.store.DailySeries(product, models.Platform(platform), days),
	})
}

type pruneRequest struct {
	RetentionDays *int `json:"retention_days"`
}

// Prune deletes history older than the retention window and reports the
// count deleted.
func (h *TrendHandler) Prune(c *gin.Context) {
	var req pruneRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	retentionDays := history.DefaultRetentionDays
	if req.RetentionDays != nil {
		retentionDays = *req.RetentionDays
	}
	if retentionDays < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "retention_days must be >= 0"})
		return
	}

	deleted, err := h.store.Prune(retentionDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"retention_days": retentionDays,
		"deleted":        deleted,
	})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
