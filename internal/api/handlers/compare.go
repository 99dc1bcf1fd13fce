package handlers

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/sarthakmehta/kart-compare/backend/internal/engine"
	"github.com/sarthakmehta/kart-compare/backend/internal/history"
	"github.com/sarthakmehta/kart-compare/backend/internal/models"
	"github.com/sarthakmehta/kart-compare/backend/internal/services"
)

const trendLookupConcurrency = 4

type CompareHandler struct {
	engine          *engine.Engine
	store           *history.Store
	insights        *services.InsightService
	defaultLocality string
}

func NewCompareHandler(eng *engine.Engine, store *history.Store, insights *services.InsightService, defaultLocality string) *CompareHandler {
	return &CompareHandler{
		engine:          eng,
		store:           store,
		insights:        insights,
		defaultLocality: defaultLocality,
	}
}

type compareRequest struct {
	Items    []string `json:"items"`
	Location string   `json:"location"`
}

// ComparePrices runs one comparison cycle across all platforms and returns
// quotes, the cheapest platform, per-product trends, and insights.
func (h *CompareHandler) ComparePrices(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no items provided"})
		return
	}

	locality := req.Location
	if locality == "" {
		locality = h.defaultLocality
	}

	comparison, err := h.engine.Compare(c.Request.Context(), items, locality)
	if err != nil {
		if errors.Is(err, engine.ErrNoItems) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	trends := h.collectTrends(comparison)
	insights := h.insights.Generate(c.Request.Context(), comparison, trends)

	c.JSON(http.StatusOK, gin.H{
		"comparison_id":     comparison.ID,
		"platforms":         comparison.Platforms,
		"cheapest_platform": comparison.CheapestPlatform,
		"trends":            trends,
		"insights":          insights,
		"timestamp":         time.Now().Format(time.RFC3339),
	})
}

// collectTrends looks up the trailing-week trend for every distinct product
// the comparison observed with a real price.
func (h *CompareHandler) collectTrends(comparison *models.Comparison) map[string]map[models.Platform]models.TrendSummary {
	seen := make(map[string]struct{})
	var products []string
	for _, quote := range comparison.Platforms {
		for _, obs := range quote.Items {
			if !obs.Available || obs.Price <= 0 {
				continue
			}
			if _, ok := seen[obs.Name]; ok {
				continue
			}
			seen[obs.Name] = struct{}{}
			products = append(products, obs.Name)
		}
	}

	trends := make(map[string]map[models.Platform]models.TrendSummary, len(products))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(trendLookupConcurrency)
	for _, product := range products {
		g.Go(func() error {
			trend := h.store.Trend(product, history.DefaultTrendWindowDays)
			if len(trend) == 0 {
				return nil
			}
			mu.Lock()
			trends[product] = trend
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // lookups degrade to empty, never error

	return trends
}
