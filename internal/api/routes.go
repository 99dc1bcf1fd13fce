package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sarthakmehta/kart-compare/backend/internal/api/handlers"
	"github.com/sarthakmehta/kart-compare/backend/internal/metrics"
)

// SetupRouter wires the HTTP surface: comparison, trends, assistant, health
// and metrics.
func SetupRouter(compareHandler *handlers.CompareHandler, trendHandler *handlers.TrendHandler, assistantHandler *handlers.AssistantHandler, corsOrigins string) *gin.Engine {
	router := gin.Default()

	config := cors.DefaultConfig()
	if corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(config))

	router.Use(requestMetrics())

	api := router.Group("/api")
	{
		api.POST("/extract-items", assistantHandler.ExtractItems)
		api.POST("/compare-prices", compareHandler.ComparePrices)
		api.GET("/trends", trendHandler.GetTrends)
		api.GET("/history", trendHandler.GetHistory)
		api.POST("/prune", trendHandler.Prune)
		api.POST("/chat", assistantHandler.Chat)
		api.POST("/substitute", assistantHandler.SuggestSubstitutes)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// requestMetrics records request counts and latency per route.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}
