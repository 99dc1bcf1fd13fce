package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sarthakmehta/kart-compare/backend/internal/adapters"
	"github.com/sarthakmehta/kart-compare/backend/internal/api"
	"github.com/sarthakmehta/kart-compare/backend/internal/api/handlers"
	"github.com/sarthakmehta/kart-compare/backend/internal/config"
	"github.com/sarthakmehta/kart-compare/backend/internal/database"
	"github.com/sarthakmehta/kart-compare/backend/internal/engine"
	"github.com/sarthakmehta/kart-compare/backend/internal/history"
	"github.com/sarthakmehta/kart-compare/backend/internal/services"
)

func main() {
	cfg := config.Load()

	// Initialize database
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	store := history.NewStore(db)

	// Select the adapter set
	var adapterSet []adapters.SourceAdapter
	switch cfg.AdapterMode {
	case "live":
		adapterSet = adapters.NewLiveAdapterSet(cfg.ScrapeRate)
	default:
		adapterSet = adapters.NewMockAdapterSet()
	}
	log.Printf("Adapter mode: %s (%d platforms)", cfg.AdapterMode, len(adapterSet))

	compareEngine := engine.New(adapterSet, adapters.DefaultFeeRules(), store, cfg.CompareTimeout)

	// Gemini-backed capabilities, all with deterministic fallbacks
	gemini := services.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	extractor := services.NewExtractorService(gemini)
	insights := services.NewInsightService(gemini)
	assistant := services.NewAssistantService(gemini)

	retention := services.NewRetentionWorker(store, cfg.RetentionDays)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go retention.Start(ctx)

	// Setup router
	compareHandler := handlers.NewCompareHandler(compareEngine, store, insights, cfg.DefaultLocality)
	trendHandler := handlers.NewTrendHandler(store)
	assistantHandler := handlers.NewAssistantHandler(extractor, assistant)
	router := api.SetupRouter(compareHandler, trendHandler, assistantHandler, cfg.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel the context to stop the retention worker
	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
