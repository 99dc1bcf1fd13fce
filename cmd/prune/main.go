// Command prune deletes price history older than the retention window and
// exits. Useful for cron-driven retention outside the server process.
package main

import (
	"flag"
	"log"

	"github.com/sarthakmehta/kart-compare/backend/internal/config"
	"github.com/sarthakmehta/kart-compare/backend/internal/database"
	"github.com/sarthakmehta/kart-compare/backend/internal/history"
)

func main() {
	cfg := config.Load()

	retentionDays := flag.Int("retention-days", cfg.RetentionDays, "delete records older than this many days")
	dbPath := flag.String("db", cfg.DBPath, "path to the SQLite database")
	flag.Parse()

	if *retentionDays < 0 {
		log.Fatal("retention-days must be >= 0")
	}

	db, err := database.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close(db)

	store := history.NewStore(db)
	deleted, err := store.Prune(*retentionDays)
	if err != nil {
		log.Fatalf("Prune failed: %v", err)
	}

	log.Printf("Pruned %d records older than %d days", deleted, *retentionDays)
}
