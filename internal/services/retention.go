package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sarthakmehta/kart-compare/backend/internal/history"
)

// RetentionWorker prunes price history older than the retention window on a
// daily cadence.
type RetentionWorker struct {
	mu            sync.Mutex
	store         *history.Store
	retentionDays int
	checkInterval time.Duration
	lastPruneDay  time.Time
}

func NewRetentionWorker(store *history.Store, retentionDays int) *RetentionWorker {
	if retentionDays <= 0 {
		retentionDays = history.DefaultRetentionDays
	}
	return &RetentionWorker{
		store:         store,
		retentionDays: retentionDays,
		checkInterval: time.Hour,
	}
}

// Start begins the background pruning loop and blocks until ctx is done.
func (w *RetentionWorker) Start(ctx context.Context) {
	log.Printf("Retention worker started: pruning history older than %d days", w.retentionDays)

	// Prune on startup, then once per day
	w.pruneIfDue()

	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Retention worker stopping...")
			return
		case <-ticker.C:
			w.pruneIfDue()
		}
	}
}

func (w *RetentionWorker) pruneIfDue() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !w.lastPruneDay.Before(today) {
		return
	}

	deleted, err := w.store.Prune(w.retentionDays)
	if err != nil {
		log.Printf("Retention worker: prune failed: %v", err)
		return
	}

	w.lastPruneDay = today
	if deleted > 0 {
		log.Printf("Retention worker: pruned %d records older than %d days", deleted, w.retentionDays)
	}
}
