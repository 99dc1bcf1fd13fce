// Package engine fans a shopping list out to every platform adapter,
// computes per-platform totals with fees, and picks the cheapest platform.
package engine

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/sarthakmehta/kart-compare/backend/internal/adapters"
	"github.com/sarthakmehta/kart-compare/backend/internal/metrics"
	"github.com/sarthakmehta/kart-compare/backend/internal/models"
)

// ErrNoItems is returned when Compare is invoked with an empty item list.
// Callers are expected to reject empty input before reaching the engine;
// this is the defensive backstop.
var ErrNoItems = errors.New("no items to compare")

const defaultAdapterTimeout = 30 * time.Second

// Recorder persists observed prices. Writes are best-effort: the engine
// logs and swallows failures rather than failing the comparison.
type Recorder interface {
	Record(productName string, platform models.Platform, price float64) error
}

// Engine runs comparison cycles over a fixed adapter set. The adapter slice
// order is the canonical platform order used for tie-breaking.
type Engine struct {
	adapters []adapters.SourceAdapter
	feeRules map[models.Platform]models.FeeRule
	recorder Recorder
	timeout  time.Duration
}

// New creates an engine over the given adapters. recorder may be nil, in
// which case no history is written. A non-positive timeout falls back to
// the default adapter budget.
func New(set []adapters.SourceAdapter, feeRules map[models.Platform]models.FeeRule, recorder Recorder, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = defaultAdapterTimeout
	}
	return &Engine{
		adapters: set,
		feeRules: feeRules,
		recorder: recorder,
		timeout:  timeout,
	}
}

type fetchResult struct {
	observations []models.Observation
	feeRule      models.FeeRule
}

// Compare fetches every item from every platform concurrently and returns
// one quote per platform plus the cheapest platform. A slow or hanging
// adapter is abandoned at the deadline and its platform reported as fully
// unavailable; no platform's failure affects any other platform's quote.
func (e *Engine) Compare(ctx context.Context, items []string, locality string) (*models.Comparison, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	start := time.Now()
	metrics.ComparisonsTotal.Inc()

	// Fan out one task per adapter. Each result channel is buffered so an
	// abandoned adapter can still complete its send and exit.
	deadline := start.Add(e.timeout)
	channels := make([]chan fetchResult, len(e.adapters))
	for i, adapter := range e.adapters {
		ch := make(chan fetchResult, 1)
		channels[i] = ch
		go func(a adapters.SourceAdapter, ch chan<- fetchResult) {
			fetchStart := time.Now()
			observations, feeRule := a.Fetch(ctx, items, locality)
			metrics.AdapterFetchDuration.WithLabelValues(string(a.Platform())).
				Observe(time.Since(fetchStart).Seconds())
			ch <- fetchResult{observations: observations, feeRule: feeRule}
		}(adapter, ch)
	}

	comparison := &models.Comparison{
		ID:        uuid.NewString(),
		Platforms: make(map[models.Platform]*models.PlatformQuote, len(e.adapters)),
	}

	// Join in canonical order under the shared deadline.
	for i, adapter := range e.adapters {
		platform := adapter.Platform()

		var result fetchResult
		select {
		case result = <-channels[i]:
		case <-time.After(time.Until(deadline)):
			log.Printf("Engine: %s adapter exceeded %s budget, reporting unavailable", platform, e.timeout)
			metrics.AdapterTimeoutsTotal.WithLabelValues(string(platform)).Inc()
			result = fetchResult{
				observations: adapters.AllUnavailable(items),
				feeRule:      e.feeRules[platform],
			}
		}

		observations := alignObservations(items, result.observations)
		comparison.Platforms[platform] = e.buildQuote(adapter, observations, result.feeRule)
	}

	comparison.CheapestPlatform = cheapest(e.adapters, comparison.Platforms)

	e.recordObservations(comparison)

	metrics.ComparisonDuration.Observe(time.Since(start).Seconds())
	return comparison, nil
}

// buildQuote computes one platform's subtotal, fees, and total from its
// observations. Unavailable items contribute nothing to the subtotal.
func (e *Engine) buildQuote(adapter adapters.SourceAdapter, observations []models.Observation, feeRule models.FeeRule) *models.PlatformQuote {
	platform := adapter.Platform()

	var subtotal float64
	for _, obs := range observations {
		if obs.Available {
			subtotal += obs.Price
		} else {
			metrics.AdapterItemsUnavailable.WithLabelValues(string(platform)).Inc()
		}
	}
	subtotal = round2(subtotal)

	deliveryFee := feeRule.DeliveryFeeFor(subtotal)

	return &models.PlatformQuote{
		Platform:    platform,
		ItemsTotal:  subtotal,
		DeliveryFee: deliveryFee,
		PlatformFee: feeRule.PlatformFee,
		Total:       round2(subtotal + deliveryFee + feeRule.PlatformFee),
		Simulated:   adapter.Simulated(),
		Items:       observations,
	}
}

// recordObservations writes one history row per available priced
// observation. Failures are logged and swallowed; history never blocks a
// comparison response.
func (e *Engine) recordObservations(comparison *models.Comparison) {
	if e.recorder == nil {
		return
	}
	for platform, quote := range comparison.Platforms {
		for _, obs := range quote.Items {
			if !obs.Available || obs.Price <= 0 {
				continue
			}
			if err := e.recorder.Record(obs.Name, platform, obs.Price); err != nil {
				log.Printf("Engine: history write for %q on %s failed: %v", obs.Name, platform, err)
			}
		}
	}
}

// alignObservations enforces the one-observation-per-query contract: the
// result has exactly one entry per input item, in input order, padding with
// unavailable entries if an adapter under-delivered.
func alignObservations(items []string, observations []models.Observation) []models.Observation {
	if len(observations) == len(items) {
		return observations
	}
	aligned := make([]models.Observation, 0, len(items))
	for i, item := range items {
		if i < len(observations) {
			aligned = append(aligned, observations[i])
		} else {
			aligned = append(aligned, adapters.Unavailable(item, ""))
		}
	}
	return aligned
}

// cheapest returns the platform with the minimum total. Strict less-than
// keeps the earliest platform in canonical order on ties.
func cheapest(set []adapters.SourceAdapter, quotes map[models.Platform]*models.PlatformQuote) models.Platform {
	var best models.Platform
	bestTotal := math.Inf(1)
	for _, adapter := range set {
		platform := adapter.Platform()
		quote, ok := quotes[platform]
		if !ok {
			continue
		}
		if quote.Total < bestTotal {
			best = platform
			bestTotal = quote.Total
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
