package adapters

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/url"
	"strings"
	"sync"

	"github.com/sarthakmehta/kart-compare/backend/internal/models"
)

// SimulatedAdapter synthesizes plausible prices for a platform that cannot
// be fetched live (no public search, or one that requires a logged-in
// session). Every item comes back available; results are always flagged as
// simulated in the response.
type SimulatedAdapter struct {
	platform  models.Platform
	feeRule   models.FeeRule
	urlFormat string // fmt pattern with one %s for the escaped query

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedAdapter creates a simulated price source for one platform.
func NewSimulatedAdapter(platform models.Platform, feeRule models.FeeRule, urlFormat string) *SimulatedAdapter {
	return &SimulatedAdapter{
		platform:  platform,
		feeRule:   feeRule,
		urlFormat: urlFormat,
		rng:       rand.New(rand.NewSource(int64(len(platform)) * 7919)),
	}
}

// NewInstamartAdapter returns the simulated Swiggy Instamart source.
// Instamart requires a delivery location and session before search works.
func NewInstamartAdapter(feeRule models.FeeRule) *SimulatedAdapter {
	return NewSimulatedAdapter(models.PlatformInstamart, feeRule,
		"https://www.swiggy.com/instamart/search?q=%s")
}

// NewFlipkartMinutesAdapter returns the simulated Flipkart Minutes source.
// Flipkart Minutes is location-gated with no public search results.
func NewFlipkartMinutesAdapter(feeRule models.FeeRule) *SimulatedAdapter {
	return NewSimulatedAdapter(models.PlatformFlipkart, feeRule,
		"https://www.flipkart.com/search?q=%s")
}

func (a *SimulatedAdapter) Platform() models.Platform { return a.platform }

func (a *SimulatedAdapter) Simulated() bool { return true }

func (a *SimulatedAdapter) Fetch(_ context.Context, queries []string, _ string) ([]models.Observation, models.FeeRule) {
	results := make([]models.Observation, 0, len(queries))

	for _, query := range queries {
		results = append(results, models.Observation{
			Query:     query,
			Name:      fmt.Sprintf("%s (%s)", titleCase(query), a.platform),
			Price:     a.randomPrice(),
			Available: true,
			URL:       fmt.Sprintf(a.urlFormat, url.QueryEscape(query)),
		})
	}

	return results, a.feeRule
}

func (a *SimulatedAdapter) randomPrice() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return math.Round((20+a.rng.Float64()*180)*100) / 100
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
