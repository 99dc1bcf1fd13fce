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

// referencePrices is the demo fixture table: known prices per product per
// platform. Queries are matched fuzzily against the keys.
var referencePrices = map[string]map[models.Platform]float64{
	"milk": {
		models.PlatformZepto:     56,
		models.PlatformBlinkit:   58,
		models.PlatformInstamart: 54,
		models.PlatformFlipkart:  57,
	},
	"bread": {
		models.PlatformZepto:     35,
		models.PlatformBlinkit:   33,
		models.PlatformInstamart: 36,
		models.PlatformFlipkart:  34,
	},
	"eggs": {
		models.PlatformZepto:     84,
		models.PlatformBlinkit:   82,
		models.PlatformInstamart: 85,
		models.PlatformFlipkart:  83,
	},
}

// MockAdapter serves fixture prices for a single platform. Used for demos
// and tests where live fetching is unwanted; every item is available, from
// the fixture table when the query matches a known product and from a random
// plausible price otherwise.
type MockAdapter struct {
	platform models.Platform
	feeRule  models.FeeRule

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockAdapter creates a fixture-backed adapter for the given platform.
func NewMockAdapter(platform models.Platform, feeRule models.FeeRule) *MockAdapter {
	return &MockAdapter{
		platform: platform,
		feeRule:  feeRule,
		rng:      rand.New(rand.NewSource(int64(len(platform)))),
	}
}

// NewMockAdapterSet returns fixture-backed adapters for every platform, in
// canonical order.
func NewMockAdapterSet() []SourceAdapter {
	rules := DefaultFeeRules()
	set := make([]SourceAdapter, 0, len(rules))
	for _, p := range models.CanonicalPlatformOrder() {
		set = append(set, NewMockAdapter(p, rules[p]))
	}
	return set
}

func (a *MockAdapter) Platform() models.Platform { return a.platform }

func (a *MockAdapter) Simulated() bool { return true }

func (a *MockAdapter) Fetch(_ context.Context, queries []string, _ string) ([]models.Observation, models.FeeRule) {
	results := make([]models.Observation, 0, len(queries))

	for _, query := range queries {
		price, ok := a.lookupFixture(query)
		if !ok {
			price = a.randomPrice()
		}

		results = append(results, models.Observation{
			Query:     query,
			Name:      query,
			Price:     price,
			Available: true,
			URL:       a.searchURL(query),
		})
	}

	return results, a.feeRule
}

// lookupFixture fuzzily matches a query against the reference table: a key
// matches when it contains the query or the query contains the key,
// case-insensitively.
func (a *MockAdapter) lookupFixture(query string) (float64, bool) {
	q := strings.ToLower(query)
	for key, prices := range referencePrices {
		if strings.Contains(q, key) || strings.Contains(key, q) {
			if price, ok := prices[a.platform]; ok {
				return price, true
			}
		}
	}
	return 0, false
}

// randomPrice returns a plausible grocery price for products outside the
// fixture table.
func (a *MockAdapter) randomPrice() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return math.Round((20+a.rng.Float64()*130)*100) / 100
}

func (a *MockAdapter) searchURL(query string) string {
	host := strings.ToLower(strings.ReplaceAll(string(a.platform), " ", ""))
	return fmt.Sprintf("https://%s.com/search?q=%s", host, url.QueryEscape(query))
}
