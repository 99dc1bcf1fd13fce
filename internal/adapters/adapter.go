package adapters

import (
	"context"
	"strconv"
	"strings"

	"github.com/sarthakmehta/kart-compare/backend/internal/models"
)

// SourceAdapter is one platform's price source. Fetch returns exactly one
// Observation per input query, in input order, even on total failure: an
// adapter that cannot run at all degrades to all-unavailable observations
// rather than returning an error. Per-item failures yield an unavailable
// observation for that item only.
type SourceAdapter interface {
	Platform() models.Platform
	// Simulated reports whether this adapter synthesizes prices instead of
	// fetching live ones. Surfaced in the response so synthetic results are
	// never silently mixed with real ones.
	Simulated() bool
	Fetch(ctx context.Context, queries []string, locality string) ([]models.Observation, models.FeeRule)
}

// NewLiveAdapterSet returns the production adapter set in canonical order:
// live sources for the platforms with a public search, simulated sources for
// the location-gated ones.
func NewLiveAdapterSet(perSecond float64) []SourceAdapter {
	rules := DefaultFeeRules()
	return []SourceAdapter{
		NewZeptoAdapter(rules[models.PlatformZepto], perSecond),
		NewBlinkitAdapter(rules[models.PlatformBlinkit], perSecond),
		NewInstamartAdapter(rules[models.PlatformInstamart]),
		NewFlipkartMinutesAdapter(rules[models.PlatformFlipkart]),
	}
}

// DefaultFeeRules returns the static per-platform fee configuration.
func DefaultFeeRules() map[models.Platform]models.FeeRule {
	return map[models.Platform]models.FeeRule{
		models.PlatformZepto:     {FreeDeliveryThreshold: 199, DeliveryFee: 25, PlatformFee: 2},
		models.PlatformBlinkit:   {FreeDeliveryThreshold: 199, DeliveryFee: 25, PlatformFee: 0},
		models.PlatformInstamart: {FreeDeliveryThreshold: 199, DeliveryFee: 29, PlatformFee: 3},
		models.PlatformFlipkart:  {FreeDeliveryThreshold: 0, DeliveryFee: 0, PlatformFee: 5},
	}
}

// ParsePrice parses a scraped price string into a decimal amount. Currency
// symbols, thousands separators, and surrounding whitespace are stripped
// ("₹1,249.00" -> 1249).
func ParsePrice(text string) (float64, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "₹", "")
	cleaned = strings.ReplaceAll(cleaned, "Rs.", "")
	cleaned = strings.ReplaceAll(cleaned, "Rs", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	return strconv.ParseFloat(cleaned, 64)
}

// Unavailable returns the degraded observation for a query that could not
// be fetched.
func Unavailable(query, url string) models.Observation {
	return models.Observation{
		Query:     query,
		Name:      query,
		Price:     0,
		Available: false,
		URL:       url,
	}
}

// AllUnavailable returns the total-failure degradation: one unavailable
// observation per query, in input order.
func AllUnavailable(queries []string) []models.Observation {
	out := make([]models.Observation, 0, len(queries))
	for _, q := range queries {
		out = append(out, Unavailable(q, ""))
	}
	return out
}
