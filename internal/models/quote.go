package models

// Platform identifies one quick-commerce retailer being compared
type Platform string

const (
	PlatformZepto     Platform = "Zepto"
	PlatformBlinkit   Platform = "Blinkit"
	PlatformInstamart Platform = "Instamart"
	PlatformFlipkart  Platform = "Flipkart Minutes"
)

// CanonicalPlatformOrder returns all platforms in the fixed comparison order.
// This order breaks ties when two platforms quote the same total.
func CanonicalPlatformOrder() []Platform {
	return []Platform{
		PlatformZepto,
		PlatformBlinkit,
		PlatformInstamart,
		PlatformFlipkart,
	}
}

// Observation is one item's fetched price result from one platform.
// An unavailable observation carries a zero price and is excluded from
// totals and from history writes.
type Observation struct {
	Query     string  `json:"-"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
	URL       string  `json:"url"`
}

// FeeRule is a platform's static fee configuration. The delivery fee is
// charged only when the items subtotal is at or below the free-delivery
// threshold.
type FeeRule struct {
	FreeDeliveryThreshold float64 `json:"free_delivery_threshold"`
	DeliveryFee           float64 `json:"delivery_fee"`
	PlatformFee           float64 `json:"platform_fee"`
}

// DeliveryFeeFor returns the delivery fee owed for the given items subtotal.
func (r FeeRule) DeliveryFeeFor(subtotal float64) float64 {
	if subtotal > r.FreeDeliveryThreshold {
		return 0
	}
	return r.DeliveryFee
}

// PlatformQuote is one platform's computed basket for a comparison cycle.
// It is derived data, rebuilt on every request and never mutated after
// construction.
type PlatformQuote struct {
	Platform    Platform      `json:"-"`
	ItemsTotal  float64       `json:"items_total"`
	DeliveryFee float64       `json:"delivery_fee"`
	PlatformFee float64       `json:"platform_fee"`
	Total       float64       `json:"total"`
	Simulated   bool          `json:"simulated,omitempty"`
	Items       []Observation `json:"items"`
}

// Comparison is the full result of one comparison cycle across all
// registered platforms.
type Comparison struct {
	ID               string                      `json:"comparison_id"`
	Platforms        map[Platform]*PlatformQuote `json:"platforms"`
	CheapestPlatform Platform                    `json:"cheapest_platform"`
}
