package adapters

import (
	"context"
	"testing"

	"github.com/sarthakmehta/kart-compare/backend/internal/models"
)

func TestMockAdapterFixturePrices(t *testing.T) {
	adapter := NewMockAdapter(models.PlatformZepto, DefaultFeeRules()[models.PlatformZepto])

	tests := []struct {
		query string
		want  float64
	}{
		{"milk 2L", 56},    // query contains fixture key
		{"milk", 56},       // exact key
		{"MILK 1L", 56},    // case-insensitive
		{"bread brown", 35},
		{"eggs 12", 84},
		{"egg", 84}, // fixture key contains query
	}

	for _, tt := range tests {
		observations, _ := adapter.Fetch(context.Background(), []string{tt.query}, "Pune")
		if len(observations) != 1 {
			t.Fatalf("%q: expected 1 observation, got %d", tt.query, len(observations))
		}
		obs := observations[0]
		if !obs.Available {
			t.Errorf("%q: expected available", tt.query)
		}
		if obs.Price != tt.want {
			t.Errorf("%q: price %v, want %v", tt.query, obs.Price, tt.want)
		}
	}
}

func TestMockAdapterUnknownProductFallsBackToRandom(t *testing.T) {
	adapter := NewMockAdapter(models.PlatformBlinkit, DefaultFeeRules()[models.PlatformBlinkit])

	observations, _ := adapter.Fetch(context.Background(), []string{"dragon fruit 1kg"}, "Pune")
	obs := observations[0]

	if !obs.Available {
		t.Error("mock observations are always available")
	}
	if obs.Price < 20 || obs.Price > 150 {
		t.Errorf("fallback price %v outside plausible range [20, 150]", obs.Price)
	}
}

func TestMockAdapterPositionalContract(t *testing.T) {
	adapter := NewMockAdapter(models.PlatformInstamart, DefaultFeeRules()[models.PlatformInstamart])
	queries := []string{"eggs 12", "paneer 200g", "milk 2L", "bread brown"}

	observations, feeRule := adapter.Fetch(context.Background(), queries, "Pune")

	if len(observations) != len(queries) {
		t.Fatalf("expected %d observations, got %d", len(queries), len(observations))
	}
	for i, obs := range observations {
		if obs.Query != queries[i] {
			t.Errorf("position %d: query %q, want %q", i, obs.Query, queries[i])
		}
		if obs.URL == "" {
			t.Errorf("position %d: missing source URL", i)
		}
	}
	if feeRule.DeliveryFee != 29 || feeRule.PlatformFee != 3 {
		t.Errorf("unexpected Instamart fee rule: %+v", feeRule)
	}
}

func TestMockAdapterSetCoversAllPlatforms(t *testing.T) {
	set := NewMockAdapterSet()

	if len(set) != 4 {
		t.Fatalf("expected 4 adapters, got %d", len(set))
	}
	for i, p := range models.CanonicalPlatformOrder() {
		if set[i].Platform() != p {
			t.Errorf("position %d: expected %s, got %s", i, p, set[i].Platform())
		}
		if !set[i].Simulated() {
			t.Errorf("%s: mock adapters must be flagged simulated", p)
		}
	}
}
