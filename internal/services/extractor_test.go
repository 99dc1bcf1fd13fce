package services

import (
	"context"
	"testing"
)

func TestFallbackSplit(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"milk 2L, bread brown, eggs 12", []string{"milk 2L", "bread brown", "eggs 12"}},
		{"milk", []string{"milk"}},
		{" milk ,  , bread ", []string{"milk", "bread"}},
		{"", nil},
		{" , ,", nil},
	}

	for _, tt := range tests {
		got := FallbackSplit(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("FallbackSplit(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("FallbackSplit(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestExtractItemsDegradesWithoutModel(t *testing.T) {
	// No API key: the model is disabled and extraction falls back to a
	// literal split
	extractor := NewExtractorService(NewGeminiClient("", "gemini-2.5-flash"))

	items := extractor.ExtractItems(context.Background(), "milk 2L, bread brown")

	want := []string{"milk 2L", "bread brown"}
	if len(items) != len(want) {
		t.Fatalf("got %v, want %v", items, want)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("position %d: %q, want %q", i, items[i], want[i])
		}
	}
}

func TestExtractItemsCaches(t *testing.T) {
	extractor := NewExtractorService(NewGeminiClient("", "gemini-2.5-flash"))

	first := extractor.ExtractItems(context.Background(), "milk, eggs")

	cached, ok := extractor.cache.Get("milk, eggs")
	if !ok {
		t.Fatal("extraction result not cached")
	}
	if len(cached) != len(first) {
		t.Errorf("cached %v, want %v", cached, first)
	}

	second := extractor.ExtractItems(context.Background(), "milk, eggs")
	for i := range first {
		if second[i] != first[i] {
			t.Errorf("cache returned different result at %d: %q vs %q", i, second[i], first[i])
		}
	}
}
