package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sarthakmehta/kart-compare/backend/internal/metrics"
)

const extractionCacheSize = 256

// ExtractorService turns free-text shopping requests into normalized,
// searchable item queries ("2 liters of milk" -> "milk 2L"). Extraction is
// model-backed with an LRU cache keyed on the raw input; when the model is
// unavailable it degrades to a literal comma split.
type ExtractorService struct {
	gemini *GeminiClient
	cache  *lru.Cache[string, []string]
}

func NewExtractorService(gemini *GeminiClient) *ExtractorService {
	cache, err := lru.New[string, []string](extractionCacheSize)
	if err != nil {
		log.Printf("Failed to create extraction cache: %v", err)
	}

	return &ExtractorService{
		gemini: gemini,
		cache:  cache,
	}
}

// ExtractItems returns the ordered item queries for a free-text request.
// Never fails: the fallback split always produces a result.
func (s *ExtractorService) ExtractItems(ctx context.Context, input string) []string {
	if s.cache != nil {
		if items, ok := s.cache.Get(input); ok {
			metrics.ExtractionCacheHits.Inc()
			return items
		}
	}

	items, err := s.extractWithModel(ctx, input)
	if err != nil {
		log.Printf("Extractor: model extraction failed, using literal split: %v", err)
		items = FallbackSplit(input)
	}

	if s.cache != nil && len(items) > 0 {
		s.cache.Add(input, items)
	}
	return items
}

func (s *ExtractorService) extractWithModel(ctx context.Context, input string) ([]string, error) {
	prompt := fmt.Sprintf(`Extract shopping items from this text: %q
Return ONLY a JSON array of items in this exact format:
["item1", "item2", "item3"]
Rules:
- Normalize quantities (e.g., "2 liters milk" -> "milk 2L", "dozen eggs" -> "eggs 12")
- Keep it simple and searchable
- Remove unnecessary words
- Common formats: "milk 1L", "bread brown", "eggs 12", "rice 5kg"
Return ONLY the JSON array, nothing else.`, input)

	text, err := s.gemini.Generate(ctx, "extract", prompt)
	if err != nil {
		return nil, err
	}

	var items []string
	if err := json.Unmarshal([]byte(stripJSONFences(text)), &items); err != nil {
		return nil, fmt.Errorf("parse extraction response: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("extraction returned no items")
	}
	return items, nil
}

// FallbackSplit is the degraded extraction: split on commas, trim, drop
// empties.
func FallbackSplit(input string) []string {
	parts := strings.Split(input, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
