package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/sarthakmehta/kart-compare/backend/internal/models"
)

// Insights is the model-generated shopping advice attached to a comparison
// response.
type Insights struct {
	Recommendation  string `json:"recommendation"`
	PriceTrend      string `json:"price_trend"`
	SavingsTip      string `json:"savings_tip"`
	SmartSuggestion string `json:"smart_suggestion"`
}

// InsightService generates a short natural-language summary over quotes and
// trends. The comparison result never depends on it: any failure yields the
// canned fallback.
type InsightService struct {
	gemini *GeminiClient
}

func NewInsightService(gemini *GeminiClient) *InsightService {
	return &InsightService{gemini: gemini}
}

// Generate returns insights for a comparison and the trends of the products
// it observed.
func (s *InsightService) Generate(ctx context.Context, comparison *models.Comparison, trends map[string]map[models.Platform]models.TrendSummary) Insights {
	insights, err := s.generateWithModel(ctx, comparison, trends)
	if err != nil {
		log.Printf("Insight service: falling back to canned insights: %v", err)
		return fallbackInsights()
	}
	return insights
}

func (s *InsightService) generateWithModel(ctx context.Context, comparison *models.Comparison, trends map[string]map[models.Platform]models.TrendSummary) (Insights, error) {
	comparisonJSON, err := json.MarshalIndent(comparison, "", "  ")
	if err != nil {
		return Insights{}, err
	}
	trendsJSON, err := json.MarshalIndent(trends, "", "  ")
	if err != nil {
		return Insights{}, err
	}

	prompt := fmt.Sprintf(`Analyze this shopping comparison data and provide insights:
%s
Price trends (if available):
%s
Generate insights in JSON format:
{
  "recommendation": "Which platform to use and why (1-2 sentences)",
  "price_trend": "Are prices rising/falling/stable? (1 sentence)",
  "savings_tip": "How to maximize savings (1 sentence)",
  "smart_suggestion": "Should they combine orders or buy from one platform? Why?"
}
Be concise, practical, and money-saving focused.
Return ONLY the JSON object.`, comparisonJSON, trendsJSON)

	text, err := s.gemini.Generate(ctx, "insights", prompt)
	if err != nil {
		return Insights{}, err
	}

	var insights Insights
	if err := json.Unmarshal([]byte(stripJSONFences(text)), &insights); err != nil {
		return Insights{}, fmt.Errorf("parse insights response: %w", err)
	}
	return insights, nil
}

func fallbackInsights() Insights {
	return Insights{
		Recommendation:  "Compare prices above to find the best deal.",
		PriceTrend:      "Price data unavailable.",
		SavingsTip:      "Consider delivery fees when choosing a platform.",
		SmartSuggestion: "Buy all items from the cheapest overall platform to save on delivery.",
	}
}
