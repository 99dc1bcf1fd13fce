package services

import (
	"context"
	"testing"

	"github.com/sarthakmehta/kart-compare/backend/internal/models"
)

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"```json\n[\"milk\"]\n```", `["milk"]`},
		{"```\n{}\n```", "{}"},
		{`{"a": 1}`, `{"a": 1}`},
		{"  [1, 2]  ", "[1, 2]"},
	}

	for _, tt := range tests {
		if got := stripJSONFences(tt.input); got != tt.want {
			t.Errorf("stripJSONFences(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestInsightsFallbackWithoutModel(t *testing.T) {
	svc := NewInsightService(NewGeminiClient("", "gemini-2.5-flash"))

	comparison := &models.Comparison{
		ID:               "test",
		Platforms:        map[models.Platform]*models.PlatformQuote{},
		CheapestPlatform: models.PlatformZepto,
	}

	insights := svc.Generate(context.Background(), comparison, nil)

	if insights.Recommendation == "" || insights.SavingsTip == "" {
		t.Errorf("fallback insights incomplete: %+v", insights)
	}
	if insights.PriceTrend != "Price data unavailable." {
		t.Errorf("unexpected fallback trend line: %q", insights.PriceTrend)
	}
}

func TestAssistantRequiresModel(t *testing.T) {
	svc := NewAssistantService(NewGeminiClient("", "gemini-2.5-flash"))

	if _, err := svc.Chat(context.Background(), "where should I buy milk?", nil); err == nil {
		t.Error("chat without a model should return an error")
	}
	if _, err := svc.SuggestSubstitutes(context.Background(), "milk 2L", ""); err == nil {
		t.Error("substitutes without a model should return an error")
	}
}
