package services

import (
	"context"
	"encoding/json"
	"fmt"
)

// AssistantService answers ad-hoc shopping questions and suggests product
// substitutes. Unlike extraction and insights, these are model-only
// features: callers surface the error when the model is unavailable.
type AssistantService struct {
	gemini *GeminiClient
}

// Substitute is one suggested replacement product.
type Substitute struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

func NewAssistantService(gemini *GeminiClient) *AssistantService {
	return &AssistantService{gemini: gemini}
}

// Chat answers a free-form question, optionally grounded on a previous
// comparison payload.
func (s *AssistantService) Chat(ctx context.Context, message string, previous json.RawMessage) (string, error) {
	contextJSON := "{}"
	if len(previous) > 0 {
		contextJSON = string(previous)
	}

	prompt := fmt.Sprintf(`You are a smart shopping assistant for Indian quick-commerce platforms.
User question: %q
Context (previous comparison data):
%s
Provide a helpful, concise response (2-3 sentences max).
Focus on:
- Price trends
- Money-saving tips
- Platform recommendations
- Product availability
Be conversational and friendly.`, message, contextJSON)

	return s.gemini.Generate(ctx, "chat", prompt)
}

// SuggestSubstitutes proposes replacements for a product that is
// unavailable or unsatisfactory.
func (s *AssistantService) SuggestSubstitutes(ctx context.Context, product, reason string) ([]Substitute, error) {
	if reason == "" {
		reason = "out of stock"
	}

	prompt := fmt.Sprintf(`Product: %q
Issue: %s
Suggest 2-3 substitute products available in Indian quick-commerce.
Return JSON format:
{
  "substitutes": [
    {"name": "Product 1", "reason": "Why it's a good substitute"},
    {"name": "Product 2", "reason": "Why it's a good substitute"}
  ]
}
Return ONLY the JSON.`, product, reason)

	text, err := s.gemini.Generate(ctx, "substitute", prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Substitutes []Substitute `json:"substitutes"`
	}
	if err := json.Unmarshal([]byte(stripJSONFences(text)), &parsed); err != nil {
		return nil, fmt.Errorf("parse substitute response: %w", err)
	}
	return parsed.Substitutes, nil
}
