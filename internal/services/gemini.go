package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sarthakmehta/kart-compare/backend/internal/metrics"
)

const (
	geminiAPIURL  = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
	geminiTimeout = 30 * time.Second
)

// GeminiClient calls the Gemini generateContent API. A client with no API
// key is disabled; every consumer degrades to a deterministic fallback when
// the model is disabled or a call fails.
type GeminiClient struct {
	http    *resty.Client
	apiKey  string
	model   string
	enabled bool
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewGeminiClient creates a Gemini client for the given model.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	c := &GeminiClient{
		http:    resty.New().SetTimeout(geminiTimeout),
		apiKey:  apiKey,
		model:   model,
		enabled: apiKey != "",
	}

	if c.enabled {
		log.Printf("Gemini client: enabled (model=%s)", model)
	} else {
		log.Println("Gemini client: disabled (no GEMINI_API_KEY)")
	}

	return c
}

// IsEnabled returns whether the model is available.
func (c *GeminiClient) IsEnabled() bool {
	return c.enabled
}

// Generate sends one prompt and returns the model's text response.
// capability labels the call in metrics ("extract", "insights", ...).
func (c *GeminiClient) Generate(ctx context.Context, capability, prompt string) (string, error) {
	if !c.enabled {
		return "", fmt.Errorf("gemini disabled")
	}

	metrics.GeminiRequestsTotal.WithLabelValues(capability).Inc()
	start := time.Now()

	var result geminiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(geminiRequest{
			Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		}).
		SetResult(&result).
		Post(fmt.Sprintf(geminiAPIURL, c.model))

	metrics.GeminiAPILatency.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.GeminiErrorsTotal.WithLabelValues("network").Inc()
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if resp.IsError() {
		metrics.GeminiErrorsTotal.WithLabelValues("api").Inc()
		if result.Error != nil {
			return "", fmt.Errorf("gemini API error: %s", result.Error.Message)
		}
		return "", fmt.Errorf("gemini API error: status %d", resp.StatusCode())
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		metrics.GeminiErrorsTotal.WithLabelValues("parse").Inc()
		return "", fmt.Errorf("gemini response has no candidates")
	}

	return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
}

// stripJSONFences removes markdown code fences the model often wraps JSON
// responses in.
func stripJSONFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
