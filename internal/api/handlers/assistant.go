package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sarthakmehta/kart-compare/backend/internal/services"
)

type AssistantHandler struct {
	extractor *services.ExtractorService
	assistant *services.AssistantService
}

func NewAssistantHandler(extractor *services.ExtractorService, assistant *services.AssistantService) *AssistantHandler {
	return &AssistantHandler{
		extractor: extractor,
		assistant: assistant,
	}
}

type extractRequest struct {
	Input string `json:"input"`
}

// ExtractItems turns a free-text shopping request into normalized item
// queries.
func (h *AssistantHandler) ExtractItems(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no input provided"})
		return
	}

	items := h.extractor.ExtractItems(c.Request.Context(), req.Input)

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

type chatRequest struct {
	Message string          `json:"message"`
	Context json.RawMessage `json:"context"`
}

// Chat answers an ad-hoc shopping question.
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no message provided"})
		return
	}

	answer, err := h.assistant.Chat(c.Request.Context(), req.Message, req.Context)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":    answer,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type substituteRequest struct {
	Product string `json:"product"`
	Reason  string `json:"reason"`
}

// SuggestSubstitutes proposes replacement products.
func (h *AssistantHandler) SuggestSubstitutes(c *gin.Context) {
	var req substituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Product) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no product provided"})
		return
	}

	substitutes, err := h.assistant.SuggestSubstitutes(c.Request.Context(), req.Product, req.Reason)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"substitutes": substitutes})
}
