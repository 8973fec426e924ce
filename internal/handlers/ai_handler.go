package handlers

import (
	"context"
	"net/http"
	"time"

	"salon-pos/internal/ai"
	"salon-pos/internal/config"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

func AskAI(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	// 1. Get API Key from the loaded config
	if cfg == nil || cfg.GeminiAPIKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Server missing Gemini API Key"})
		return
	}

	// 2. Run the AI Agent
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()
	response, err := ai.RunAgent(ctx, req.Message, ai.Options{
		APIKey:       cfg.GeminiAPIKey,
		Model:        cfg.GeminiModel,
		Now:          now(),
		RankingLimit: rankingLimit(),
	})
	if err != nil {
		config.LogError(logger, "handlers", "AskAI", "agent run", nil, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	// 3. Return the Answer
	c.JSON(http.StatusOK, gin.H{"reply": response})
}
