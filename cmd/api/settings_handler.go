package api

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"mailreply-backend/pkg/ai"
	"mailreply-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RuntimeConfig holds AI settings that can change without a restart
type RuntimeConfig struct {
	OllamaBaseURL string `json:"ollama_base_url"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

var (
	runtimeConfig     RuntimeConfig
	runtimeConfigLock sync.RWMutex
)

// InitRuntimeConfig seeds the runtime settings from static config
func InitRuntimeConfig(ollamaBaseURL, ollamaModel string) {
	runtimeConfigLock.Lock()
	defer runtimeConfigLock.Unlock()
	runtimeConfig = RuntimeConfig{
		OllamaBaseURL: ollamaBaseURL,
		OllamaModel:   ollamaModel,
	}
}

func GetRuntimeOllamaBaseURL() string {
	runtimeConfigLock.RLock()
	defer runtimeConfigLock.RUnlock()
	return runtimeConfig.OllamaBaseURL
}

func GetRuntimeOllamaModel() string {
	runtimeConfigLock.RLock()
	defer runtimeConfigLock.RUnlock()
	return runtimeConfig.OllamaModel
}

func currentRuntimeConfig() RuntimeConfig {
	runtimeConfigLock.RLock()
	defer runtimeConfigLock.RUnlock()
	return runtimeConfig
}

type UpdateAISettingsRequest struct {
	OllamaBaseURL string `json:"ollama_base_url" binding:"required"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

// GetAISettings returns the current runtime AI settings
// GET /api/settings/ai
func GetAISettings(c *gin.Context) {
	c.JSON(http.StatusOK, currentRuntimeConfig())
}

// UpdateAISettings changes the Ollama server and model used by subsequent generations
// PUT /api/settings/ai
func UpdateAISettings(c *gin.Context) {
	var req UpdateAISettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if u, err := url.Parse(req.OllamaBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ollama_base_url must be an absolute URL"})
		return
	}

	runtimeConfigLock.Lock()
	runtimeConfig.OllamaBaseURL = req.OllamaBaseURL
	if req.OllamaModel != "" {
		runtimeConfig.OllamaModel = req.OllamaModel
	}
	updated := runtimeConfig
	runtimeConfigLock.Unlock()

	logger.FromContext(c, logger.Log).Info("ai settings updated",
		zap.String("ollama_base_url", updated.OllamaBaseURL),
		zap.String("ollama_model", updated.OllamaModel),
	)

	c.JSON(http.StatusOK, gin.H{
		"message":         "AI settings updated successfully",
		"ollama_base_url": updated.OllamaBaseURL,
		"ollama_model":    updated.OllamaModel,
	})
}

// TestAIConnection checks that the Ollama server answers and lists its models
// POST /api/settings/ai/test
func TestAIConnection(c *gin.Context) {
	var req struct {
		OllamaBaseURL string `json:"ollama_base_url"`
	}
	// an empty body tests the current settings
	_ = c.ShouldBindJSON(&req)
	if req.OllamaBaseURL == "" {
		req.OllamaBaseURL = GetRuntimeOllamaBaseURL()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	models, err := ai.NewOllamaService(req.OllamaBaseURL, "", nil).ListModels(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected": false,
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":       true,
		"ollama_base_url": req.OllamaBaseURL,
		"models":          models,
	})
}
