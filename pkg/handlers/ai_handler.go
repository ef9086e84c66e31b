package handlers

import (
	"net/http"

	"bunyan-api/pkg/models"
	"bunyan-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// AIHandler serves the language-model-backed routes: chat, cost estimation
// and design generation. These routes always answer 200 with a real or
// fallback payload; only input validation produces a non-2xx.
type AIHandler struct {
	assistantService *services.AssistantService
	estimateService  *services.EstimateService
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(assistantService *services.AssistantService, estimateService *services.EstimateService) *AIHandler {
	return &AIHandler{
		assistantService: assistantService,
		estimateService:  estimateService,
	}
}

// Chat handles POST /chat.
func (ah *AIHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	env := ah.assistantService.Converse(c.Request.Context(), req.Message, req.Context)
	c.JSON(http.StatusOK, env)
}

// EstimateCost handles POST /estimate-cost.
func (ah *AIHandler) EstimateCost(c *gin.Context) {
	var req models.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid estimate request: " + err.Error()})
		return
	}

	result := ah.estimateService.EstimateCost(c.Request.Context(), req)
	c.JSON(http.StatusOK, result)
}

// GenerateDesign handles POST /generate-design.
func (ah *AIHandler) GenerateDesign(c *gin.Context) {
	var req models.DesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid design request: " + err.Error()})
		return
	}

	result := ah.assistantService.GenerateDesign(c.Request.Context(), req)
	c.JSON(http.StatusOK, result)
}
