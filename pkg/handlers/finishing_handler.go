package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"bunyan-api/pkg/models"
	"bunyan-api/pkg/partner"
	"bunyan-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// FinishingHandler serves the room-finish routes: the visualization proxy
// and the static per-style data.
type FinishingHandler struct {
	service *services.FinishingService
}

// NewFinishingHandler creates a new finishing handler.
func NewFinishingHandler(service *services.FinishingService) *FinishingHandler {
	return &FinishingHandler{service: service}
}

// VisualizeFinishing handles POST /visualize-finishing. The room photo and
// the style go to the partner image service while the style package is
// looked up concurrently; a failure in either call fails the request.
func (h *FinishingHandler) VisualizeFinishing(c *gin.Context) {
	c.Request.ParseMultipartForm(10 << 20) // 10MB limit

	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image is required"})
		return
	}
	defer file.Close()

	style := c.PostForm("style")
	if style == "" {
		style = "modern"
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded image"})
		return
	}

	fileName := fileHeader.Filename
	if fileName == "" {
		fileName = "image.jpg"
	}

	log.Printf("🚀 [visualize] forwarding %s to design API (style=%s)", fileName, style)

	result, err := h.service.Visualize(c.Request.Context(), partner.Upload{
		Name:        fileName,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, style)
	if err != nil {
		var upstreamErr *partner.UpstreamError
		if errors.As(err, &upstreamErr) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Image generation failed", "details": upstreamErr.Body})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate visualization", "details": err.Error()})
		return
	}

	log.Printf("✅ [visualize] design API response received (style=%s)", result.Style)
	c.JSON(http.StatusOK, result)
}

// FinishingData handles POST /finishing-data: a static lookup with no
// upstream call. Identical requests get byte-identical payloads.
func (h *FinishingHandler) FinishingData(c *gin.Context) {
	var req models.FinishingDataRequest
	// An empty or absent body simply selects the default style.
	_ = c.ShouldBindJSON(&req)
	if req.Style == "" {
		req.Style = "modern"
	}

	c.JSON(http.StatusOK, h.service.StyleData(req.Style))
}
