package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"bunyan-api/pkg/partner"

	"github.com/gin-gonic/gin"
)

// BillHandler serves the invoice-scanning proxy. There is no mock fallback
// on this path: an invoice analysis cannot be meaningfully faked, so partner
// failures surface as errors.
type BillHandler struct {
	partner *partner.Client
}

// NewBillHandler creates a new bill handler.
func NewBillHandler(partnerClient *partner.Client) *BillHandler {
	return &BillHandler{partner: partnerClient}
}

// ScanBill handles POST /scan-bill. The uploaded file is forwarded
// unmodified to the invoice-analysis partner and the partner's JSON comes
// back untouched under a success flag.
func (h *BillHandler) ScanBill(c *gin.Context) {
	c.Request.ParseMultipartForm(10 << 20) // 10MB limit

	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	fileName := fileHeader.Filename
	if fileName == "" {
		fileName = "invoice.jpg"
	}

	log.Printf("🧾 [scan-bill] forwarding %s (%d bytes) to invoice API", fileName, len(data))

	result, err := h.partner.AnalyzeInvoice(c.Request.Context(), partner.Upload{
		Name:        fileName,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		var upstreamErr *partner.UpstreamError
		if errors.As(err, &upstreamErr) {
			log.Printf("❌ [scan-bill] invoice API status %d", upstreamErr.Status)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invoice analysis failed", "details": upstreamErr.Body})
			return
		}
		log.Printf("❌ [scan-bill] invoice API unreachable: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze invoice", "details": err.Error()})
		return
	}

	log.Printf("✅ [scan-bill] invoice API response received")
	result["success"] = true
	c.JSON(http.StatusOK, result)
}
