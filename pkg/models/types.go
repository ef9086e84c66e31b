package models

import (
	"encoding/json"
	"fmt"
)

func errNegative(field string) error {
	return fmt.Errorf("%w: %s must be non-negative", ErrInvalidPayload, field)
}

func errEmpty(field string) error {
	return fmt.Errorf("%w: %s must not be empty", ErrInvalidPayload, field)
}

func errRange(field string, lo, hi float64) error {
	return fmt.Errorf("%w: %s outside [%g,%g]", ErrInvalidPayload, field, lo, hi)
}

// ChatRequest represents an incoming chat request. Context is a free-form
// JSON value carried over from the client (the web app sends an object like
// {"hasImage": true, "imageType": ...}); it is passed through to the
// provider prompt, never interpreted here.
type ChatRequest struct {
	Message string          `json:"message"`
	Context json.RawMessage `json:"context,omitempty"`
}

// EstimateRequest represents a cost estimation request
type EstimateRequest struct {
	ProjectType    string   `json:"projectType"`
	Area           float64  `json:"area"`
	Location       string   `json:"location"`
	Materials      []string `json:"materials,omitempty"`
	Sustainability string   `json:"sustainability,omitempty"`
}

// EstimateBreakdownItem is one category line of a cost estimate
type EstimateBreakdownItem struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// EstimateOptimization is one savings suggestion of a cost estimate.
// Savings is the non-negative amount saved; NetImpact is the signed cash
// effect, negative when the suggestion is an upfront investment.
type EstimateOptimization struct {
	Suggestion string  `json:"suggestion"`
	Savings    float64 `json:"savings"`
	NetImpact  float64 `json:"netImpact"`
	EcoImpact  string  `json:"ecoImpact"`
}

// EstimateResult represents the response of the cost estimation operation
type EstimateResult struct {
	TotalEstimate   float64                 `json:"totalEstimate"`
	Currency        string                  `json:"currency"`
	Breakdown       []EstimateBreakdownItem `json:"breakdown"`
	Optimizations   []EstimateOptimization  `json:"optimizations"`
	Timeline        string                  `json:"timeline"`
	ConfidenceLevel float64                 `json:"confidenceLevel"`
}

// Validate checks the invariants an estimate must satisfy before it is
// trusted. Percentage totals are intentionally not enforced here: upstream
// models rarely get them exact, only the deterministic fallback does.
func (r *EstimateResult) Validate() error {
	if r.TotalEstimate < 0 {
		return errNegative("totalEstimate")
	}
	if len(r.Breakdown) == 0 {
		return errEmpty("breakdown")
	}
	for _, item := range r.Breakdown {
		if item.Amount < 0 {
			return errNegative("breakdown amount")
		}
	}
	for _, opt := range r.Optimizations {
		if opt.Savings < 0 {
			return errNegative("optimization savings")
		}
	}
	if r.ConfidenceLevel < 0 || r.ConfidenceLevel > 1 {
		return errRange("confidenceLevel", 0, 1)
	}
	return nil
}

// DesignRequest represents a design generation request
type DesignRequest struct {
	ProjectType  string `json:"projectType"`
	Requirements string `json:"requirements,omitempty"`
	Sustainable  bool   `json:"sustainable,omitempty"`
}

// DesignResult represents the response of the design generation operation
type DesignResult struct {
	ID                  string           `json:"id"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	ImageURL            string           `json:"imageUrl"`
	Specs               []DesignSpec     `json:"specs"`
	Materials           []DesignMaterial `json:"materials"`
	SustainabilityScore int              `json:"sustainabilityScore"`
	EstimatedCost       float64          `json:"estimatedCost"`
}

// FinishingDataRequest selects the static finishing package for a style
type FinishingDataRequest struct {
	Style string `json:"style"`
}

// RoomAnalysis describes the room detected in an uploaded photo
type RoomAnalysis struct {
	RoomType   string `json:"roomType"`
	Dimensions string `json:"dimensions"`
	Stage      string `json:"stage"`
}

// FinishingMaterial is one material line of a finishing package.
// Quantity stays a string on the wire ("20", "15"), as the catalog has
// always expressed it.
type FinishingMaterial struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Supplier string `json:"supplier"`
	EcoScore int    `json:"ecoScore"`
}

// FinishingSuggestion is one cost suggestion of a finishing package
type FinishingSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Cost        string `json:"cost"`
}

// FinishingDataResult is the static per-style finishing payload
type FinishingDataResult struct {
	Success     bool                  `json:"success"`
	Style       string                `json:"style"`
	Analysis    RoomAnalysis          `json:"analysis"`
	Suggestions []FinishingSuggestion `json:"suggestions"`
	Materials   []FinishingMaterial   `json:"materials"`
	Timeline    string                `json:"timeline"`
}

// FinishingResult merges the partner's generated image with the static
// style package
type FinishingResult struct {
	Success           bool                  `json:"success"`
	GeneratedImageURL string                `json:"generated_image_url"`
	Style             string                `json:"style"`
	Project           string                `json:"project"`
	Analysis          RoomAnalysis          `json:"analysis"`
	Suggestions       []FinishingSuggestion `json:"suggestions"`
	Materials         []FinishingMaterial   `json:"materials"`
	Timeline          string                `json:"timeline"`
}
