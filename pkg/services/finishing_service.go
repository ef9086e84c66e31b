package services

import (
	"context"
	"log"
	"sync"

	"bunyan-api/pkg/models"
	"bunyan-api/pkg/partner"
)

// styleMaterials and styleSuggestions are the static finishing catalogs,
// keyed by style. Unknown styles fall back to the modern package while
// echoing the requested style name.
var styleMaterials = map[string][]models.FinishingMaterial{
	"modern": {
		{Name: "Porcelain Floor Tiles 60x60cm", Quantity: "20", Unit: "m²", Supplier: "RAK Ceramics Egypt", EcoScore: 85},
		{Name: "Premium Wall Paint (Jotun)", Quantity: "15", Unit: "L", Supplier: "Jotun Egypt", EcoScore: 88},
		{Name: "LED Recessed Lights", Quantity: "6", Unit: "pcs", Supplier: "Philips Egypt", EcoScore: 92},
		{Name: "Gypsum Board Ceiling", Quantity: "20", Unit: "m²", Supplier: "Knauf Egypt", EcoScore: 80},
	},
	"luxury": {
		{Name: "Italian Marble Tiles", Quantity: "20", Unit: "m²", Supplier: "Cleopatra Marble", EcoScore: 75},
		{Name: "Decorative Ceiling Moldings", Quantity: "30", Unit: "m", Supplier: "Orac Egypt", EcoScore: 70},
		{Name: "Crystal Chandelier", Quantity: "1", Unit: "pcs", Supplier: "Swarovski Egypt", EcoScore: 65},
		{Name: "Premium Wallpaper", Quantity: "8", Unit: "rolls", Supplier: "Zambaiti Egypt", EcoScore: 72},
	},
	"classic": {
		{Name: "Parquet Wood Flooring", Quantity: "20", Unit: "m²", Supplier: "Tarkett Egypt", EcoScore: 82},
		{Name: "Classic Ceiling Cornices", Quantity: "20", Unit: "m", Supplier: "Orac Egypt", EcoScore: 78},
		{Name: "Traditional Chandelier", Quantity: "1", Unit: "pcs", Supplier: "Egyptian Lighting", EcoScore: 70},
		{Name: "Premium Satin Paint", Quantity: "15", Unit: "L", Supplier: "Jotun Egypt", EcoScore: 85},
	},
}

var styleSuggestions = map[string][]models.FinishingSuggestion{
	"modern": {
		{Title: "Flooring", Description: "Large format porcelain tiles (EGP 300-600/m²)", Cost: "EGP 6,000 - 12,000"},
		{Title: "Wall Finishing", Description: "Smooth paint finish in warm neutral tones", Cost: "EGP 4,000 - 6,000"},
		{Title: "Lighting", Description: "Modern LED ceiling lights + wall sconces", Cost: "EGP 5,000 - 12,000"},
		{Title: "Total Estimate", Description: "Complete modern finishing package", Cost: "EGP 30,000 - 60,000"},
	},
	"luxury": {
		{Title: "Flooring", Description: "Italian marble or high-end porcelain (EGP 800-1200/m²)", Cost: "EGP 16,000 - 24,000"},
		{Title: "Wall Finishing", Description: "Premium paint with decorative moldings and accent wall", Cost: "EGP 8,000 - 15,000"},
		{Title: "Lighting", Description: "Crystal chandelier + recessed LED spots", Cost: "EGP 15,000 - 30,000"},
		{Title: "Total Estimate", Description: "Complete luxury finishing package", Cost: "EGP 80,000 - 150,000"},
	},
	"classic": {
		{Title: "Flooring", Description: "Parquet or patterned tiles (EGP 400-700/m²)", Cost: "EGP 8,000 - 14,000"},
		{Title: "Wall Finishing", Description: "Classic Egyptian style with warm colors and decorative ceiling", Cost: "EGP 6,000 - 10,000"},
		{Title: "Lighting", Description: "Traditional lighting fixtures + wall sconces", Cost: "EGP 8,000 - 18,000"},
		{Title: "Total Estimate", Description: "Complete classic finishing package", Cost: "EGP 45,000 - 85,000"},
	},
}

// FinishingService serves the static finishing packages and the
// visualization join against the partner image service.
type FinishingService struct {
	partner *partner.Client
}

// NewFinishingService creates a new finishing service around the injected
// partner client.
func NewFinishingService(partnerClient *partner.Client) *FinishingService {
	return &FinishingService{partner: partnerClient}
}

// StyleData returns the finishing package for a style. It is a pure lookup:
// no upstream call, no side effects, identical output for identical input.
func (s *FinishingService) StyleData(style string) models.FinishingDataResult {
	if style == "" {
		style = "modern"
	}

	materials, ok := styleMaterials[style]
	if !ok {
		materials = styleMaterials["modern"]
	}
	suggestions, ok := styleSuggestions[style]
	if !ok {
		suggestions = styleSuggestions["modern"]
	}

	timeline := "2-4 weeks"
	if style == "luxury" {
		timeline = "4-6 weeks"
	}

	return models.FinishingDataResult{
		Success: true,
		Style:   style,
		Analysis: models.RoomAnalysis{
			RoomType:   "living room",
			Dimensions: "~20m²",
			Stage:      "unfinished",
		},
		Suggestions: suggestions,
		Materials:   materials,
		Timeline:    timeline,
	}
}

// Visualize issues the two upstream calls concurrently: the partner image
// transformation and the style-data lookup. Join semantics: both must
// complete, a failure in either surfaces as an error and no partial result
// is returned. Out-of-set styles pass through to the partner uninterpreted.
func (s *FinishingService) Visualize(ctx context.Context, up partner.Upload, style string) (*models.FinishingResult, error) {
	if style == "" {
		style = "modern"
	}

	var (
		wg           sync.WaitGroup
		transform    *partner.TransformResult
		transformErr error
		styleData    models.FinishingDataResult
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		transform, transformErr = s.partner.TransformImage(ctx, up, style)
	}()
	go func() {
		defer wg.Done()
		styleData = s.StyleData(style)
	}()
	wg.Wait()

	if transformErr != nil {
		log.Printf("❌ [finishing] image transformation failed: %v", transformErr)
		return nil, transformErr
	}

	resultStyle := transform.Style
	if resultStyle == "" {
		resultStyle = style
	}
	project := transform.Project
	if project == "" {
		project = "bunyan"
	}

	return &models.FinishingResult{
		Success:           true,
		GeneratedImageURL: transform.GeneratedImageURL,
		Style:             resultStyle,
		Project:           project,
		Analysis:          styleData.Analysis,
		Suggestions:       styleData.Suggestions,
		Materials:         styleData.Materials,
		Timeline:          styleData.Timeline,
	}, nil
}
