package services

import (
	"strings"

	"bunyan-api/pkg/llm"
	"bunyan-api/pkg/models"
)

// demoSuffix is appended to every fallback content string so clients can
// signal degraded service to the end user.
const demoSuffix = "\n\n_⚠️ Demo mode - AI provider unavailable._"

// MockEnvelope selects a deterministic substitute envelope by keyword
// matching against the user's message. Case-insensitive substring tests run
// against a fixed ordered list of keyword sets; the first match wins. This
// path must never fail: it is what the gateway answers with when the
// provider is down, unconfigured, or unparseable.
func MockEnvelope(message string, images *llm.ImageComposer) models.Envelope {
	lower := strings.ToLower(message)

	contains := func(keywords ...string) bool {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("material", "steel", "find", "مواد"):
		return models.Envelope{
			Kind:    models.KindProducts,
			Content: "I found eco-certified alternatives for your requirement:" + demoSuffix,
			Data: []models.Product{
				{Name: "EcoSteel Rebar Grade 60", Supplier: "GreenSteel Arabia", Price: 3200, Unit: "ton", EcoScore: 92},
				{Name: "RecyBar Premium HR500", Supplier: "Arabian Steel Co.", Price: 3450, Unit: "ton", EcoScore: 88},
				{Name: "GreenForce Rebar G60", Supplier: "Emirates Steel", Price: 3100, Unit: "ton", EcoScore: 85},
			},
		}

	case contains("bill", "scan", "compare", "فاتورة"):
		return models.Envelope{
			Kind:    models.KindComparison,
			Content: "Bill analysis complete. Here are the optimization opportunities:" + demoSuffix,
			Data: models.ComparisonData{
				Items: []models.ComparisonRow{
					{Item: "Steel Rebar", Current: 384000, Optimized: 342000, Savings: 42000},
					{Item: "Concrete Mix", Current: 225000, Optimized: 198000, Savings: 27000},
					{Item: "Insulation", Current: 156000, Optimized: 139000, Savings: 17000},
				},
			},
		}

	case contains("cost", "budget", "breakdown", "تكلفة"):
		return models.Envelope{
			Kind:    models.KindBreakdown,
			Content: "Here is the cost breakdown analysis:" + demoSuffix,
			Data: []models.BreakdownItem{
				{Category: "Structural Materials", Amount: 4200000, Color: "#102a4e"},
				{Category: "MEP Systems", Amount: 1850000, Color: "#2e8c58"},
				{Category: "Finishing", Amount: 1200000, Color: "#3b82f6"},
				{Category: "Labor", Amount: 950000, Color: "#f59e0b"},
			},
		}

	case contains("sustain", "eco", "green", "بيئ"):
		return models.Envelope{
			Kind:    models.KindScore,
			Content: "Sustainability assessment complete:" + demoSuffix,
			Data: models.ScoreData{
				Score:       94,
				Rating:      "Exceptional",
				Description: "Top 5% of projects in the region",
				Metrics: []models.ScoreMetric{
					{Label: "CO₂ Saved", Value: "890t"},
					{Label: "Waste ↓", Value: "2.8%"},
					{Label: "Recycled", Value: "72%"},
				},
			},
		}

	case contains("design", "generate", "image", "تصميم"):
		return models.Envelope{
			Kind:    models.KindDesign,
			Content: "Here is a sustainable design concept for your project:" + demoSuffix,
			Data: models.DesignData{
				Title:       "Eco-Optimized Building Design",
				Description: "Modern sustainable building with solar glass facade and green terraces",
				ImageURL:    images.PromptURL("Modern sustainable building with solar glass facade and green terraces"),
				Specs: []models.DesignSpec{
					{Label: "Energy Rating", Value: "A+"},
					{Label: "Solar Gain", Value: "-35%"},
					{Label: "CO₂ Impact", Value: "-42%"},
				},
			},
		}

	default:
		return models.TextEnvelope(
			"I can help with material sourcing, bill analysis, cost optimization, and sustainability reports. What would you like to explore?" + demoSuffix)
	}
}
