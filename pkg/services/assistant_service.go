package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"bunyan-api/pkg/llm"
	"bunyan-api/pkg/models"
)

// AssistantService runs the language-model-backed gateway operations. Every
// operation answers with a well-formed value: provider failures of any kind
// degrade to the deterministic mock catalog and never cross the transport
// boundary as errors.
type AssistantService struct {
	client *llm.Client
	images *llm.ImageComposer
}

// NewAssistantService creates a new assistant service around the injected
// provider clients.
func NewAssistantService(client *llm.Client, images *llm.ImageComposer) *AssistantService {
	return &AssistantService{
		client: client,
		images: images,
	}
}

// envelopeInstruction pins the model to the closed envelope tag set. The
// answer is still run through strict validation; this only raises the hit
// rate.
const envelopeInstruction = `You are the AI assistant of a construction procurement platform.
Answer ONLY with a single JSON object of the form {"type": ..., "content": ..., "data": ...}.
"type" must be one of: "text", "products", "comparison", "breakdown", "score", "design".
- text: no data field, the answer goes in "content".
- products: data is an array of {"name","supplier","price","unit","ecoScore"}.
- comparison: data is an array of {"item","current","optimized","savings"}.
- breakdown: data is an array of {"category","amount","color"}.
- score: data is {"score","rating","description","metrics":[{"label","value"}]}.
- design: data is {"title","description","specs":[{"label","value"}],"materials":[{"name","quantity","unit"}]}; "description" must describe the building for an image generator.
Do not invent other types. Prices and amounts are in EGP and non-negative.`

// Converse produces exactly one envelope for the user's chat message.
// chatContext is the client's opaque context value, forwarded verbatim into
// the prompt when present.
func (s *AssistantService) Converse(ctx context.Context, message string, chatContext json.RawMessage) models.Envelope {
	if !s.client.Configured() {
		log.Printf("⚠️ [chat] no provider configured, serving fallback")
		return MockEnvelope(message, s.images)
	}

	log.Printf("💬 [chat] forwarding message: %s", preview(message, 80))

	reply, err := s.client.Complete(ctx, buildConversePrompt(message, chatContext))
	if err != nil {
		log.Printf("❌ [chat] provider call failed, serving fallback: %v", err)
		return MockEnvelope(message, s.images)
	}

	env, err := decodeModelEnvelope(reply)
	if err != nil {
		log.Printf("❌ [chat] unparseable provider reply, serving fallback: %v", err)
		return MockEnvelope(message, s.images)
	}

	// finishing and error are reserved for the gateway's own paths; a model
	// answering with them is out of contract.
	if env.Kind == models.KindFinishing || env.Kind == models.KindError {
		log.Printf("❌ [chat] provider answered with reserved type %q, serving fallback", env.Kind)
		return MockEnvelope(message, s.images)
	}

	if env.Kind == models.KindDesign {
		s.enrichDesign(env)
	}

	log.Printf("✅ [chat] provider reply accepted (type=%s)", env.Kind)
	return *env
}

// GenerateDesign produces a full design object for the design studio. Same
// two-tier policy as Converse: one provider attempt, then the deterministic
// fallback design.
func (s *AssistantService) GenerateDesign(ctx context.Context, req models.DesignRequest) models.DesignResult {
	projectType := req.ProjectType
	if projectType == "" {
		projectType = "Building"
	}

	if s.client.Configured() {
		reply, err := s.client.Complete(ctx, buildDesignPrompt(projectType, req))
		if err == nil {
			var result models.DesignResult
			if jsonErr := json.Unmarshal([]byte(llm.ExtractJSONBlock(reply)), &result); jsonErr == nil && result.Title != "" {
				result.ID = designID()
				result.ImageURL = s.images.PromptURL(designPromptText(result))
				log.Printf("✅ [design] provider design accepted: %s", result.Title)
				return result
			}
			log.Printf("❌ [design] unparseable provider reply, serving fallback")
		} else {
			log.Printf("❌ [design] provider call failed, serving fallback: %v", err)
		}
	} else {
		log.Printf("⚠️ [design] no provider configured, serving fallback")
	}

	return s.fallbackDesign(projectType)
}

// fallbackDesign is the deterministic design returned when the provider
// cannot be used. The image URL is still a real generation URL so the client
// always gets something renderable.
func (s *AssistantService) fallbackDesign(projectType string) models.DesignResult {
	description := fmt.Sprintf("Sustainable %s with solar glass facade, green terraces and timber structure", projectType)
	return models.DesignResult{
		ID:          designID(),
		Title:       fmt.Sprintf("Eco-Optimized %s Design", projectType),
		Description: "AI-generated sustainable design optimized for minimal environmental impact",
		ImageURL:    s.images.PromptURL(description),
		Specs: []models.DesignSpec{
			{Label: "Energy Rating", Value: "A+"},
			{Label: "Solar Gain", Value: "-35%"},
			{Label: "Material Cost", Value: "SAR 890/m²"},
			{Label: "CO₂ Impact", Value: "-42%"},
		},
		Materials: []models.DesignMaterial{
			{Name: "SolarGlass Facade Panel", Quantity: 450, Unit: "m²"},
			{Name: "BioInsulate Pro R-30", Quantity: 800, Unit: "m²"},
			{Name: "EcoTimber CLT Panel", Quantity: 120, Unit: "m³"},
		},
		SustainabilityScore: 92,
		EstimatedCost:       2450000,
	}
}

// enrichDesign materializes an actual image for a design envelope. The text
// parse has already completed at this point; the composed URL replaces
// whatever the model put in imageUrl.
func (s *AssistantService) enrichDesign(env *models.Envelope) {
	data, ok := env.Data.(models.DesignData)
	if !ok {
		return
	}
	prompt := data.Description
	if prompt == "" {
		prompt = data.Title
	}
	if prompt == "" {
		prompt = "sustainable building design"
	}
	data.ImageURL = s.images.PromptURL(prompt)
	env.Data = data
}

// decodeModelEnvelope runs the parse policy: fenced block first, raw text
// second, both behind strict envelope validation.
func decodeModelEnvelope(reply string) (*models.Envelope, error) {
	return models.DecodeEnvelope([]byte(llm.ExtractJSONBlock(reply)))
}

func buildConversePrompt(message string, chatContext json.RawMessage) string {
	prompt := envelopeInstruction + "\n\n## User message\n" + message
	if len(chatContext) > 0 && string(chatContext) != "null" {
		prompt += "\n\n## Context\n" + string(chatContext)
	}
	return prompt
}

func buildDesignPrompt(projectType string, req models.DesignRequest) string {
	prompt := fmt.Sprintf(`You are the design engine of a construction platform.
Answer ONLY with a JSON object: {"title","description","specs":[{"label","value"}],"materials":[{"name","quantity","unit"}],"sustainabilityScore","estimatedCost"}.
"description" must describe the building for an image generator.

## Project type
%s`, projectType)
	if req.Requirements != "" {
		prompt += "\n\n## Requirements\n" + req.Requirements
	}
	if req.Sustainable {
		prompt += "\n\nPrioritize sustainable materials and passive energy design."
	}
	return prompt
}

func designPromptText(result models.DesignResult) string {
	if result.Description != "" {
		return result.Description
	}
	return result.Title
}

func designID() string {
	return fmt.Sprintf("design-%d", time.Now().UnixMilli())
}

// preview truncates on runes so multi-byte messages never log as mojibake.
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
