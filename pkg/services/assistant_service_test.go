package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"bunyan-api/pkg/llm"
	"bunyan-api/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider spins up a chat provider that always answers with the given
// reply text.
func fakeProvider(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body, err := json.Marshal(map[string]string{"response": reply})
		require.NoError(t, err)
		w.Write(body)
	}))
}

func newTestAssistant(endpoint string) *AssistantService {
	client := llm.NewClient(endpoint, "", 5*time.Second)
	return NewAssistantService(client, testImages())
}

func TestConverseUnconfiguredProviderFallsBack(t *testing.T) {
	svc := newTestAssistant("")

	env := svc.Converse(context.Background(), "find eco materials", nil)

	assert.Equal(t, models.KindProducts, env.Kind)
	assert.Contains(t, env.Content, "Demo mode")
}

func TestConverseAcceptsFencedEnvelope(t *testing.T) {
	reply := "Sure, here you go:\n```json\n{\"type\":\"products\",\"content\":\"Found two options:\",\"data\":[{\"name\":\"EcoSteel\",\"supplier\":\"GreenSteel\",\"price\":3200,\"unit\":\"ton\",\"ecoScore\":92}]}\n```"
	server := fakeProvider(t, reply)
	defer server.Close()

	svc := newTestAssistant(server.URL)
	env := svc.Converse(context.Background(), "find steel", nil)

	assert.Equal(t, models.KindProducts, env.Kind)
	assert.Equal(t, "Found two options:", env.Content)
	assert.NotContains(t, env.Content, "Demo mode")
}

func TestConverseAcceptsRawJSONEnvelope(t *testing.T) {
	server := fakeProvider(t, `{"type":"text","content":"Concrete prices rose 4% this month."}`)
	defer server.Close()

	svc := newTestAssistant(server.URL)
	env := svc.Converse(context.Background(), "how are concrete prices?", nil)

	assert.Equal(t, models.KindText, env.Kind)
	assert.Equal(t, "Concrete prices rose 4% this month.", env.Content)
}

func TestConverseUnparseableReplyFallsBack(t *testing.T) {
	server := fakeProvider(t, "I'm afraid I can only answer in prose today.")
	defer server.Close()

	svc := newTestAssistant(server.URL)
	env := svc.Converse(context.Background(), "scan my bill please", nil)

	// Keyword routing still applies on the fallback path.
	assert.Equal(t, models.KindComparison, env.Kind)
	assert.Contains(t, env.Content, "Demo mode")
}

func TestConverseInvalidPayloadFallsBack(t *testing.T) {
	// Well-formed JSON, invalid payload: ecoScore out of range.
	server := fakeProvider(t, `{"type":"products","content":"x","data":[{"name":"a","price":1,"ecoScore":250}]}`)
	defer server.Close()

	svc := newTestAssistant(server.URL)
	env := svc.Converse(context.Background(), "hello", nil)

	assert.Equal(t, models.KindText, env.Kind)
	assert.Contains(t, env.Content, "Demo mode")
}

func TestConverseReservedKindFallsBack(t *testing.T) {
	server := fakeProvider(t, `{"type":"error","content":"boom","data":{"message":"boom"}}`)
	defer server.Close()

	svc := newTestAssistant(server.URL)
	env := svc.Converse(context.Background(), "hello", nil)

	assert.NotEqual(t, models.KindError, env.Kind)
	assert.Contains(t, env.Content, "Demo mode")
}

func TestConverseProviderDownFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer server.Close()

	svc := newTestAssistant(server.URL)
	env := svc.Converse(context.Background(), "find steel", nil)

	assert.Equal(t, models.KindProducts, env.Kind)
}

func TestConverseEnrichesDesignImage(t *testing.T) {
	server := fakeProvider(t, `{"type":"design","content":"Here is a concept.","data":{"title":"Green Tower","description":"a slim glass tower with hanging gardens","specs":[{"label":"Energy Rating","value":"A+"}]}}`)
	defer server.Close()

	svc := newTestAssistant(server.URL)
	env := svc.Converse(context.Background(), "design a tower", nil)

	require.Equal(t, models.KindDesign, env.Kind)
	data, ok := env.Data.(models.DesignData)
	require.True(t, ok)
	assert.NotEmpty(t, data.ImageURL)
	assert.NotContains(t, data.ImageURL, " ")
	assert.Contains(t, data.ImageURL, "model=flux-pro")
}

func TestConverseForwardsObjectContextToProvider(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req["message"]
		body, err := json.Marshal(map[string]string{"response": `{"type":"text","content":"Looks like a site photo."}`})
		require.NoError(t, err)
		w.Write(body)
	}))
	defer server.Close()

	svc := newTestAssistant(server.URL)
	env := svc.Converse(context.Background(), "what is in this photo?",
		json.RawMessage(`{"hasImage":true,"imageType":"image/png"}`))

	assert.Equal(t, models.KindText, env.Kind)
	assert.Contains(t, gotPrompt, `"hasImage":true`)
	assert.Contains(t, gotPrompt, "what is in this photo?")
}

func TestConverseKindAlwaysInClosedSet(t *testing.T) {
	svc := newTestAssistant("")
	allowed := map[models.Kind]bool{
		models.KindText: true, models.KindProducts: true, models.KindComparison: true,
		models.KindBreakdown: true, models.KindScore: true, models.KindDesign: true,
	}

	for _, message := range []string{"find steel", "my bill", "budget", "eco", "design", "completely unrelated", "؟؟؟", "   "} {
		env := svc.Converse(context.Background(), message, nil)
		assert.True(t, allowed[env.Kind], "message %q produced kind %q", message, env.Kind)
	}
}

func TestPreviewKeepsMultibyteRunesIntact(t *testing.T) {
	message := strings.Repeat("فاتورة ", 30)

	out := preview(message, 80)

	assert.True(t, utf8.ValidString(out))
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.Equal(t, "مرحبا", preview("مرحبا", 80))
}

func TestGenerateDesignFallback(t *testing.T) {
	svc := newTestAssistant("")

	result := svc.GenerateDesign(context.Background(), models.DesignRequest{ProjectType: "Warehouse"})

	assert.Equal(t, "Eco-Optimized Warehouse Design", result.Title)
	assert.NotEmpty(t, result.ID)
	assert.NotContains(t, result.ImageURL, " ")
	assert.Equal(t, 92, result.SustainabilityScore)
	assert.Equal(t, float64(2450000), result.EstimatedCost)
	assert.Len(t, result.Materials, 3)
}

func TestGenerateDesignFromProvider(t *testing.T) {
	server := fakeProvider(t, "```json\n{\"title\":\"Courtyard House\",\"description\":\"a courtyard house with mashrabiya screens\",\"specs\":[{\"label\":\"Energy Rating\",\"value\":\"A\"}],\"materials\":[{\"name\":\"CLT Panel\",\"quantity\":80,\"unit\":\"m³\"}],\"sustainabilityScore\":88,\"estimatedCost\":1200000}\n```")
	defer server.Close()

	svc := newTestAssistant(server.URL)
	result := svc.GenerateDesign(context.Background(), models.DesignRequest{ProjectType: "Residential", Sustainable: true})

	assert.Equal(t, "Courtyard House", result.Title)
	assert.NotEmpty(t, result.ID)
	assert.NotContains(t, result.ImageURL, " ")
	assert.Contains(t, result.ImageURL, "image.pollinations.ai")
}
