package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bunyan-api/pkg/partner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFinishing(invoiceURL, designURL string) *FinishingService {
	return NewFinishingService(partner.NewClient(invoiceURL, designURL, 5*time.Second))
}

func TestStyleDataKnownStyles(t *testing.T) {
	svc := newTestFinishing("", "")

	for _, style := range []string{"modern", "luxury", "classic"} {
		result := svc.StyleData(style)
		assert.True(t, result.Success)
		assert.Equal(t, style, result.Style)
		assert.Len(t, result.Materials, 4)
		assert.Len(t, result.Suggestions, 4)
		assert.NotEmpty(t, result.Timeline)
	}

	assert.Equal(t, "4-6 weeks", svc.StyleData("luxury").Timeline)
	assert.Equal(t, "2-4 weeks", svc.StyleData("modern").Timeline)
	assert.Equal(t, "2-4 weeks", svc.StyleData("classic").Timeline)
}

func TestStyleDataUnknownStyleFallsBackToModern(t *testing.T) {
	svc := newTestFinishing("", "")

	result := svc.StyleData("brutalist")

	// The requested style is echoed, the package is the modern one.
	assert.Equal(t, "brutalist", result.Style)
	assert.Equal(t, styleMaterials["modern"], result.Materials)
}

func TestStyleDataDefaultsToModern(t *testing.T) {
	svc := newTestFinishing("", "")
	assert.Equal(t, "modern", svc.StyleData("").Style)
}

func TestStyleDataIdempotent(t *testing.T) {
	svc := newTestFinishing("", "")

	first, err := json.Marshal(svc.StyleData("luxury"))
	require.NoError(t, err)
	second, err := json.Marshal(svc.StyleData("luxury"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestVisualizeMergesImageAndStyleData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generated_image_url":"https://cdn.example.com/after.jpg","style":"luxury","project":"bunyan"}`))
	}))
	defer server.Close()

	svc := newTestFinishing(server.URL, server.URL)
	result, err := svc.Visualize(context.Background(), partner.Upload{Name: "room.jpg", Data: []byte("x")}, "luxury")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "https://cdn.example.com/after.jpg", result.GeneratedImageURL)
	assert.Equal(t, "luxury", result.Style)
	assert.Equal(t, "bunyan", result.Project)
	assert.Equal(t, styleMaterials["luxury"], result.Materials)
	assert.Equal(t, "4-6 weeks", result.Timeline)
	assert.Equal(t, "living room", result.Analysis.RoomType)
}

func TestVisualizeFailsWhenImageCallFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusBadGateway)
	}))
	defer server.Close()

	svc := newTestFinishing(server.URL, server.URL)
	result, err := svc.Visualize(context.Background(), partner.Upload{Name: "room.jpg", Data: []byte("x")}, "modern")

	// Join semantics: no partial result with a missing after-image.
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestVisualizeDefaultsStyle(t *testing.T) {
	var gotStyle string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotStyle = r.FormValue("style")
		w.Write([]byte(`{"generated_image_url":"https://cdn.example.com/a.jpg"}`))
	}))
	defer server.Close()

	svc := newTestFinishing(server.URL, server.URL)
	result, err := svc.Visualize(context.Background(), partner.Upload{Name: "room.jpg", Data: []byte("x")}, "")
	require.NoError(t, err)

	assert.Equal(t, "modern", gotStyle)
	assert.Equal(t, "modern", result.Style)
	// The partner answered without a project name; the gateway fills in the
	// platform default.
	assert.Equal(t, "bunyan", result.Project)
}
