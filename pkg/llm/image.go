package llm

import (
	"fmt"
	"net/url"
	"strings"
)

// styleSuffix is appended to every image prompt before encoding. It pushes
// the generator toward renderings that fit the product's visual language.
const styleSuffix = ", photorealistic, 8K, architectural visualization, golden hour lighting"

// ImageComposer builds generation URLs for the prompt-based image provider.
// The scheme needs no authentication; a token is attached only when a key is
// configured.
type ImageComposer struct {
	baseURL string
	apiKey  string
}

// NewImageComposer creates a composer for the given provider base URL.
func NewImageComposer(baseURL, apiKey string) *ImageComposer {
	return &ImageComposer{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// PromptURL turns a textual image description into a concrete generation
// URL. The prompt is URL-encoded, so the result is always a syntactically
// valid URL regardless of what the model wrote.
func (ic *ImageComposer) PromptURL(prompt string) string {
	encoded := url.PathEscape(prompt + styleSuffix)
	result := fmt.Sprintf("%s/prompt/%s?width=1024&height=768&model=flux-pro", ic.baseURL, encoded)
	if ic.apiKey != "" {
		result += "&token=" + url.QueryEscape(ic.apiKey)
	}
	return result
}
