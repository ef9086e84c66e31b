// Package partner forwards uploaded files to the two bespoke partner HTTP
// services: invoice analysis and room-finish visualization. Files pass
// through byte-opaque; there is no local fallback for either service because
// no safe mock of their output exists.
package partner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Upload is one file received from the client, ready to be re-packaged as a
// multipart body.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// UpstreamError carries a partner's non-2xx answer so handlers can surface
// the upstream error text to the caller.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("partner API error (status %d): %s", e.Status, e.Body)
}

// TransformResult is the finish-visualization partner's answer.
type TransformResult struct {
	GeneratedImageURL string `json:"generated_image_url"`
	Style             string `json:"style"`
	Project           string `json:"project"`
}

// Client manages requests to the partner APIs. Both endpoints sit behind an
// ngrok tunnel and require the browser-warning bypass header.
type Client struct {
	invoiceURL string
	designURL  string
	httpClient *http.Client
}

// NewClient creates a partner API client with the given endpoints and
// per-call timeout.
func NewClient(invoiceURL, designURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		invoiceURL: invoiceURL,
		designURL:  designURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// AnalyzeInvoice forwards the uploaded bill to the invoice-analysis service
// and returns its JSON payload untouched. The caller layers its own success
// flag on top; nothing in the payload is reinterpreted here.
func (c *Client) AnalyzeInvoice(ctx context.Context, up Upload) (map[string]interface{}, error) {
	body, err := c.postMultipart(ctx, c.invoiceURL, up, nil)
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("invoice API returned invalid JSON: %w", err)
	}
	return result, nil
}

// TransformImage forwards the room photo plus the requested style to the
// finish-visualization service and returns the generated "after" image.
func (c *Client) TransformImage(ctx context.Context, up Upload, style string) (*TransformResult, error) {
	body, err := c.postMultipart(ctx, c.designURL, up, map[string]string{"style": style})
	if err != nil {
		return nil, err
	}

	var result TransformResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("design API returned invalid JSON: %w", err)
	}
	if result.GeneratedImageURL == "" {
		return nil, fmt.Errorf("design API answered without a generated image URL")
	}
	return &result, nil
}

// postMultipart re-packages the upload (plus any extra form fields) as a
// multipart body and executes the request.
func (c *Client) postMultipart(ctx context.Context, endpoint string, up Upload, fields map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(up.Name)))
	header.Set("Content-Type", partContentType(up))
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(up.Data); err != nil {
		return nil, fmt.Errorf("failed to write file part: %w", err)
	}

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %q: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build partner request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("ngrok-skip-browser-warning", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("partner request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read partner response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// partContentType prefers the content type the browser sent and falls back
// to sniffing the bytes. Uploads with no detectable type go out as JPEG,
// matching what the partner services default to anyway.
func partContentType(up Upload) string {
	if up.ContentType != "" {
		return up.ContentType
	}
	if detected := mimetype.Detect(up.Data); detected.String() != "application/octet-stream" {
		return detected.String()
	}
	return "image/jpeg"
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}
