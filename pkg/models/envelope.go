package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind is the closed tag set of the AI response envelope. Every proxy
// operation answers with exactly one of these; new kinds are never invented
// silently.
type Kind string

const (
	KindText       Kind = "text"
	KindProducts   Kind = "products"
	KindComparison Kind = "comparison"
	KindBreakdown  Kind = "breakdown"
	KindScore      Kind = "score"
	KindDesign     Kind = "design"
	KindFinishing  Kind = "finishing"
	KindError      Kind = "error"
)

// Envelope is the normalized response structure returned to the client by
// every AI-backed route. It is a value type with no lifecycle beyond a single
// request/response cycle.
type Envelope struct {
	Kind    Kind        `json:"type"`
	Content string      `json:"content,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Decode errors. Callers treat any of them as an unparseable upstream
// response.
var (
	ErrUnknownKind    = errors.New("unknown envelope type")
	ErrMissingKind    = errors.New("envelope type is missing")
	ErrInvalidPayload = errors.New("invalid envelope payload")
)

// Product is one entry of a "products" payload.
type Product struct {
	Name     string  `json:"name"`
	Supplier string  `json:"supplier"`
	Price    float64 `json:"price"`
	Unit     string  `json:"unit"`
	EcoScore int     `json:"ecoScore"`
}

// ComparisonRow is one line of a "comparison" payload. Savings is always
// non-negative: it is the amount saved by moving from the current price to
// the optimized one.
type ComparisonRow struct {
	Item      string  `json:"item"`
	Current   float64 `json:"current"`
	Optimized float64 `json:"optimized"`
	Savings   float64 `json:"savings"`
}

// ComparisonSummary is the optional aggregate block of a "comparison"
// payload, as returned by the invoice marketplace analysis.
type ComparisonSummary struct {
	TotalInvoice     float64 `json:"totalInvoice"`
	TotalMarket      float64 `json:"totalMarket"`
	PotentialSavings float64 `json:"potentialSavings"`
}

// ComparisonData holds the rows and the optional summary. On the wire a
// summary-less comparison is a bare array of rows; with a summary it is an
// object with "items" and "summary" keys.
type ComparisonData struct {
	Items   []ComparisonRow
	Summary *ComparisonSummary
}

// MarshalJSON keeps the historical wire shape: a bare array unless a summary
// is present.
func (d ComparisonData) MarshalJSON() ([]byte, error) {
	if d.Summary == nil {
		return json.Marshal(d.Items)
	}
	return json.Marshal(struct {
		Items   []ComparisonRow    `json:"items"`
		Summary *ComparisonSummary `json:"summary"`
	}{d.Items, d.Summary})
}

// UnmarshalJSON accepts both wire shapes.
func (d *ComparisonData) UnmarshalJSON(raw []byte) error {
	var rows []ComparisonRow
	if err := json.Unmarshal(raw, &rows); err == nil {
		d.Items = rows
		d.Summary = nil
		return nil
	}
	var obj struct {
		Items   []ComparisonRow    `json:"items"`
		Summary *ComparisonSummary `json:"summary"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return err
	}
	d.Items = obj.Items
	d.Summary = obj.Summary
	return nil
}

// BreakdownItem is one category slice of a "breakdown" payload.
type BreakdownItem struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Color    string  `json:"color"`
}

// ScoreMetric is one label/value pair of a "score" payload.
type ScoreMetric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ScoreData is the payload of a "score" envelope.
type ScoreData struct {
	Score       int           `json:"score"`
	Rating      string        `json:"rating"`
	Description string        `json:"description"`
	Metrics     []ScoreMetric `json:"metrics"`
}

// DesignSpec is one label/value pair of a design spec sheet.
type DesignSpec struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DesignMaterial is one bill-of-materials line of a design.
type DesignMaterial struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// DesignData is the payload of a "design" envelope. Description is the
// model's textual image description; the gateway turns it into a concrete
// ImageURL before the envelope leaves the service layer.
type DesignData struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	Specs       []DesignSpec     `json:"specs"`
	Materials   []DesignMaterial `json:"materials,omitempty"`
}

// FinishingPayload is the payload of a "finishing" envelope.
type FinishingPayload struct {
	AfterImage  string                `json:"afterImage"`
	Style       string                `json:"style"`
	Analysis    *RoomAnalysis         `json:"analysis,omitempty"`
	Suggestions []FinishingSuggestion `json:"suggestions,omitempty"`
	Materials   []FinishingMaterial   `json:"materials,omitempty"`
}

// ErrorData is the payload of an "error" envelope.
type ErrorData struct {
	Message string `json:"message"`
}

// DecodeEnvelope parses raw JSON into a typed Envelope and validates the
// payload against the shape its tag promises. Regex extraction of the JSON
// from model output is best-effort; this is the strict gate behind it, so
// nothing that fails here is ever trusted.
func DecodeEnvelope(raw []byte) (*Envelope, error) {
	var probe struct {
		Kind    Kind            `json:"type"`
		Content string          `json:"content"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("envelope is not valid JSON: %w", err)
	}
	if probe.Kind == "" {
		return nil, ErrMissingKind
	}

	env := &Envelope{Kind: probe.Kind, Content: probe.Content}

	switch probe.Kind {
	case KindText:
		// No payload.

	case KindProducts:
		var items []Product
		if err := decodePayload(probe.Data, &items); err != nil {
			return nil, err
		}
		for _, p := range items {
			if p.Price < 0 {
				return nil, fmt.Errorf("%w: negative product price %.2f", ErrInvalidPayload, p.Price)
			}
			if p.EcoScore < 0 || p.EcoScore > 100 {
				return nil, fmt.Errorf("%w: ecoScore %d outside [0,100]", ErrInvalidPayload, p.EcoScore)
			}
		}
		env.Data = items

	case KindComparison:
		var data ComparisonData
		if err := decodePayload(probe.Data, &data); err != nil {
			return nil, err
		}
		for _, row := range data.Items {
			if row.Current < 0 || row.Optimized < 0 || row.Savings < 0 {
				return nil, fmt.Errorf("%w: negative comparison amount for %q", ErrInvalidPayload, row.Item)
			}
		}
		env.Data = data

	case KindBreakdown:
		var items []BreakdownItem
		if err := decodePayload(probe.Data, &items); err != nil {
			return nil, err
		}
		for _, item := range items {
			if item.Amount < 0 {
				return nil, fmt.Errorf("%w: negative breakdown amount for %q", ErrInvalidPayload, item.Category)
			}
		}
		env.Data = items

	case KindScore:
		var data ScoreData
		if err := decodePayload(probe.Data, &data); err != nil {
			return nil, err
		}
		if data.Score < 0 || data.Score > 100 {
			return nil, fmt.Errorf("%w: score %d outside [0,100]", ErrInvalidPayload, data.Score)
		}
		env.Data = data

	case KindDesign:
		var data DesignData
		if err := decodePayload(probe.Data, &data); err != nil {
			return nil, err
		}
		env.Data = data

	case KindFinishing:
		var data FinishingPayload
		if err := decodePayload(probe.Data, &data); err != nil {
			return nil, err
		}
		env.Data = data

	case KindError:
		var data ErrorData
		if err := decodePayload(probe.Data, &data); err != nil {
			return nil, err
		}
		env.Data = data

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, probe.Kind)
	}

	return env, nil
}

func decodePayload(raw json.RawMessage, dest interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: payload is missing", ErrInvalidPayload)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// TextEnvelope builds a plain text envelope.
func TextEnvelope(content string) Envelope {
	return Envelope{Kind: KindText, Content: content}
}

// ErrorEnvelope builds an error envelope with the given message.
func ErrorEnvelope(message string) Envelope {
	return Envelope{Kind: KindError, Content: message, Data: ErrorData{Message: message}}
}
