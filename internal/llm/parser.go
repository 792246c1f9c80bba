package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"menulens/internal/apperr"
	"menulens/internal/menu"
)

// Result is a successfully validated parse response.
type Result struct {
	Items      []menu.LineItem
	Confidence *float64
}

// Wire shapes of the model response. Items is a pointer so a response
// that omits the array entirely (schema violation) is distinguishable
// from one that reports an empty array (nothing recognized).
type menuResponse struct {
	Items      *[]responseItem `json:"items"`
	Confidence *float64        `json:"confidence"`
}

type responseItem struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	TranslatedName string            `json:"translated_name"`
	Price          json.RawMessage   `json:"price"`
	Variants       []responseVariant `json:"variants"`
}

type responseVariant struct {
	Spec        string          `json:"spec"`
	Price       json.RawMessage `json:"price"`
	TaxIncluded *bool           `json:"tax_included"`
}

const defaultSpec = "regular"

// mapResponse validates the raw model output against the minimal schema
// and maps it into domain line items. Malformed JSON and a missing items
// array are classified retryable, since generative output glitches are
// often transient. An empty items array is a semantic failure, not a
// success.
func mapResponse(raw string) (Result, error) {
	var resp menuResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return Result{}, apperr.Wrap(
			apperr.CodeMalformedResponse,
			"model output is not valid JSON",
			"The menu could not be read. Please try again.",
			err,
		).AsRetryable()
	}

	if resp.Items == nil {
		return Result{}, apperr.New(
			apperr.CodeMalformedResponse,
			"model output is missing the items array",
			"The menu could not be read. Please try again.",
		).AsRetryable()
	}

	if len(*resp.Items) == 0 {
		return Result{}, apperr.New(
			apperr.CodeNoMenuItems,
			"no menu items recognized",
			"No menu items were found in this photo. Try a clearer picture.",
		)
	}

	items := make([]menu.LineItem, 0, len(*resp.Items))
	for i, ri := range *resp.Items {
		item, err := mapItem(ri)
		if err != nil {
			return Result{}, apperr.Wrap(
				apperr.CodeInvalidMenuItem,
				fmt.Sprintf("item %d failed structural checks", i),
				"Part of the menu could not be read. Try a clearer picture.",
				err,
			)
		}
		items = append(items, item)
	}

	confidence := resp.Confidence
	if confidence != nil && (*confidence < 0 || *confidence > 1) {
		confidence = nil
	}

	return Result{Items: items, Confidence: confidence}, nil
}

func mapItem(ri responseItem) (menu.LineItem, error) {
	id := ri.ID
	if id == "" {
		id = uuid.New().String()
	}

	var variants []menu.Variant
	for _, rv := range ri.Variants {
		spec := rv.Spec
		if spec == "" {
			spec = defaultSpec
		}
		v, err := menu.NewVariant(spec, parsePrice(rv.Price), taxStatus(rv.TaxIncluded))
		if err != nil {
			return menu.LineItem{}, err
		}
		variants = append(variants, v)
	}

	// Flat price fallback for responses without a variants array. An
	// unparseable price degrades to zero instead of failing the menu.
	if len(variants) == 0 {
		v, err := menu.NewVariant(defaultSpec, parsePrice(ri.Price), menu.TaxIncluded)
		if err != nil {
			return menu.LineItem{}, err
		}
		variants = []menu.Variant{v}
	}

	return menu.NewLineItem(id, ri.Name, ri.TranslatedName, variants)
}

func taxStatus(taxIncluded *bool) menu.TaxStatus {
	if taxIncluded != nil && !*taxIncluded {
		return menu.TaxExcluded
	}
	return menu.TaxIncluded
}

// parsePrice accepts a JSON number or a display string like "¥1,200"
// and returns its numeric value, or 0 when nothing parseable remains.
func parsePrice(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
