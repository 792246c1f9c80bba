package llm

import (
	"encoding/json"
	"testing"

	"menulens/internal/apperr"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{`1200`, 1200},
		{`850.5`, 850.5},
		{`"¥1,200"`, 1200},
		{`"680円"`, 680},
		{`"時価"`, 0},
		{`-500`, 0},
		{`"-500"`, 500},
		{`null`, 0},
		{``, 0},
	}

	for _, tc := range cases {
		if got := parsePrice(json.RawMessage(tc.raw)); got != tc.want {
			t.Errorf("parsePrice(%q): expected %v, got %v", tc.raw, tc.want, got)
		}
	}
}

func TestMapResponseClassification(t *testing.T) {
	cases := []struct {
		name      string
		raw       string
		code      apperr.Code
		retryable bool
	}{
		{"invalid json", `not json at all`, apperr.CodeMalformedResponse, true},
		{"missing items array", `{"confidence": 0.5}`, apperr.CodeMalformedResponse, true},
		{"empty items array", `{"items": []}`, apperr.CodeNoMenuItems, false},
		{"item without names", `{"items": [{"price": 500}]}`, apperr.CodeInvalidMenuItem, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mapResponse(tc.raw)
			if apperr.CodeOf(err) != tc.code {
				t.Fatalf("expected code %s, got %v", tc.code, err)
			}
			if apperr.IsRetryable(err) != tc.retryable {
				t.Fatalf("expected retryable=%v, got %v", tc.retryable, apperr.IsRetryable(err))
			}
		})
	}
}

func TestMapResponseDefaultsSpec(t *testing.T) {
	raw := `{"items": [{"name": "餃子", "translated_name": "煎餃", "variants": [{"price": 300}]}]}`

	result, err := mapResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := result.Items[0].Variants[0]
	if v.Spec != defaultSpec {
		t.Fatalf("missing spec must default to %q, got %q", defaultSpec, v.Spec)
	}
	if v.TaxStatus != "tax_included" {
		t.Fatalf("missing tax flag must default to tax_included, got %s", v.TaxStatus)
	}
}

func TestMapResponseDiscardsOutOfRangeConfidence(t *testing.T) {
	raw := `{"items": [{"name": "餃子", "translated_name": "煎餃", "price": 300}], "confidence": 1.7}`

	result, err := mapResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Confidence != nil {
		t.Fatalf("confidence outside [0,1] must be dropped, got %v", *result.Confidence)
	}
}
