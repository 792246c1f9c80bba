package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"menulens/internal/apperr"
)

// fakeClient scripts one response per attempt.
type fakeClient struct {
	calls   int
	respond func(call int) (string, error)
}

func (f *fakeClient) ParseMenuImage(ctx context.Context, imageBase64, language string) (string, error) {
	f.calls++
	return f.respond(f.calls)
}

func retryableErr() error {
	return apperr.New(apperr.CodeUpstreamUnavailable, "upstream down", "try again").AsRetryable()
}

func testGateway(client Client) *Gateway {
	g := NewGateway(client, DefaultRetryPolicy())
	g.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return g
}

const validResponse = `{
	"items": [
		{
			"name": "唐揚げ",
			"translated_name": "唐揚雞",
			"variants": [
				{"spec": "單點", "price": 500, "tax_included": true},
				{"spec": "定食", "price": 800, "tax_included": true}
			]
		},
		{
			"name": "生ビール",
			"translated_name": "生啤酒",
			"price": "¥680"
		},
		{
			"id": "item_3",
			"name": "ラーメン",
			"translated_name": "拉麵",
			"variants": [{"spec": "並盛", "price": 850, "tax_included": false}]
		}
	],
	"confidence": 0.92
}`

func TestParseImageMapsValidResponse(t *testing.T) {
	client := &fakeClient{respond: func(int) (string, error) { return validResponse, nil }}
	g := testGateway(client)

	result, err := g.ParseImage(context.Background(), "aW1hZ2U=", LanguageZhTW)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected 1 call, got %d", client.calls)
	}
	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result.Items))
	}

	first := result.Items[0]
	if first.ID == "" {
		t.Fatal("missing upstream id must be generated")
	}
	if len(first.Variants) != 2 || first.Variants[0].Price != 500 {
		t.Fatalf("variants mapped wrong: %+v", first.Variants)
	}

	second := result.Items[1]
	if len(second.Variants) != 1 || second.Variants[0].Price != 680 {
		t.Fatalf("flat price string must become a single variant, got %+v", second.Variants)
	}

	third := result.Items[2]
	if third.ID != "item_3" {
		t.Fatalf("upstream id must be kept, got %q", third.ID)
	}
	if third.Variants[0].TaxStatus != "tax_excluded" {
		t.Fatalf("tax_included=false must map to tax_excluded, got %s", third.Variants[0].TaxStatus)
	}

	if result.Confidence == nil || *result.Confidence != 0.92 {
		t.Fatalf("confidence lost: %v", result.Confidence)
	}
}

func TestParseImageRetryBound(t *testing.T) {
	client := &fakeClient{respond: func(int) (string, error) { return "", retryableErr() }}
	g := testGateway(client)

	_, err := g.ParseImage(context.Background(), "aW1hZ2U=", LanguageZhTW)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}

	want := 1 + DefaultRetryPolicy().MaxRetries
	if client.calls != want {
		t.Fatalf("expected exactly %d attempts, got %d", want, client.calls)
	}
}

func TestParseImageDoesNotRetryNonRetryable(t *testing.T) {
	client := &fakeClient{respond: func(int) (string, error) {
		return "", apperr.New(apperr.CodeUpstreamUnavailable, "bad api key", "")
	}}
	g := testGateway(client)

	_, err := g.ParseImage(context.Background(), "aW1hZ2U=", LanguageZhTW)
	if err == nil {
		t.Fatal("expected error")
	}
	if client.calls != 1 {
		t.Fatalf("non-retryable failure must not be retried, got %d calls", client.calls)
	}
}

func TestParseImageBackoffSchedule(t *testing.T) {
	client := &fakeClient{respond: func(int) (string, error) { return "", retryableErr() }}
	g := NewGateway(client, DefaultRetryPolicy())

	var waits []time.Duration
	g.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	_, _ = g.ParseImage(context.Background(), "aW1hZ2U=", LanguageZhTW)

	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	if len(waits) != len(want) {
		t.Fatalf("expected %d backoffs, got %d", len(want), len(waits))
	}
	for i := range want {
		if waits[i] != want[i] {
			t.Fatalf("backoff %d: expected %v, got %v", i, want[i], waits[i])
		}
	}
}

func TestParseImageRejectsPreconditionsWithoutCalling(t *testing.T) {
	client := &fakeClient{respond: func(int) (string, error) { return validResponse, nil }}
	g := testGateway(client)

	if _, err := g.ParseImage(context.Background(), "", LanguageZhTW); apperr.CodeOf(err) != apperr.CodeEmptyImage {
		t.Fatalf("expected empty_image, got %v", err)
	}
	if _, err := g.ParseImage(context.Background(), "aW1hZ2U=", "fr"); apperr.CodeOf(err) != apperr.CodeInvalidLanguage {
		t.Fatalf("expected invalid_language, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("precondition violations must not reach the client, got %d calls", client.calls)
	}
}

func TestParseImageEmptyItemsIsFailure(t *testing.T) {
	client := &fakeClient{respond: func(int) (string, error) { return `{"items": []}`, nil }}
	g := testGateway(client)

	_, err := g.ParseImage(context.Background(), "aW1hZ2U=", LanguageEnglish)
	if apperr.CodeOf(err) != apperr.CodeNoMenuItems {
		t.Fatalf("expected no_menu_items, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("empty result must not be retried, got %d calls", client.calls)
	}
}

// A response missing the items array entirely is a schema violation
// and may be a transient formatting hiccup, so it is retried.
func TestParseImageRetriesSchemaViolation(t *testing.T) {
	client := &fakeClient{respond: func(call int) (string, error) {
		if call == 1 {
			return `{"menu": "not the schema"}`, nil
		}
		return validResponse, nil
	}}
	g := testGateway(client)

	result, err := g.ParseImage(context.Background(), "aW1hZ2U=", LanguageZhTW)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.calls != 2 {
		t.Fatalf("expected retry after schema violation, got %d calls", client.calls)
	}
	if len(result.Items) == 0 {
		t.Fatal("expected items from the retried attempt")
	}
}

func TestParseImageClassifiesTimeoutAsRetryable(t *testing.T) {
	client := &fakeClient{respond: func(call int) (string, error) {
		if call == 1 {
			return "", context.DeadlineExceeded
		}
		return validResponse, nil
	}}
	g := testGateway(client)

	_, err := g.ParseImage(context.Background(), "aW1hZ2U=", LanguageZhTW)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.calls != 2 {
		t.Fatalf("timeout must be retried, got %d calls", client.calls)
	}
}

func TestParseImageStopsWhenContextCancelled(t *testing.T) {
	client := &fakeClient{respond: func(int) (string, error) { return "", retryableErr() }}
	g := NewGateway(client, DefaultRetryPolicy())
	g.sleep = sleepCtx

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.ParseImage(ctx, "aW1hZ2U=", LanguageZhTW)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("cancelled context must stop retrying, got %d calls", client.calls)
	}
}
