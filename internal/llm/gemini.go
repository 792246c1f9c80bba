package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"menulens/internal/apperr"
)

type GeminiClient struct {
	apiKey string
	model  string
	http   *http.Client
}

// NewGeminiClient reads GEMINI_API_KEY and GEMINI_MODEL from the
// environment. The HTTP client carries no timeout of its own; each
// attempt is bounded by the gateway's context.
func NewGeminiClient() *GeminiClient {
	return &GeminiClient{
		apiKey: os.Getenv("GEMINI_API_KEY"),
		model:  os.Getenv("GEMINI_MODEL"),
		http:   &http.Client{},
	}
}

// ParseMenuImage sends the menu photo to Gemini and returns the model's
// raw text output, which must be JSON-only per the prompt.
func (g *GeminiClient) ParseMenuImage(ctx context.Context, imageBase64, language string) (string, error) {
	if g.apiKey == "" {
		return "", apperr.New(apperr.CodeInternal, "missing GEMINI_API_KEY", "")
	}
	if g.model == "" {
		return "", apperr.New(apperr.CodeInternal, "missing GEMINI_MODEL", "")
	}

	url := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		g.model,
		g.apiKey,
	)

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{
						"inline_data": map[string]string{
							"mime_type": sniffMimeType(imageBase64),
							"data":      imageBase64,
						},
					},
					{"text": BuildMenuPrompt(language)},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.2,
			"maxOutputTokens": 4096,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", apperr.Wrap(
			apperr.CodeUpstreamUnavailable,
			"gemini request failed",
			"The menu service is temporarily unavailable. Please try again.",
			err,
		).AsRetryable()
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Wrap(
			apperr.CodeUpstreamUnavailable,
			"reading gemini response failed",
			"The menu service is temporarily unavailable. Please try again.",
			err,
		).AsRetryable()
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, raw)
	}

	// Gemini response shape
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return "", apperr.Wrap(
			apperr.CodeMalformedResponse,
			"gemini response envelope is not valid JSON",
			"The menu could not be read. Please try again.",
			err,
		).AsRetryable()
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", apperr.New(
			apperr.CodeMalformedResponse,
			"empty gemini response",
			"The menu could not be read. Please try again.",
		).AsRetryable()
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// classifyStatus separates transient upstream trouble from definitive
// rejections: 5xx and 429 are worth retrying, auth and bad-request are
// not.
func classifyStatus(status int, raw []byte) error {
	e := apperr.Wrap(
		apperr.CodeUpstreamUnavailable,
		fmt.Sprintf("gemini api returned %d", status),
		"The menu service is temporarily unavailable. Please try again.",
		fmt.Errorf("%s", raw),
	)
	if status >= 500 || status == http.StatusTooManyRequests {
		return e.AsRetryable()
	}
	return e
}

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

// sniffMimeType inspects the first decoded bytes to pick the inline
// data mime type; anything that is not PNG is sent as JPEG.
func sniffMimeType(imageBase64 string) string {
	prefix := imageBase64
	if len(prefix) > 16 {
		prefix = prefix[:16]
	}
	decoded, err := base64.StdEncoding.WithPadding(base64.NoPadding).DecodeString(prefix[:len(prefix)/4*4])
	if err == nil && bytes.HasPrefix(decoded, pngMagic) {
		return "image/png"
	}
	return "image/jpeg"
}
