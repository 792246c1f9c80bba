package llm

import "context"

// Client is one attempt against the vision model: it takes a base64
// image and a target language and returns the model's raw text output.
// Retry, timeout and schema validation live in the Gateway, not here.
type Client interface {
	ParseMenuImage(ctx context.Context, imageBase64 string, language string) (string, error)
}
