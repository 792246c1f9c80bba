package llm

import (
	"context"
	"errors"
	"time"

	"menulens/internal/apperr"
)

// Gateway is the core's boundary over the vision model: it validates
// preconditions, bounds each attempt with a timeout, retries transient
// failures per the policy and validates the response schema before
// mapping it into domain values. The collaborator behind Client is
// treated as unreliable and slow.
type Gateway struct {
	client Client
	policy RetryPolicy

	// swapped out by tests so retries don't actually wait
	sleep func(ctx context.Context, d time.Duration) error
}

func NewGateway(client Client, policy RetryPolicy) *Gateway {
	return &Gateway{client: client, policy: policy, sleep: sleepCtx}
}

// ParseImage runs the full parse contract. Precondition violations are
// caller bugs and fail immediately without retrying.
func (g *Gateway) ParseImage(ctx context.Context, imageBase64, language string) (Result, error) {
	if imageBase64 == "" {
		return Result{}, apperr.New(
			apperr.CodeEmptyImage,
			"empty image payload",
			"No image was provided.",
		)
	}
	if !SupportedLanguage(language) {
		return Result{}, apperr.New(
			apperr.CodeInvalidLanguage,
			"unsupported target language "+language,
			"This translation language is not supported.",
		)
	}

	var lastErr error
	for attempt := 0; attempt <= g.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := g.sleep(ctx, g.policy.Backoff(attempt-1)); err != nil {
				return Result{}, err
			}
		}

		result, err := g.parseOnce(ctx, imageBase64, language)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !apperr.IsRetryable(err) {
			return Result{}, err
		}
	}

	return Result{}, lastErr
}

// parseOnce races one attempt against the policy timeout. Cancelling
// the attempt context abandons the underlying call, so a response that
// arrives after the deadline is discarded rather than double-applied.
func (g *Gateway) parseOnce(ctx context.Context, imageBase64, language string) (Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.policy.AttemptTimeout)
	defer cancel()

	raw, err := g.client.ParseMenuImage(attemptCtx, imageBase64, language)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, apperr.Wrap(
				apperr.CodeUpstreamTimeout,
				"parse attempt timed out",
				"The menu service took too long. Please try again.",
				err,
			).AsRetryable()
		}
		return Result{}, err
	}

	return mapResponse(raw)
}
