package embed

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// WithTimeout bounds every Embed call so an unresponsive model cannot
// hang a request indefinitely.
func WithTimeout(inner Embedder, d time.Duration) Embedder {
	return &timeoutEmbedder{inner: inner, timeout: d}
}

type timeoutEmbedder struct {
	inner   Embedder
	timeout time.Duration
}

func (e *timeoutEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.inner.Embed(ctx, text)
}

func (e *timeoutEmbedder) Dimension() int { return e.inner.Dimension() }
func (e *timeoutEmbedder) ModelInfo() string { return e.inner.ModelInfo() }

// WithRetry retries failed Embed calls with exponential backoff and
// jitter, up to maxRetries extra attempts. Failures are not retried by
// default anywhere in the pipeline; callers opt in with this wrapper.
func WithRetry(inner Embedder, maxRetries int, base time.Duration) Embedder {
	if maxRetries <= 0 {
		return inner
	}
	return &retryEmbedder{inner: inner, maxRetries: uint64(maxRetries), base: base}
}

type retryEmbedder struct {
	inner      Embedder
	maxRetries uint64
	base       time.Duration
}

func (e *retryEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	backoff := retry.WithMaxRetries(e.maxRetries,
		retry.WithJitter(50*time.Millisecond, retry.NewExponential(e.base)))

	var vec []float32
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		v, callErr := e.inner.Embed(ctx, text)
		if callErr != nil {
			return retry.RetryableError(callErr)
		}
		vec = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}

func (e *retryEmbedder) Dimension() int { return e.inner.Dimension() }
func (e *retryEmbedder) ModelInfo() string { return e.inner.ModelInfo() }
