package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider re-sends requests that failed transiently, waiting an
// exponentially growing, jittered delay between attempts.
type RetryProvider struct {
	inner  Provider
	config RetryConfig

	// OnRetry, if set, is told about each failed attempt before the wait.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// WithRetry wraps p. A MaxAttempts below one still makes a single attempt.
func WithRetry(p Provider, cfg RetryConfig) *RetryProvider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	schemaRetryUsed := false

	var err error
	for attempt := 1; ; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt == attempts || !Retryable(err) {
			return nil, err
		}

		// A reply that fails the schema is worth one more try, not more.
		var invalid *ErrInvalidResponse
		if errors.As(err, &invalid) {
			if schemaRetryUsed {
				return nil, err
			}
			schemaRetryUsed = true
		}

		wait := r.config.delay(attempt, err)
		if r.OnRetry != nil {
			r.OnRetry(attempt, wait, err)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// delay is the wait after the given 1-based attempt failed with err. A
// rate limit that names its own RetryAfter wins over the backoff curve.
func (c RetryConfig) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	multiplier := c.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	wait := float64(c.InitialWait) * math.Pow(multiplier, float64(attempt-1))
	if c.MaxWait > 0 {
		wait = math.Min(wait, float64(c.MaxWait))
	}

	wait *= 0.8 + 0.4*rand.Float64() // ±20%
	return time.Duration(wait)
}
