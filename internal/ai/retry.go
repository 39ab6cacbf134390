package ai

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

// RetryConfig bounds a retried upstream call.
type RetryConfig struct {
	MaxAttempts    uint
	AttemptTimeout time.Duration
	BaseDelay      time.Duration
}

// ImageRetryConfig is two attempts of 50s each, one second apart.
func ImageRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    2,
		AttemptTimeout: 50 * time.Second,
		BaseDelay:      time.Second,
	}
}

// WithRetry runs op under a per-attempt timeout and retries it with
// exponential backoff while the classified error is a rate limit or a
// timeout. Errors come back classified.
func WithRetry[T any](ctx context.Context, op string, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.BaseDelay
	b.RandomizationFactor = 0
	b.Multiplier = 2

	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, cfg.AttemptTimeout)
		defer cancel()

		v, err := fn(attemptCtx)
		if err == nil {
			return v, nil
		}
		err = Classify(op, err)
		if !Retryable(err) {
			return v, backoff.Permanent(err)
		}
		log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("Retryable upstream failure")
		return v, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(cfg.MaxAttempts))
}
