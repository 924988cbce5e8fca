// Package retry is the single retry/backoff utility shared by every
// external call site (embedding, LLM, platform send), so failure semantics
// stay consistent between components.
package retry

import (
	"context"
	"time"

	"ai-salesbot-be/internal/pkg/apperror"

	"github.com/cenkalti/backoff/v5"
)

type Config struct {
	MaxAttempts     int
	InitialInterval time.Duration
	CallTimeout     time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		CallTimeout:     15 * time.Second,
	}
}

// Do runs fn with a bounded per-attempt timeout and exponential backoff
// between attempts. When all attempts fail, the last error comes back as a
// typed upstream failure tagged with op.
func Do[T any](ctx context.Context, cfg Config, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultConfig().CallTimeout
	}

	operation := func() (T, error) {
		callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
		defer cancel()
		return fn(callCtx)
	}

	b := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		b.InitialInterval = cfg.InitialInterval
	}

	result, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(cfg.MaxAttempts)),
	)
	if err != nil {
		var zero T
		return zero, apperror.New(apperror.KindUpstream, op, err)
	}
	return result, nil
}
