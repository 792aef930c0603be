package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// TokenLimiter bounds the number of model tokens consumed per minute.
type TokenLimiter struct {
	limiter      *rate.Limiter
	maxPerMinute int
}

// NewTokenLimiter creates a limiter that refills maxTokenPerMinute tokens
// over each minute with a burst of the full budget.
func NewTokenLimiter(maxTokenPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		limiter:      rate.NewLimiter(rate.Limit(float64(maxTokenPerMinute)/60.0), maxTokenPerMinute),
		maxPerMinute: maxTokenPerMinute,
	}
}

// Wait blocks until the given number of tokens is available. Requests larger
// than the per-minute budget are clamped so they can still eventually pass.
func (t *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	if tokens > t.maxPerMinute {
		tokens = t.maxPerMinute
	}
	if tokens <= 0 {
		return nil
	}
	return t.limiter.WaitN(ctx, tokens)
}

// GetRemaining reports the tokens currently available.
func (t *TokenLimiter) GetRemaining() int {
	return int(t.limiter.Tokens())
}
