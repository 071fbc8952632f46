package agent

import (
	"context"
	"errors"
	"math"
	"slices"
	"time"

	"sixhats/pkg/types"
)

// RetryDelay is the wait before the next attempt:
// initial_delay * exp_base^(attempt-1).
func RetryDelay(rc types.RetryConfig, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := rc.ExpBase
	if base < 1 {
		base = 1
	}
	return time.Duration(float64(rc.InitialDelay) * math.Pow(base, float64(attempt-1)))
}

// Retryable reports whether err is worth another attempt. Provider
// responses are retried only for the configured status codes; transport
// failures are always retried; a cancelled context never is.
func Retryable(err error, codes []int) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return slices.Contains(codes, apiErr.StatusCode)
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
