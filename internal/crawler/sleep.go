package crawler

import (
	"context"
	"time"
)

// Sleep blocks for d unless ctx ends first, reporting whether the full
// duration elapsed. Retriers swap this out in tests to record backoff.
func Sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	if ctx == nil {
		time.Sleep(d)
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
