// Package ctxutil provides context helpers shared by the polling loops.
package ctxutil

import (
	"context"
	"time"
)

// Canceled checks if the context has been canceled or exceeded its deadline.
// Returns the context error if done (Canceled or DeadlineExceeded), nil
// otherwise. This is the entry-point cancellation check used throughout the
// codebase.
//
// The implementation directly returns ctx.Err() because it already returns
// nil if Done is not yet closed - no select with default case is needed.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// Sleep pauses for d or until the context is done, whichever comes first.
// Returns nil after a full pause and the context error when interrupted,
// so polling loops stay responsive to cancellation between attempts.
func Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
