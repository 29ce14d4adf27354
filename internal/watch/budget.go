// Package watch implements the bounded polling loops that gate a preview
// check run: waiting out the team's build pipeline and waiting for preview
// URLs to serve traffic.
// This file provides the shared retry budget.
package watch

import "time"

// Budget bounds a polling loop by total wait time and per-attempt interval.
// The same budget shape drives both deployment resolution and URL health
// polling, each with its own configured values.
type Budget struct {
	// MaxWait is the total time the loop may spend across all attempts.
	MaxWait time.Duration

	// Interval is the pause between attempts.
	Interval time.Duration
}

// Iterations returns the number of attempts that fit in the budget,
// truncating any fractional remainder. A non-positive MaxWait or Interval
// yields zero attempts, which the pollers surface as an immediate timeout.
func (b Budget) Iterations() int {
	if b.MaxWait <= 0 || b.Interval <= 0 {
		return 0
	}
	return int(b.MaxWait / b.Interval)
}
