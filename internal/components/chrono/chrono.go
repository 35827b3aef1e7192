// Package chrono is the clock of every component that paces or timestamps
// its work, tests swap it for a fake clock.
package chrono

import (
	"context"
	"time"
)

type TimeAPI interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done and returns ctx.Err() in the
	// latter case. A non-positive d does not block.
	Sleep(ctx context.Context, d time.Duration) error
}

// StandardTime is the wall clock.
type StandardTime struct{}

func NewStandardTime() StandardTime {
	return StandardTime{}
}

func (StandardTime) Now() time.Time {
	return time.Now()
}

func (StandardTime) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
