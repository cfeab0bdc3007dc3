// Package projection computes the view-gain rate required to reach a
// target view count by a deadline. The computation is a pure function of
// its inputs: no clock reads, no shared state, no side effects.
package projection

import (
	"fmt"
	"math"
	"time"

	"view-tracker/internal/domain"
)

// DefaultInterval is the fixed interval the required rate is expressed in.
const DefaultInterval = 5 * time.Minute

// Project computes the required view gain per interval to grow from
// currentViews to targetViews between now and targetTime.
//
// targetViews must be positive and targetTime strictly after now; violating
// either returns domain.ErrInvalidTarget wrapped with a displayable message.
// A target that is already met (currentViews >= targetViews) is a distinct
// zero-rate success, not an error.
func Project(currentViews int64, now time.Time, targetViews int64, targetTime time.Time, interval time.Duration) (*domain.Projection, error) {
	if targetViews <= 0 {
		return nil, fmt.Errorf("%w: target views must be a positive integer", domain.ErrInvalidTarget)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive", domain.ErrInvalidTarget)
	}
	if !targetTime.After(now) {
		return nil, fmt.Errorf("%w: target time has passed or is too close", domain.ErrInvalidTarget)
	}

	intervals := targetTime.Sub(now).Minutes() / interval.Minutes()
	if intervals <= 0 {
		return nil, fmt.Errorf("%w: target time has passed or is too close", domain.ErrInvalidTarget)
	}

	remaining := targetViews - currentViews
	if remaining <= 0 {
		return &domain.Projection{
			Rate:       0,
			RawRate:    0,
			Intervals:  intervals,
			AlreadyMet: true,
		}, nil
	}

	raw := float64(remaining) / intervals
	return &domain.Projection{
		Rate:      Round2(raw),
		RawRate:   raw,
		Intervals: intervals,
	}, nil
}

// Round2 rounds to two decimal places, half up. Rates are non-negative so
// half away from zero coincides with half up.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
