package domain

import "time"

// Video represents a YouTube video being tracked for view counts
type Video struct {
	ID                string // YouTube video ID (11-character token)
	Name              string // Display name
	Tracking          bool   // Whether the poller records samples for this video
	Targetable        bool   // Whether a target spec may be set for this video
	ComparisonVideoID string // Optional video polled alongside for gain-ratio comparison
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Sample represents a single view-count observation recorded by the poller.
// Samples are append-only and never mutated once recorded.
type Sample struct {
	ID        string // Unique identifier
	VideoID   string
	Date      string // Calendar date in the configured zone, YYYY-MM-DD
	Timestamp time.Time
	Views     int64 // Absolute view count, non-negative
	Likes     int64
}

// SamplePoint is a sample enriched with gains derived from its neighbours
// on the same calendar date.
type SamplePoint struct {
	Sample
	ViewGain        int64   // Difference from the previous sample on the same day
	LikeGain        int64   // Like difference from the previous sample on the same day
	HourlyGain      int64   // Difference vs the newest sample at least one hour earlier
	RollingAvg      float64 // Mean view gain across the three most recent samples
	ViewLikeRatio   float64 // Views divided by likes, 0 when no likes
	ComparisonRatio float64 // Hourly gain relative to the comparison video's hourly gain
	HasComparison   bool    // Whether ComparisonRatio could be computed
}

// DaySeries holds one calendar date's samples in chronological ascending
// order. The dashboard lists days newest-first while charts consume the
// ascending points directly.
type DaySeries struct {
	Date   string
	Points []SamplePoint
}

// TargetSpec is a user-specified desired view count and deadline for a
// targetable video. Replaced wholesale on each submission.
type TargetSpec struct {
	VideoID     string
	TargetViews int64
	TargetTime  time.Time
	CreatedAt   time.Time
}

// TargetOutcome carries the result of a target submission or recomputation
// to the rendering layer. Projection and ErrorMessage are mutually
// exclusive: exactly one of them is set.
type TargetOutcome struct {
	VideoID      string
	Spec         *TargetSpec
	Projection   *Projection
	ErrorMessage string
}

// Projection is the output of the target rate projector.
type Projection struct {
	Rate       float64 // Required views per interval, rounded to 2 decimals
	RawRate    float64 // Unrounded rate for further computation
	Intervals  float64 // Remaining intervals until the target time
	AlreadyMet bool    // Target view count already reached; Rate is 0
}

// VideoView is the render model for one tracked video on the dashboard.
type VideoView struct {
	Video   *Video
	Days    []DaySeries // Descending by date
	Latest  *Sample     // Most recent sample, nil when none recorded yet
	Outcome *TargetOutcome
}

// DailyTotal is the summed view gain for one video on one date.
type DailyTotal struct {
	VideoID   string
	Date      string
	TotalGain int64
}

// VideoStats is a point-in-time statistics snapshot from the platform API.
type VideoStats struct {
	VideoID string
	Title   string
	Views   int64
	Likes   int64
}
