package domain

import (
	"context"
	"time"
)

// VideoService manages the set of tracked videos.
// Videos are created from user-submitted URLs and destroyed on explicit
// removal; removing a video also removes its samples and target spec.
type VideoService interface {
	// AddVideo registers a video for tracking. rawURL may be a full
	// YouTube URL or a bare 11-character video ID. When name is empty the
	// video title is fetched from the platform.
	AddVideo(ctx context.Context, rawURL, name string) (*Video, error)

	// GetVideo retrieves a tracked video by ID
	GetVideo(ctx context.Context, id string) (*Video, error)

	// ListVideos retrieves all tracked videos ordered by name
	ListVideos(ctx context.Context) ([]*Video, error)

	// RemoveVideo stops tracking a video and deletes its recorded data
	RemoveVideo(ctx context.Context, id string) error

	// SetTracking enables or disables polling for a video
	SetTracking(ctx context.Context, id string, tracking bool) error

	// SetTargetable enables or disables target submissions for a video
	SetTargetable(ctx context.Context, id string, targetable bool) error

	// SetComparison sets or clears the comparison video polled alongside
	SetComparison(ctx context.Context, id, comparisonID string) error
}

// SeriesService derives per-day gain series from recorded samples.
type SeriesService interface {
	// BuildVideoView assembles the full render model for one video:
	// day series (days descending, samples ascending within each day),
	// the latest sample, and the current target outcome.
	BuildVideoView(ctx context.Context, video *Video) (*VideoView, error)

	// DaySamples returns the enriched points for one video and date in
	// chronological ascending order
	DaySamples(ctx context.Context, videoID, date string) ([]SamplePoint, error)
}

// TargetService manages target specs and rate projections.
// A submission either yields a projection or a validation message, never
// both; the outcome is returned to the caller rather than stored as
// ambient request state.
type TargetService interface {
	// SubmitTarget validates and stores a new target spec for a
	// targetable video, replacing any existing one
	SubmitTarget(ctx context.Context, videoID string, targetViews int64, targetTime time.Time) *TargetOutcome

	// CurrentOutcome recomputes the projection for a video's stored
	// target against its latest sample. Returns nil when no target is set.
	CurrentOutcome(ctx context.Context, videoID string) *TargetOutcome

	// ClearTarget removes a video's target spec
	ClearTarget(ctx context.Context, videoID string) error
}

// StatsService aggregates recorded samples.
type StatsService interface {
	// DailyTotals returns the total view gain per video for a date.
	// When videoID is non-empty the result is restricted to that video.
	DailyTotals(ctx context.Context, date, videoID string) ([]DailyTotal, error)
}

// StatsAdapter abstracts the platform statistics API
type StatsAdapter interface {
	// GetVideoStats fetches current statistics for the given videos,
	// batching the underlying API calls as needed
	GetVideoStats(ctx context.Context, videoIDs []string) (map[string]*VideoStats, error)
}
