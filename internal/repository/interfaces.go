package repository

import (
	"context"

	"view-tracker/internal/domain"
)

// VideoRepository handles tracked video persistence
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	GetByID(ctx context.Context, id string) (*domain.Video, error)
	List(ctx context.Context) ([]*domain.Video, error)
	ListTracking(ctx context.Context) ([]*domain.Video, error)
	Update(ctx context.Context, video *domain.Video) error
	Delete(ctx context.Context, id string) error
}

// SampleRepository handles append-only view samples
type SampleRepository interface {
	// Append records a new sample. Samples sharing a (video, timestamp)
	// pair with an existing row are silently ignored.
	Append(ctx context.Context, sample *domain.Sample) error

	// Dates returns the distinct sample dates for a video, newest first
	Dates(ctx context.Context, videoID string) ([]string, error)

	// GetByDate returns a video's samples for a date in ascending
	// timestamp order
	GetByDate(ctx context.Context, videoID, date string) ([]*domain.Sample, error)

	// Latest returns the most recent sample for a video, or
	// domain.ErrNoSamples when none exist
	Latest(ctx context.Context, videoID string) (*domain.Sample, error)

	// DailyTotals sums view gains per video for a date. videoID may be
	// empty to cover all videos.
	DailyTotals(ctx context.Context, date, videoID string) ([]*domain.DailyTotal, error)

	// DeleteByVideo removes all samples for a video
	DeleteByVideo(ctx context.Context, videoID string) error
}

// TargetRepository handles target spec persistence
type TargetRepository interface {
	// Upsert stores a target spec, replacing any existing one for the video
	Upsert(ctx context.Context, spec *domain.TargetSpec) error

	// GetByVideoID returns a video's target spec, or domain.ErrNotFound
	GetByVideoID(ctx context.Context, videoID string) (*domain.TargetSpec, error)

	// Delete removes a video's target spec
	Delete(ctx context.Context, videoID string) error
}
