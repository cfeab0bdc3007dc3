package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"view-tracker/internal/domain"
)

// SampleRepository implements repository.SampleRepository for SQLite
type SampleRepository struct {
	db *DB
}

// NewSampleRepository creates a new SampleRepository
func NewSampleRepository(db *DB) *SampleRepository {
	return &SampleRepository{db: db}
}

// Append records a new sample. A sample with the same (video, timestamp)
// pair as an existing row is silently ignored so a poll retry never
// produces duplicates.
func (r *SampleRepository) Append(ctx context.Context, sample *domain.Sample) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO samples (id, video_id, date, timestamp, views, likes) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT (video_id, timestamp) DO NOTHING",
		sample.ID,
		sample.VideoID,
		sample.Date,
		sample.Timestamp,
		sample.Views,
		sample.Likes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}
	return nil
}

// Dates returns the distinct sample dates for a video, newest first
func (r *SampleRepository) Dates(ctx context.Context, videoID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT date FROM samples WHERE video_id = ? ORDER BY date DESC",
		videoID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sample dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan date: %w", err)
		}
		dates = append(dates, date)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dates: %w", err)
	}

	return dates, nil
}

// GetByDate returns a video's samples for a date in ascending timestamp order
func (r *SampleRepository) GetByDate(ctx context.Context, videoID, date string) ([]*domain.Sample, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, video_id, date, timestamp, views, likes FROM samples WHERE video_id = ? AND date = ? ORDER BY timestamp ASC",
		videoID,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []*domain.Sample
	for rows.Next() {
		var s domain.Sample
		if err := rows.Scan(&s.ID, &s.VideoID, &s.Date, &s.Timestamp, &s.Views, &s.Likes); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating samples: %w", err)
	}

	return samples, nil
}

// Latest returns the most recent sample for a video
func (r *SampleRepository) Latest(ctx context.Context, videoID string) (*domain.Sample, error) {
	var s domain.Sample
	err := r.db.QueryRowContext(ctx,
		"SELECT id, video_id, date, timestamp, views, likes FROM samples WHERE video_id = ? ORDER BY timestamp DESC LIMIT 1",
		videoID,
	).Scan(&s.ID, &s.VideoID, &s.Date, &s.Timestamp, &s.Views, &s.Likes)

	if err == sql.ErrNoRows {
		return nil, domain.ErrNoSamples
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest sample: %w", err)
	}

	return &s, nil
}

// DailyTotals sums the view gains per video for a date. Gains are derived
// from consecutive same-day samples, so the first sample of a day
// contributes nothing.
func (r *SampleRepository) DailyTotals(ctx context.Context, date, videoID string) ([]*domain.DailyTotal, error) {
	query := "SELECT video_id, views FROM samples WHERE date = ? ORDER BY video_id, timestamp ASC"
	args := []any{date}
	if videoID != "" {
		query = "SELECT video_id, views FROM samples WHERE date = ? AND video_id = ? ORDER BY video_id, timestamp ASC"
		args = append(args, videoID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples for totals: %w", err)
	}
	defer rows.Close()

	var totals []*domain.DailyTotal
	var current *domain.DailyTotal
	var prevViews int64

	for rows.Next() {
		var id string
		var views int64
		if err := rows.Scan(&id, &views); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}

		if current == nil || current.VideoID != id {
			current = &domain.DailyTotal{VideoID: id, Date: date}
			totals = append(totals, current)
		} else {
			current.TotalGain += views - prevViews
		}
		prevViews = views
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating samples: %w", err)
	}

	return totals, nil
}

// DeleteByVideo removes all samples for a video
func (r *SampleRepository) DeleteByVideo(ctx context.Context, videoID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM samples WHERE video_id = ?", videoID)
	if err != nil {
		return fmt.Errorf("failed to delete samples: %w", err)
	}
	return nil
}
