package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"view-tracker/internal/domain"
)

// TargetRepository implements repository.TargetRepository for SQLite
type TargetRepository struct {
	db *DB
}

// NewTargetRepository creates a new TargetRepository
func NewTargetRepository(db *DB) *TargetRepository {
	return &TargetRepository{db: db}
}

// Upsert stores a target spec, replacing any existing one for the video
func (r *TargetRepository) Upsert(ctx context.Context, spec *domain.TargetSpec) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO targets (video_id, target_views, target_time, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (video_id) DO UPDATE SET
			target_views = excluded.target_views,
			target_time = excluded.target_time,
			created_at = excluded.created_at
	`,
		spec.VideoID,
		spec.TargetViews,
		spec.TargetTime,
		spec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert target: %w", err)
	}
	return nil
}

// GetByVideoID returns a video's target spec
func (r *TargetRepository) GetByVideoID(ctx context.Context, videoID string) (*domain.TargetSpec, error) {
	var spec domain.TargetSpec
	err := r.db.QueryRowContext(ctx,
		"SELECT video_id, target_views, target_time, created_at FROM targets WHERE video_id = ?",
		videoID,
	).Scan(&spec.VideoID, &spec.TargetViews, &spec.TargetTime, &spec.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query target: %w", err)
	}

	return &spec, nil
}

// Delete removes a video's target spec
func (r *TargetRepository) Delete(ctx context.Context, videoID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM targets WHERE video_id = ?", videoID)
	if err != nil {
		return fmt.Errorf("failed to delete target: %w", err)
	}
	return nil
}
