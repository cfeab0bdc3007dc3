package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"view-tracker/internal/domain"
)

// VideoRepository implements repository.VideoRepository for SQLite
type VideoRepository struct {
	db *DB
}

// NewVideoRepository creates a new VideoRepository
func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a new tracked video
func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO videos (id, name, tracking, targetable, comparison_video_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		video.ID,
		video.Name,
		video.Tracking,
		video.Targetable,
		video.ComparisonVideoID,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}
	return nil
}

// GetByID retrieves a video by ID
func (r *VideoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	var video domain.Video
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, tracking, targetable, comparison_video_id, created_at, updated_at FROM videos WHERE id = ?",
		id,
	).Scan(
		&video.ID,
		&video.Name,
		&video.Tracking,
		&video.Targetable,
		&video.ComparisonVideoID,
		&video.CreatedAt,
		&video.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query video: %w", err)
	}

	return &video, nil
}

// List retrieves all videos ordered by name
func (r *VideoRepository) List(ctx context.Context) ([]*domain.Video, error) {
	return r.list(ctx, "SELECT id, name, tracking, targetable, comparison_video_id, created_at, updated_at FROM videos ORDER BY name")
}

// ListTracking retrieves videos the poller should sample, ordered by name
func (r *VideoRepository) ListTracking(ctx context.Context) ([]*domain.Video, error) {
	return r.list(ctx, "SELECT id, name, tracking, targetable, comparison_video_id, created_at, updated_at FROM videos WHERE tracking = 1 ORDER BY name")
}

func (r *VideoRepository) list(ctx context.Context, query string) ([]*domain.Video, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []*domain.Video
	for rows.Next() {
		var v domain.Video
		if err := rows.Scan(&v.ID, &v.Name, &v.Tracking, &v.Targetable, &v.ComparisonVideoID, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

// Update updates an existing video
func (r *VideoRepository) Update(ctx context.Context, video *domain.Video) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE videos SET name = ?, tracking = ?, targetable = ?, comparison_video_id = ?, updated_at = ? WHERE id = ?",
		video.Name,
		video.Tracking,
		video.Targetable,
		video.ComparisonVideoID,
		video.UpdatedAt,
		video.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a video. Its target spec is removed via the foreign key
// cascade; samples are removed by the caller through SampleRepository.
func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM videos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return nil
}
