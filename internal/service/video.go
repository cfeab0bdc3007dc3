package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"view-tracker/internal/adapter"
	"view-tracker/internal/domain"
	"view-tracker/internal/logger"
	"view-tracker/internal/repository"
)

// timeNow is a variable for testing purposes
var timeNow = time.Now

// videoService implements the VideoService interface
type videoService struct {
	videoRepo  repository.VideoRepository
	sampleRepo repository.SampleRepository
	targetRepo repository.TargetRepository
	stats      domain.StatsAdapter
	logger     *logger.Logger
}

// NewVideoService creates a new VideoService instance
func NewVideoService(
	videoRepo repository.VideoRepository,
	sampleRepo repository.SampleRepository,
	targetRepo repository.TargetRepository,
	stats domain.StatsAdapter,
) domain.VideoService {
	return &videoService{
		videoRepo:  videoRepo,
		sampleRepo: sampleRepo,
		targetRepo: targetRepo,
		stats:      stats,
		logger:     logger.Default(),
	}
}

// AddVideo registers a video for tracking from a URL or bare video ID.
// When no display name is given the video title is fetched from the
// platform; a fetch failure falls back to the ID so adding still succeeds.
func (s *videoService) AddVideo(ctx context.Context, rawURL, name string) (*domain.Video, error) {
	id, err := adapter.ParseVideoID(rawURL)
	if err != nil {
		return nil, err
	}

	existing, err := s.videoRepo.GetByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing video: %w", err)
	}
	if existing != nil {
		return nil, domain.NewUserFriendlyError(
			fmt.Errorf("%w: %s", domain.ErrDuplicate, id),
			"That video is already being tracked.",
			http.StatusConflict,
		)
	}

	if name == "" {
		stats, err := s.stats.GetVideoStats(ctx, []string{id})
		if err != nil {
			s.logger.Warn("Could not fetch title for new video", map[string]interface{}{
				"video_id": id,
				"error":    err.Error(),
			})
		} else if st, ok := stats[id]; ok {
			name = st.Title
		}
		if name == "" {
			name = id
		}
	}

	now := timeNow()
	video := &domain.Video{
		ID:        id,
		Name:      name,
		Tracking:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	s.logger.Info("Video added", map[string]interface{}{
		"video_id": id,
		"name":     name,
	})

	return video, nil
}

// GetVideo retrieves a tracked video by ID
func (s *videoService) GetVideo(ctx context.Context, id string) (*domain.Video, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: video ID cannot be empty", domain.ErrInvalidInput)
	}
	return s.videoRepo.GetByID(ctx, id)
}

// ListVideos retrieves all tracked videos ordered by name
func (s *videoService) ListVideos(ctx context.Context) ([]*domain.Video, error) {
	return s.videoRepo.List(ctx)
}

// RemoveVideo stops tracking a video and deletes its samples and target
func (s *videoService) RemoveVideo(ctx context.Context, id string) error {
	if _, err := s.videoRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.sampleRepo.DeleteByVideo(ctx, id); err != nil {
		return fmt.Errorf("failed to delete samples: %w", err)
	}
	if err := s.targetRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete target: %w", err)
	}
	if err := s.videoRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	s.logger.Info("Video removed", map[string]interface{}{"video_id": id})
	return nil
}

// SetTracking enables or disables polling for a video
func (s *videoService) SetTracking(ctx context.Context, id string, tracking bool) error {
	return s.updateVideo(ctx, id, func(v *domain.Video) {
		v.Tracking = tracking
	})
}

// SetTargetable enables or disables target submissions for a video.
// Disabling removes any stored target spec.
func (s *videoService) SetTargetable(ctx context.Context, id string, targetable bool) error {
	if err := s.updateVideo(ctx, id, func(v *domain.Video) {
		v.Targetable = targetable
	}); err != nil {
		return err
	}

	if !targetable {
		if err := s.targetRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to clear target: %w", err)
		}
	}
	return nil
}

// SetComparison sets or clears the comparison video polled alongside
func (s *videoService) SetComparison(ctx context.Context, id, comparisonID string) error {
	if comparisonID != "" {
		parsed, err := adapter.ParseVideoID(comparisonID)
		if err != nil {
			return err
		}
		comparisonID = parsed
		if comparisonID == id {
			return fmt.Errorf("%w: a video cannot be compared to itself", domain.ErrInvalidInput)
		}
	}

	return s.updateVideo(ctx, id, func(v *domain.Video) {
		v.ComparisonVideoID = comparisonID
	})
}

func (s *videoService) updateVideo(ctx context.Context, id string, mutate func(*domain.Video)) error {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	mutate(video)
	video.UpdatedAt = timeNow()

	if err := s.videoRepo.Update(ctx, video); err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	return nil
}
