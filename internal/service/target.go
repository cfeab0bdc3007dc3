package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"view-tracker/internal/domain"
	"view-tracker/internal/logger"
	"view-tracker/internal/projection"
	"view-tracker/internal/repository"
)

// targetService implements the TargetService interface.
// Every outcome is returned to the caller as an explicit value; nothing is
// stashed in ambient request state.
type targetService struct {
	videoRepo  repository.VideoRepository
	sampleRepo repository.SampleRepository
	targetRepo repository.TargetRepository
	interval   time.Duration
	logger     *logger.Logger
}

// NewTargetService creates a new TargetService instance. interval is the
// fixed projection interval the required rate is expressed in.
func NewTargetService(
	videoRepo repository.VideoRepository,
	sampleRepo repository.SampleRepository,
	targetRepo repository.TargetRepository,
	interval time.Duration,
) domain.TargetService {
	if interval <= 0 {
		interval = projection.DefaultInterval
	}
	return &targetService{
		videoRepo:  videoRepo,
		sampleRepo: sampleRepo,
		targetRepo: targetRepo,
		interval:   interval,
		logger:     logger.Default(),
	}
}

// SubmitTarget validates and stores a new target spec for a targetable
// video, replacing any existing one. The returned outcome holds either a
// projection or an error message, never both.
func (s *targetService) SubmitTarget(ctx context.Context, videoID string, targetViews int64, targetTime time.Time) *domain.TargetOutcome {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return s.failure(videoID, "video not found")
	}
	if !video.Targetable {
		return s.failure(videoID, domain.ErrNotTargetable.Error())
	}

	latest, err := s.sampleRepo.Latest(ctx, videoID)
	if err != nil {
		if errors.Is(err, domain.ErrNoSamples) {
			return s.failure(videoID, "no view samples recorded yet; wait for the next poll")
		}
		s.logger.Error("Failed to load latest sample for target", map[string]interface{}{
			"video_id": videoID,
			"error":    err.Error(),
		})
		return s.failure(videoID, "could not read the current view count")
	}

	proj, err := projection.Project(latest.Views, timeNow(), targetViews, targetTime, s.interval)
	if err != nil {
		return s.failure(videoID, userMessage(err))
	}

	spec := &domain.TargetSpec{
		VideoID:     videoID,
		TargetViews: targetViews,
		TargetTime:  targetTime,
		CreatedAt:   timeNow(),
	}
	if err := s.targetRepo.Upsert(ctx, spec); err != nil {
		s.logger.Error("Failed to store target spec", map[string]interface{}{
			"video_id": videoID,
			"error":    err.Error(),
		})
		return s.failure(videoID, "could not save the target")
	}

	s.logger.Info("Target set", map[string]interface{}{
		"video_id":     videoID,
		"target_views": targetViews,
		"target_time":  targetTime.Format(time.RFC3339),
		"rate":         proj.Rate,
	})

	return &domain.TargetOutcome{
		VideoID:    videoID,
		Spec:       spec,
		Projection: proj,
	}
}

// CurrentOutcome recomputes the projection for a video's stored target
// against its latest sample. Returns nil when no target is set.
func (s *targetService) CurrentOutcome(ctx context.Context, videoID string) *domain.TargetOutcome {
	spec, err := s.targetRepo.GetByVideoID(ctx, videoID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to load target spec", map[string]interface{}{
				"video_id": videoID,
				"error":    err.Error(),
			})
		}
		return nil
	}

	latest, err := s.sampleRepo.Latest(ctx, videoID)
	if err != nil {
		outcome := s.failure(videoID, "no view samples recorded yet")
		outcome.Spec = spec
		return outcome
	}

	proj, err := projection.Project(latest.Views, timeNow(), spec.TargetViews, spec.TargetTime, s.interval)
	if err != nil {
		outcome := s.failure(videoID, userMessage(err))
		outcome.Spec = spec
		return outcome
	}

	return &domain.TargetOutcome{
		VideoID:    videoID,
		Spec:       spec,
		Projection: proj,
	}
}

// ClearTarget removes a video's target spec
func (s *targetService) ClearTarget(ctx context.Context, videoID string) error {
	if err := s.targetRepo.Delete(ctx, videoID); err != nil {
		return fmt.Errorf("failed to clear target: %w", err)
	}
	return nil
}

func (s *targetService) failure(videoID, message string) *domain.TargetOutcome {
	return &domain.TargetOutcome{
		VideoID:      videoID,
		ErrorMessage: message,
	}
}

// userMessage strips the sentinel prefix from validation errors so the
// displayable part remains
func userMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidTarget) {
		msg := err.Error()
		prefix := domain.ErrInvalidTarget.Error() + ": "
		if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return err.Error()
}
