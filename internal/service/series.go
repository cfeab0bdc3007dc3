package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"view-tracker/internal/cache"
	"view-tracker/internal/domain"
	"view-tracker/internal/logger"
	"view-tracker/internal/projection"
	"view-tracker/internal/repository"
)

const (
	// seriesCacheTTL bounds how stale a rendered series may be between
	// poll ticks
	seriesCacheTTL = time.Minute

	// hourlyWindow is the lookback used for the hourly gain column
	hourlyWindow = time.Hour

	// rollingWindow is the number of recent samples averaged for the
	// rolling gain column
	rollingWindow = 3
)

// seriesService implements the SeriesService interface
type seriesService struct {
	sampleRepo repository.SampleRepository
	targetSvc  domain.TargetService
	viewCache  *cache.Cache[*domain.VideoView]
	logger     *logger.Logger
}

// NewSeriesService creates a new SeriesService instance
func NewSeriesService(sampleRepo repository.SampleRepository, targetSvc domain.TargetService) domain.SeriesService {
	return &seriesService{
		sampleRepo: sampleRepo,
		targetSvc:  targetSvc,
		viewCache:  cache.New[*domain.VideoView](seriesCacheTTL),
		logger:     logger.Default(),
	}
}

// BuildVideoView assembles the render model for one video: day series with
// derived gains (days descending, points ascending within each day), the
// latest sample, and the current target outcome.
func (s *seriesService) BuildVideoView(ctx context.Context, video *domain.Video) (*domain.VideoView, error) {
	if cached, ok := s.viewCache.Get(video.ID); ok {
		return cached, nil
	}

	dates, err := s.sampleRepo.Dates(ctx, video.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sample dates: %w", err)
	}

	view := &domain.VideoView{Video: video}

	for _, date := range dates {
		points, err := s.buildDay(ctx, video, date)
		if err != nil {
			return nil, err
		}
		view.Days = append(view.Days, domain.DaySeries{Date: date, Points: points})
	}

	latest, err := s.sampleRepo.Latest(ctx, video.ID)
	if err == nil {
		view.Latest = latest
	} else if !errors.Is(err, domain.ErrNoSamples) {
		return nil, fmt.Errorf("failed to load latest sample: %w", err)
	}

	if video.Targetable {
		view.Outcome = s.targetSvc.CurrentOutcome(ctx, video.ID)
	}

	s.viewCache.Set(video.ID, view)
	return view, nil
}

// DaySamples returns the enriched points for one video and date in
// chronological ascending order
func (s *seriesService) DaySamples(ctx context.Context, videoID, date string) ([]domain.SamplePoint, error) {
	samples, err := s.sampleRepo.GetByDate(ctx, videoID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load samples: %w", err)
	}
	return EnrichDay(samples, nil), nil
}

func (s *seriesService) buildDay(ctx context.Context, video *domain.Video, date string) ([]domain.SamplePoint, error) {
	samples, err := s.sampleRepo.GetByDate(ctx, video.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load samples for %s: %w", date, err)
	}

	var compSamples []*domain.Sample
	if video.ComparisonVideoID != "" {
		compSamples, err = s.sampleRepo.GetByDate(ctx, video.ComparisonVideoID, date)
		if err != nil {
			s.logger.Warn("Failed to load comparison samples", map[string]interface{}{
				"video_id":      video.ID,
				"comparison_id": video.ComparisonVideoID,
				"error":         err.Error(),
			})
			compSamples = nil
		}
	}

	return EnrichDay(samples, compSamples), nil
}

// EnrichDay derives per-sample gains for one calendar date. The input must
// be in ascending timestamp order; the output preserves that order.
//
// View and like gains are differences from the previous sample of the same
// day, so the first sample of a day carries zero gain. The hourly gain is
// the difference against the newest sample at least one hour earlier on the
// same day, zero when no such sample exists. The rolling average is the
// mean view gain over the three most recent samples. When comparison
// samples are supplied, the comparison ratio divides this video's hourly
// gain by the comparison video's gain over the same window.
func EnrichDay(samples []*domain.Sample, compSamples []*domain.Sample) []domain.SamplePoint {
	points := make([]domain.SamplePoint, 0, len(samples))

	compByTime := make(map[int64]int64, len(compSamples))
	for _, cs := range compSamples {
		compByTime[cs.Timestamp.Unix()] = cs.Views
	}

	for i, sample := range samples {
		point := domain.SamplePoint{Sample: *sample}

		if i > 0 {
			prev := samples[i-1]
			point.ViewGain = sample.Views - prev.Views
			point.LikeGain = sample.Likes - prev.Likes
		}

		if sample.Likes > 0 {
			point.ViewLikeRatio = projection.Round2(float64(sample.Views) / float64(sample.Likes))
		}

		cutoff := sample.Timestamp.Add(-hourlyWindow)
		if base := newestAtOrBefore(samples[:i], cutoff); base != nil {
			point.HourlyGain = sample.Views - base.Views

			if len(compSamples) > 0 {
				curr, currOK := compByTime[sample.Timestamp.Unix()]
				prev := newestAtOrBefore(compSamples, cutoff)
				if currOK && prev != nil && curr != prev.Views {
					point.ComparisonRatio = projection.Round2(float64(point.HourlyGain) / float64(curr-prev.Views))
					point.HasComparison = true
				}
			}
		}

		points = append(points, point)

		// Rolling average over the most recent samples, current included
		start := len(points) - rollingWindow
		if start < 0 {
			start = 0
		}
		var sum int64
		for _, p := range points[start:] {
			sum += p.ViewGain
		}
		points[len(points)-1].RollingAvg = projection.Round2(float64(sum) / float64(len(points)-start))
	}

	return points
}

// newestAtOrBefore returns the last sample with a timestamp at or before
// the cutoff, nil when none qualifies. Input must be ascending.
func newestAtOrBefore(samples []*domain.Sample, cutoff time.Time) *domain.Sample {
	var found *domain.Sample
	for _, s := range samples {
		if s.Timestamp.After(cutoff) {
			break
		}
		found = s
	}
	return found
}
