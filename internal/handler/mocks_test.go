package handler

import (
	"context"
	"time"

	"view-tracker/internal/domain"
)

// stubVideoService returns canned videos and records mutations
type stubVideoService struct {
	videos     map[string]*domain.Video
	addErr     error
	added      []string
	removed    []string
	tracking   map[string]bool
	targetable map[string]bool
}

func newStubVideoService(videos ...*domain.Video) *stubVideoService {
	s := &stubVideoService{
		videos:     make(map[string]*domain.Video),
		tracking:   make(map[string]bool),
		targetable: make(map[string]bool),
	}
	for _, v := range videos {
		s.videos[v.ID] = v
	}
	return s
}

func (s *stubVideoService) AddVideo(ctx context.Context, rawURL, name string) (*domain.Video, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	s.added = append(s.added, rawURL)
	return &domain.Video{ID: rawURL, Name: name, Tracking: true}, nil
}

func (s *stubVideoService) GetVideo(ctx context.Context, id string) (*domain.Video, error) {
	v, ok := s.videos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (s *stubVideoService) ListVideos(ctx context.Context) ([]*domain.Video, error) {
	result := make([]*domain.Video, 0, len(s.videos))
	for _, v := range s.videos {
		result = append(result, v)
	}
	return result, nil
}

func (s *stubVideoService) RemoveVideo(ctx context.Context, id string) error {
	if _, ok := s.videos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.videos, id)
	s.removed = append(s.removed, id)
	return nil
}

func (s *stubVideoService) SetTracking(ctx context.Context, id string, tracking bool) error {
	if _, ok := s.videos[id]; !ok {
		return domain.ErrNotFound
	}
	s.tracking[id] = tracking
	return nil
}

func (s *stubVideoService) SetTargetable(ctx context.Context, id string, targetable bool) error {
	if _, ok := s.videos[id]; !ok {
		return domain.ErrNotFound
	}
	s.targetable[id] = targetable
	return nil
}

func (s *stubVideoService) SetComparison(ctx context.Context, id, comparisonID string) error {
	if _, ok := s.videos[id]; !ok {
		return domain.ErrNotFound
	}
	s.videos[id].ComparisonVideoID = comparisonID
	return nil
}

// stubSeriesService returns fixed views and points
type stubSeriesService struct {
	views  map[string]*domain.VideoView
	points map[string][]domain.SamplePoint // keyed by videoID+"/"+date
}

func (s *stubSeriesService) BuildVideoView(ctx context.Context, video *domain.Video) (*domain.VideoView, error) {
	if view, ok := s.views[video.ID]; ok {
		return view, nil
	}
	return &domain.VideoView{Video: video}, nil
}

func (s *stubSeriesService) DaySamples(ctx context.Context, videoID, date string) ([]domain.SamplePoint, error) {
	return s.points[videoID+"/"+date], nil
}

// stubTargetService records submissions and returns a fixed outcome
type stubTargetService struct {
	outcome   *domain.TargetOutcome
	submitted []domain.TargetSpec
	cleared   []string
}

func (s *stubTargetService) SubmitTarget(ctx context.Context, videoID string, targetViews int64, targetTime time.Time) *domain.TargetOutcome {
	s.submitted = append(s.submitted, domain.TargetSpec{VideoID: videoID, TargetViews: targetViews, TargetTime: targetTime})
	return s.outcome
}

func (s *stubTargetService) CurrentOutcome(ctx context.Context, videoID string) *domain.TargetOutcome {
	return s.outcome
}

func (s *stubTargetService) ClearTarget(ctx context.Context, videoID string) error {
	s.cleared = append(s.cleared, videoID)
	return nil
}

// stubStatsService returns canned totals
type stubStatsService struct {
	totals map[string][]domain.DailyTotal
	err    error
}

func (s *stubStatsService) DailyTotals(ctx context.Context, date, videoID string) ([]domain.DailyTotal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.totals[date], nil
}
