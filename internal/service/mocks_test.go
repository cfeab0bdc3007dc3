package service

import (
	"context"
	"sort"
	"sync"

	"view-tracker/internal/domain"
)

// mockVideoRepo is an in-memory VideoRepository for service tests
type mockVideoRepo struct {
	videos    map[string]*domain.Video
	createErr error
	updateErr error
	mu        sync.RWMutex
}

func newMockVideoRepo() *mockVideoRepo {
	return &mockVideoRepo{videos: make(map[string]*domain.Video)}
}

func (m *mockVideoRepo) Create(ctx context.Context, video *domain.Video) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *video
	m.videos[video.ID] = &copied
	return nil
}

func (m *mockVideoRepo) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.videos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (m *mockVideoRepo) List(ctx context.Context) ([]*domain.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Video, 0, len(m.videos))
	for _, v := range m.videos {
		copied := *v
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockVideoRepo) ListTracking(ctx context.Context) ([]*domain.Video, error) {
	all, _ := m.List(ctx)
	result := make([]*domain.Video, 0, len(all))
	for _, v := range all {
		if v.Tracking {
			result = append(result, v)
		}
	}
	return result, nil
}

func (m *mockVideoRepo) Update(ctx context.Context, video *domain.Video) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.videos[video.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *video
	m.videos[video.ID] = &copied
	return nil
}

func (m *mockVideoRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.videos, id)
	return nil
}

// mockSampleRepo is an in-memory SampleRepository keyed by video
type mockSampleRepo struct {
	samples map[string][]*domain.Sample
	mu      sync.RWMutex
}

func newMockSampleRepo() *mockSampleRepo {
	return &mockSampleRepo{samples: make(map[string][]*domain.Sample)}
}

func (m *mockSampleRepo) Append(ctx context.Context, sample *domain.Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.samples[sample.VideoID] {
		if existing.Timestamp.Equal(sample.Timestamp) {
			return nil
		}
	}
	m.samples[sample.VideoID] = append(m.samples[sample.VideoID], sample)
	sort.Slice(m.samples[sample.VideoID], func(i, j int) bool {
		return m.samples[sample.VideoID][i].Timestamp.Before(m.samples[sample.VideoID][j].Timestamp)
	})
	return nil
}

func (m *mockSampleRepo) Dates(ctx context.Context, videoID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var dates []string
	for _, s := range m.samples[videoID] {
		if !seen[s.Date] {
			seen[s.Date] = true
			dates = append(dates, s.Date)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

func (m *mockSampleRepo) GetByDate(ctx context.Context, videoID, date string) ([]*domain.Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Sample
	for _, s := range m.samples[videoID] {
		if s.Date == date {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockSampleRepo) Latest(ctx context.Context, videoID string) (*domain.Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := m.samples[videoID]
	if len(list) == 0 {
		return nil, domain.ErrNoSamples
	}
	return list[len(list)-1], nil
}

func (m *mockSampleRepo) DailyTotals(ctx context.Context, date, videoID string) ([]*domain.DailyTotal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.samples))
	for id := range m.samples {
		if videoID == "" || id == videoID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var totals []*domain.DailyTotal
	for _, id := range ids {
		var daySamples []*domain.Sample
		for _, s := range m.samples[id] {
			if s.Date == date {
				daySamples = append(daySamples, s)
			}
		}
		if len(daySamples) == 0 {
			continue
		}
		total := &domain.DailyTotal{VideoID: id, Date: date}
		for i := 1; i < len(daySamples); i++ {
			total.TotalGain += daySamples[i].Views - daySamples[i-1].Views
		}
		totals = append(totals, total)
	}
	return totals, nil
}

func (m *mockSampleRepo) DeleteByVideo(ctx context.Context, videoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.samples, videoID)
	return nil
}

// mockTargetRepo is an in-memory TargetRepository
type mockTargetRepo struct {
	targets   map[string]*domain.TargetSpec
	upsertErr error
	mu        sync.RWMutex
}

func newMockTargetRepo() *mockTargetRepo {
	return &mockTargetRepo{targets: make(map[string]*domain.TargetSpec)}
}

func (m *mockTargetRepo) Upsert(ctx context.Context, spec *domain.TargetSpec) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets[spec.VideoID] = spec
	return nil
}

func (m *mockTargetRepo) GetByVideoID(ctx context.Context, videoID string) (*domain.TargetSpec, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	spec, ok := m.targets[videoID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return spec, nil
}

func (m *mockTargetRepo) Delete(ctx context.Context, videoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.targets, videoID)
	return nil
}

// mockStatsAdapter returns canned platform statistics
type mockStatsAdapter struct {
	stats map[string]*domain.VideoStats
	err   error
	calls [][]string
}

func (m *mockStatsAdapter) GetVideoStats(ctx context.Context, videoIDs []string) (map[string]*domain.VideoStats, error) {
	m.calls = append(m.calls, videoIDs)
	if m.err != nil {
		return nil, m.err
	}
	result := make(map[string]*domain.VideoStats)
	for _, id := range videoIDs {
		if st, ok := m.stats[id]; ok {
			result[id] = st
		}
	}
	return result, nil
}
