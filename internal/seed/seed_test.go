package seed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"view-tracker/internal/domain"
)

// mockVideoRepository is a mock implementation of VideoRepository for testing
type mockVideoRepository struct {
	videos    map[string]*domain.Video
	createErr error
	mu        sync.RWMutex
}

func newMockVideoRepository() *mockVideoRepository {
	return &mockVideoRepository{videos: make(map[string]*domain.Video)}
}

func (m *mockVideoRepository) Create(ctx context.Context, video *domain.Video) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.videos[video.ID] = video
	return nil
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.videos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *mockVideoRepository) List(ctx context.Context) ([]*domain.Video, error) {
	return nil, nil
}

func (m *mockVideoRepository) ListTracking(ctx context.Context) ([]*domain.Video, error) {
	return nil, nil
}

func (m *mockVideoRepository) Update(ctx context.Context, video *domain.Video) error {
	return nil
}

func (m *mockVideoRepository) Delete(ctx context.Context, id string) error {
	return nil
}

// mockSampleRepository collects appended samples
type mockSampleRepository struct {
	samples   []*domain.Sample
	appendErr error
	mu        sync.Mutex
}

func (m *mockSampleRepository) Append(ctx context.Context, sample *domain.Sample) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = append(m.samples, sample)
	return nil
}

func (m *mockSampleRepository) Dates(ctx context.Context, videoID string) ([]string, error) {
	return nil, nil
}

func (m *mockSampleRepository) GetByDate(ctx context.Context, videoID, date string) ([]*domain.Sample, error) {
	return nil, nil
}

func (m *mockSampleRepository) Latest(ctx context.Context, videoID string) (*domain.Sample, error) {
	return nil, domain.ErrNoSamples
}

func (m *mockSampleRepository) DailyTotals(ctx context.Context, date, videoID string) ([]*domain.DailyTotal, error) {
	return nil, nil
}

func (m *mockSampleRepository) DeleteByVideo(ctx context.Context, videoID string) error {
	return nil
}

func countByVideo(samples []*domain.Sample, videoID string) int {
	n := 0
	for _, s := range samples {
		if s.VideoID == videoID {
			n++
		}
	}
	return n
}

func TestSeedDemoVideosCreatesVideosAndHistory(t *testing.T) {
	videoRepo := newMockVideoRepository()
	sampleRepo := &mockSampleRepository{}
	seeder := NewSeeder(videoRepo, sampleRepo, time.UTC)

	result, err := seeder.SeedDemoVideos(context.Background())
	if err != nil {
		t.Fatalf("SeedDemoVideos failed: %v", err)
	}

	if len(result.Created) != len(DemoVideos) {
		t.Errorf("expected %d created, got %d", len(DemoVideos), len(result.Created))
	}
	if len(result.Skipped) != 0 {
		t.Errorf("expected 0 skipped, got %d", len(result.Skipped))
	}

	expectedPerVideo := int(historyHours*time.Hour/sampleInterval) + 1
	for _, demo := range DemoVideos {
		v, err := videoRepo.GetByID(context.Background(), demo.ID)
		if err != nil {
			t.Fatalf("expected video %s to exist: %v", demo.ID, err)
		}
		if !v.Tracking {
			t.Errorf("expected seeded video %s to be tracking", demo.ID)
		}

		got := countByVideo(sampleRepo.samples, demo.ID)
		if got != expectedPerVideo {
			t.Errorf("expected %d samples for %s, got %d", expectedPerVideo, demo.ID, got)
		}
	}
}

func TestSeedDemoVideosSampleShape(t *testing.T) {
	videoRepo := newMockVideoRepository()
	sampleRepo := &mockSampleRepository{}
	seeder := NewSeeder(videoRepo, sampleRepo, time.UTC)

	if _, err := seeder.SeedDemoVideos(context.Background()); err != nil {
		t.Fatalf("SeedDemoVideos failed: %v", err)
	}

	var prev *domain.Sample
	for _, s := range sampleRepo.samples {
		if s.VideoID != DemoVideos[0].ID {
			continue
		}
		if s.Timestamp.Format("2006-01-02") != s.Date {
			t.Errorf("sample date %s does not match timestamp %v", s.Date, s.Timestamp)
		}
		if prev != nil && s.Views <= prev.Views {
			t.Errorf("expected monotonically increasing views, got %d after %d", s.Views, prev.Views)
		}
		prev = s
	}
	if prev == nil {
		t.Fatal("expected samples for first demo video")
	}
}

func TestSeedDemoVideosIdempotent(t *testing.T) {
	videoRepo := newMockVideoRepository()
	sampleRepo := &mockSampleRepository{}
	seeder := NewSeeder(videoRepo, sampleRepo, time.UTC)

	if _, err := seeder.SeedDemoVideos(context.Background()); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	firstCount := len(sampleRepo.samples)

	result, err := seeder.SeedDemoVideos(context.Background())
	if err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	if len(result.Created) != 0 {
		t.Errorf("expected 0 created on second run, got %d", len(result.Created))
	}
	if len(result.Skipped) != len(DemoVideos) {
		t.Errorf("expected %d skipped on second run, got %d", len(DemoVideos), len(result.Skipped))
	}
	if len(sampleRepo.samples) != firstCount {
		t.Errorf("expected no new samples on second run, got %d extra", len(sampleRepo.samples)-firstCount)
	}
}

func TestSeedDemoVideosReportsFailures(t *testing.T) {
	videoRepo := newMockVideoRepository()
	videoRepo.createErr = errors.New("disk full")
	sampleRepo := &mockSampleRepository{}
	seeder := NewSeeder(videoRepo, sampleRepo, time.UTC)

	result, err := seeder.SeedDemoVideos(context.Background())
	if err != nil {
		t.Fatalf("SeedDemoVideos failed: %v", err)
	}

	if len(result.Failed) != len(DemoVideos) {
		t.Errorf("expected %d failures, got %d", len(DemoVideos), len(result.Failed))
	}
	if len(result.Errors) != len(DemoVideos) {
		t.Errorf("expected %d errors, got %d", len(DemoVideos), len(result.Errors))
	}
}
