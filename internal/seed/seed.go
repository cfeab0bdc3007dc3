package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"view-tracker/internal/domain"
	"view-tracker/internal/logger"
	"view-tracker/internal/repository"
)

// timeNow is a variable for testing purposes
var timeNow = time.Now

// DemoVideos contains well-known video IDs used to seed a fresh install
var DemoVideos = []struct {
	ID   string
	Name string
}{
	{ID: "dQw4w9WgXcQ", Name: "Demo Video A"},
	{ID: "9bZkp7q19f0", Name: "Demo Video B"},
}

const (
	historyHours   = 6
	sampleInterval = 5 * time.Minute
	baseViews      = 10_000
)

// Seeder fills an empty database with demo videos and synthetic
// sample history so the dashboard has something to show before the
// first real poll completes.
type Seeder struct {
	videoRepo  repository.VideoRepository
	sampleRepo repository.SampleRepository
	location   *time.Location
	logger     *logger.Logger
}

// NewSeeder creates a new Seeder instance
func NewSeeder(videoRepo repository.VideoRepository, sampleRepo repository.SampleRepository, location *time.Location) *Seeder {
	return &Seeder{
		videoRepo:  videoRepo,
		sampleRepo: sampleRepo,
		location:   location,
		logger:     logger.Default(),
	}
}

// SeedResult contains the results of a seeding operation
type SeedResult struct {
	Created []string // IDs of newly created videos
	Skipped []string // IDs of existing videos (skipped)
	Failed  []string // IDs that failed to seed
	Errors  []error  // Errors encountered during seeding
}

// SeedDemoVideos seeds the database with demo videos and a few hours
// of synthetic samples. The operation is idempotent, existing videos
// are skipped.
func (s *Seeder) SeedDemoVideos(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{
		Created: make([]string, 0),
		Skipped: make([]string, 0),
		Failed:  make([]string, 0),
		Errors:  make([]error, 0),
	}

	for i, demo := range DemoVideos {
		created, err := s.seedVideo(ctx, demo.ID, demo.Name, int64(i))
		if err != nil {
			result.Failed = append(result.Failed, demo.ID)
			result.Errors = append(result.Errors, fmt.Errorf("failed to seed %s: %w", demo.ID, err))
			s.logger.Warn("Failed to seed demo video", map[string]interface{}{
				"video_id": demo.ID,
				"error":    err.Error(),
			})
			continue
		}

		if created {
			result.Created = append(result.Created, demo.ID)
		} else {
			result.Skipped = append(result.Skipped, demo.ID)
		}
	}

	return result, nil
}

// seedVideo seeds a single demo video with synthetic history.
// Returns true if the video was created, false if it already existed.
func (s *Seeder) seedVideo(ctx context.Context, id, name string, seedOffset int64) (bool, error) {
	_, err := s.videoRepo.GetByID(ctx, id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("failed to check existing video: %w", err)
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
		return false, fmt.Errorf("failed to create video: %w", err)
	}

	if err := s.seedHistory(ctx, id, seedOffset); err != nil {
		return false, fmt.Errorf("failed to seed history: %w", err)
	}

	s.logger.Info("Seeded demo video", map[string]interface{}{
		"video_id": id,
		"name":     name,
	})
	return true, nil
}

// seedHistory appends a few hours of synthetic samples at the regular
// polling cadence, ending at the current time.
func (s *Seeder) seedHistory(ctx context.Context, videoID string, seedOffset int64) error {
	rng := rand.New(rand.NewSource(seedOffset + 1))

	end := timeNow().In(s.location).Truncate(time.Minute)
	start := end.Add(-historyHours * time.Hour)

	views := int64(baseViews) * (seedOffset + 1)
	likes := views / 50

	for ts := start; !ts.After(end); ts = ts.Add(sampleInterval) {
		views += 50 + rng.Int63n(200)
		likes += rng.Int63n(10)

		sample := &domain.Sample{
			ID:        uuid.New().String(),
			VideoID:   videoID,
			Date:      ts.Format("2006-01-02"),
			Timestamp: ts,
			Views:     views,
			Likes:     likes,
		}
		if err := s.sampleRepo.Append(ctx, sample); err != nil {
			return err
		}
	}

	return nil
}
