// Package task runs the background polling loop that records view samples
// for tracked videos.
package task

import (
	"context"
	"sync"
	"time"

	"view-tracker/internal/domain"
	"view-tracker/internal/logger"
	"view-tracker/internal/repository"

	"github.com/google/uuid"
)

// minSleep is the floor on the wait between polls so a late wakeup never
// causes a tight loop
const minSleep = 10 * time.Second

// Poller periodically fetches view statistics for all tracked videos and
// appends samples. Polls are aligned to wall-clock interval marks in the
// configured timezone, so a 5-minute interval fires at :00, :05, :10 and
// so on.
type Poller struct {
	videoRepo  repository.VideoRepository
	sampleRepo repository.SampleRepository
	stats      domain.StatsAdapter
	interval   time.Duration
	location   *time.Location
	stopCh     chan struct{}
	wg         sync.WaitGroup
	logger     *logger.Logger
}

// NewPoller creates a new Poller instance
func NewPoller(
	videoRepo repository.VideoRepository,
	sampleRepo repository.SampleRepository,
	stats domain.StatsAdapter,
	interval time.Duration,
	location *time.Location,
) *Poller {
	if location == nil {
		location = time.UTC
	}
	return &Poller{
		videoRepo:  videoRepo,
		sampleRepo: sampleRepo,
		stats:      stats,
		interval:   interval,
		location:   location,
		stopCh:     make(chan struct{}),
		logger:     logger.Default(),
	}
}

// Start begins the background polling loop
func (p *Poller) Start(ctx context.Context) {
	p.wg.Add(1)
	go p.run(ctx)
}

// Stop gracefully stops the poller
func (p *Poller) Stop() {
	close(p.stopCh)
	p.wg.Wait()
}

// run sleeps until each wall-clock interval mark and polls
func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()

	for {
		timer := time.NewTimer(sleepUntilNextMark(time.Now().In(p.location), p.interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-p.stopCh:
			timer.Stop()
			return
		case <-timer.C:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce fetches statistics for every tracked video (and any comparison
// videos) in one batched call and appends a sample per video
func (p *Poller) PollOnce(ctx context.Context) {
	videos, err := p.videoRepo.ListTracking(ctx)
	if err != nil {
		p.logger.Error("Poller failed to list tracked videos", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if len(videos) == 0 {
		return
	}

	ids := collectIDs(videos)
	stats, err := p.stats.GetVideoStats(ctx, ids)
	if err != nil {
		p.logger.Error("Poller failed to fetch video stats", map[string]interface{}{
			"video_count": len(ids),
			"error":       err.Error(),
		})
		return
	}

	// Minute precision, recorded in the configured zone
	now := time.Now().In(p.location).Truncate(time.Minute)
	date := now.Format("2006-01-02")

	for _, id := range ids {
		st, ok := stats[id]
		if !ok {
			p.logger.Warn("No stats returned for video", map[string]interface{}{
				"video_id": id,
			})
			continue
		}

		sample := &domain.Sample{
			ID:        uuid.New().String(),
			VideoID:   id,
			Date:      date,
			Timestamp: now,
			Views:     st.Views,
			Likes:     st.Likes,
		}
		if err := p.sampleRepo.Append(ctx, sample); err != nil {
			p.logger.Error("Poller failed to append sample", map[string]interface{}{
				"video_id": id,
				"error":    err.Error(),
			})
			continue
		}

		p.logger.Info("Sample recorded", map[string]interface{}{
			"video_id": id,
			"views":    st.Views,
			"likes":    st.Likes,
		})
	}
}

// collectIDs gathers tracked video IDs plus any comparison video IDs,
// deduplicated, preserving first-seen order
func collectIDs(videos []*domain.Video) []string {
	seen := make(map[string]bool, len(videos))
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, v := range videos {
		add(v.ID)
	}
	for _, v := range videos {
		add(v.ComparisonVideoID)
	}
	return ids
}

// sleepUntilNextMark returns how long to wait until the next wall-clock
// mark aligned to the interval, never less than minSleep
func sleepUntilNextMark(now time.Time, interval time.Duration) time.Duration {
	if interval <= 0 {
		return minSleep
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sinceMidnight := now.Sub(midnight)
	wait := interval - sinceMidnight%interval
	if wait < minSleep {
		wait += interval
	}
	if wait < minSleep {
		wait = minSleep
	}
	return wait
}
