package service

import (
	"context"
	"fmt"
	"regexp"

	"view-tracker/internal/domain"
	"view-tracker/internal/repository"
)

// datePattern matches the YYYY-MM-DD form used for sample dates
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// statsService implements the StatsService interface
type statsService struct {
	sampleRepo repository.SampleRepository
}

// NewStatsService creates a new StatsService instance
func NewStatsService(sampleRepo repository.SampleRepository) domain.StatsService {
	return &statsService{sampleRepo: sampleRepo}
}

// DailyTotals returns the total view gain per video for a date. When
// videoID is non-empty the result is restricted to that video.
func (s *statsService) DailyTotals(ctx context.Context, date, videoID string) ([]domain.DailyTotal, error) {
	if !datePattern.MatchString(date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}

	totals, err := s.sampleRepo.DailyTotals(ctx, date, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute daily totals: %w", err)
	}

	result := make([]domain.DailyTotal, 0, len(totals))
	for _, t := range totals {
		result = append(result, *t)
	}
	return result, nil
}
