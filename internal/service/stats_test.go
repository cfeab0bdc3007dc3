package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"view-tracker/internal/domain"
)

func TestDailyTotalsValidatesDate(t *testing.T) {
	svc := NewStatsService(newMockSampleRepo())

	for _, date := range []string{"", "2026/08/28", "28-08-2026", "today", "2026-8-28"} {
		if _, err := svc.DailyTotals(context.Background(), date, ""); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for %q, got %v", date, err)
		}
	}
}

func TestDailyTotals(t *testing.T) {
	sampleRepo := newMockSampleRepo()
	svc := NewStatsService(sampleRepo)
	ctx := context.Background()

	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	for i, v := range []int64{1000, 1100, 1250} {
		sampleRepo.Append(ctx, &domain.Sample{
			ID:        base.Add(time.Duration(i) * 5 * time.Minute).String(),
			VideoID:   "dQw4w9WgXcQ",
			Date:      "2026-08-28",
			Timestamp: base.Add(time.Duration(i) * 5 * time.Minute),
			Views:     v,
		})
	}

	totals, err := svc.DailyTotals(ctx, "2026-08-28", "")
	if err != nil {
		t.Fatalf("DailyTotals failed: %v", err)
	}
	if len(totals) != 1 {
		t.Fatalf("expected 1 total, got %d", len(totals))
	}
	if totals[0].TotalGain != 250 {
		t.Errorf("expected total gain 250, got %d", totals[0].TotalGain)
	}

	empty, err := svc.DailyTotals(ctx, "2026-08-27", "")
	if err != nil {
		t.Fatalf("DailyTotals failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no totals for a day without samples, got %d", len(empty))
	}
}
