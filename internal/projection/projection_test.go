package projection

import (
	"errors"
	"testing"
	"time"

	"view-tracker/internal/domain"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestProject_WholeIntervals(t *testing.T) {
	// 1000 -> 2000 over 50 minutes at 5-minute intervals: 10 intervals,
	// 100 views per interval.
	p, err := Project(1000, base, 2000, base.Add(50*time.Minute), DefaultInterval)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Intervals != 10 {
		t.Errorf("expected 10 intervals, got %v", p.Intervals)
	}
	if p.Rate != 100.00 {
		t.Errorf("expected rate 100.00, got %v", p.Rate)
	}
	if p.AlreadyMet {
		t.Error("expected AlreadyMet to be false")
	}
}

func TestProject_FractionalIntervals(t *testing.T) {
	// 7.5 minutes at 5-minute intervals is 1.5 intervals.
	p, err := Project(0, base, 300, base.Add(7*time.Minute+30*time.Second), DefaultInterval)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Intervals != 1.5 {
		t.Errorf("expected 1.5 intervals, got %v", p.Intervals)
	}
	if p.Rate != 200.00 {
		t.Errorf("expected rate 200.00, got %v", p.Rate)
	}
}

func TestProject_Rounding(t *testing.T) {
	// 250 views over 16 intervals is 15.625, which rounds half-up to 15.63.
	// 15.625 is exactly representable in binary so the rounding behavior
	// is deterministic.
	p, err := Project(0, base, 250, base.Add(80*time.Minute), DefaultInterval)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Rate != 15.63 {
		t.Errorf("expected rate 15.63, got %v", p.Rate)
	}
	if p.RawRate != 15.625 {
		t.Errorf("expected raw rate 15.625, got %v", p.RawRate)
	}
}

func TestProject_InvalidTarget(t *testing.T) {
	tests := []struct {
		name        string
		current     int64
		target      int64
		targetTime  time.Time
		interval    time.Duration
	}{
		{"zero target views", 100, 0, base.Add(time.Hour), DefaultInterval},
		{"negative target views", 100, -5, base.Add(time.Hour), DefaultInterval},
		{"target time in the past", 100, 200, base.Add(-time.Minute), DefaultInterval},
		{"target time equals now", 100, 200, base, DefaultInterval},
		{"zero interval", 100, 200, base.Add(time.Hour), 0},
		{"negative interval", 100, 200, base.Add(time.Hour), -time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Project(tt.current, base, tt.target, tt.targetTime, tt.interval)
			if !errors.Is(err, domain.ErrInvalidTarget) {
				t.Errorf("expected ErrInvalidTarget, got %v", err)
			}
			if p != nil {
				t.Errorf("expected nil projection on validation failure, got %+v", p)
			}
		})
	}
}

func TestProject_AlreadyMet(t *testing.T) {
	// A target at or below the current count is a zero-rate success,
	// not an error.
	for _, target := range []int64{1000, 2000} {
		p, err := Project(2000, base, target, base.Add(time.Hour), DefaultInterval)
		if err != nil {
			t.Fatalf("target %d: unexpected error: %v", target, err)
		}
		if !p.AlreadyMet {
			t.Errorf("target %d: expected AlreadyMet", target)
		}
		if p.Rate != 0 || p.RawRate != 0 {
			t.Errorf("target %d: expected zero rate, got %v/%v", target, p.Rate, p.RawRate)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{0.125, 0.13},
		{15.625, 15.63},
		{100, 100},
		{0.004, 0},
		{0.005, 0.01},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
