package lottery

import (
	"testing"
	"time"

	"github.com/DrDelphi/LuckeeBot/data"
)

func TestEstimate(t *testing.T) {
	created := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	clock := NewPhaseClock(DefaultSchedule())

	tests := []struct {
		elapsed   time.Duration
		phase     data.Phase
		remaining time.Duration
	}{
		{0, data.PhaseCommitment, 6 * time.Second},
		{5 * time.Second, data.PhaseCommitment, time.Second},
		{6 * time.Second, data.PhaseReveal, 3 * time.Second},
		{8 * time.Second, data.PhaseReveal, time.Second},
		{9500 * time.Millisecond, data.PhaseSettlement, 500 * time.Millisecond},
		{10 * time.Second, data.PhaseCommitment, 6 * time.Second},
		{27 * time.Second, data.PhaseReveal, 2 * time.Second},
		{-3 * time.Second, data.PhaseCommitment, 6 * time.Second},
	}

	for _, tt := range tests {
		est := clock.Estimate(created, created.Add(tt.elapsed))
		if est.Phase != tt.phase || est.Remaining != tt.remaining {
			t.Errorf("elapsed %v: got %s %v, want %s %v", tt.elapsed, est.Phase, est.Remaining, tt.phase, tt.remaining)
		}
	}
}

func TestEstimateSettlementAfterRevealWindow(t *testing.T) {
	created := time.Now()
	s := DefaultSchedule()
	clock := NewPhaseClock(s)

	est := clock.Estimate(created, created.Add(s.Commitment+s.Reveal+time.Millisecond))
	if est.Phase != data.PhaseSettlement {
		t.Fatalf("phase = %s, want settlement", est.Phase)
	}
	if est.Progress() != 100 {
		t.Errorf("progress = %d", est.Progress())
	}
}

func TestInvalidScheduleFallsBack(t *testing.T) {
	clock := NewPhaseClock(Schedule{Commitment: time.Second})
	if clock.Schedule() != DefaultSchedule() {
		t.Errorf("schedule = %+v", clock.Schedule())
	}
	if DefaultSchedule().Cycle() != 10*time.Second {
		t.Errorf("cycle = %v", DefaultSchedule().Cycle())
	}
}
