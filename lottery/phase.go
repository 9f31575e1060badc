package lottery

import (
	"time"

	"github.com/DrDelphi/LuckeeBot/data"
)

// Schedule holds the sub-phase durations of one lottery cycle
type Schedule struct {
	Commitment time.Duration
	Reveal     time.Duration
	Settlement time.Duration
}

// DefaultSchedule is the 6s/3s/1s cycle used when nothing is configured
func DefaultSchedule() Schedule {
	return Schedule{
		Commitment: 6 * time.Second,
		Reveal:     3 * time.Second,
		Settlement: 1 * time.Second,
	}
}

// Cycle returns the length of a full commitment/reveal/settlement cycle
func (s Schedule) Cycle() time.Duration {
	return s.Commitment + s.Reveal + s.Settlement
}

// Valid reports whether every sub-phase has a positive duration
func (s Schedule) Valid() bool {
	return s.Commitment > 0 && s.Reveal > 0 && s.Settlement > 0
}

// PhaseEstimate is the clock's guess of where a round is
type PhaseEstimate struct {
	Phase     data.Phase
	Remaining time.Duration
	Elapsed   time.Duration
	// Cycle counts the full cycles completed since creation
	Cycle int64
}

// Progress returns the completion percentage of the cycle at the start of
// the current phase's successor: 33, 66 or 100
func (e PhaseEstimate) Progress() int {
	switch e.Phase {
	case data.PhaseCommitment:
		return 33
	case data.PhaseReveal:
		return 66
	case data.PhaseSettlement:
		return 100
	}

	return 0
}

// PhaseClock estimates the phase of a round from its creation time.
// The estimate is a client-side approximation: it never reads the
// contract and may disagree with the phase the contract enforces.
type PhaseClock struct {
	schedule Schedule
}

// NewPhaseClock creates a clock; an invalid schedule falls back to DefaultSchedule
func NewPhaseClock(schedule Schedule) *PhaseClock {
	if !schedule.Valid() {
		schedule = DefaultSchedule()
	}

	return &PhaseClock{schedule: schedule}
}

func (pc *PhaseClock) Schedule() Schedule {
	return pc.schedule
}

// Estimate maps (now - created) modulo the cycle onto a phase. Negative
// elapsed time, from clock skew, reports commitment with its full duration.
func (pc *PhaseClock) Estimate(created, now time.Time) PhaseEstimate {
	elapsed := now.Sub(created)
	if elapsed < 0 {
		return PhaseEstimate{
			Phase:     data.PhaseCommitment,
			Remaining: pc.schedule.Commitment,
		}
	}

	cycle := pc.schedule.Cycle()
	pos := elapsed % cycle
	est := PhaseEstimate{
		Elapsed: elapsed,
		Cycle:   int64(elapsed / cycle),
	}

	switch {
	case pos < pc.schedule.Commitment:
		est.Phase = data.PhaseCommitment
		est.Remaining = pc.schedule.Commitment - pos
	case pos < pc.schedule.Commitment+pc.schedule.Reveal:
		est.Phase = data.PhaseReveal
		est.Remaining = pc.schedule.Commitment + pc.schedule.Reveal - pos
	default:
		est.Phase = data.PhaseSettlement
		est.Remaining = cycle - pos
	}

	return est
}
