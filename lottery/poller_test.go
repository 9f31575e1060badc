package lottery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/store"
)

type fakeSource struct {
	mu      sync.Mutex
	session *data.LotterySession
	height  uint64
	err     error
}

func (f *fakeSource) GetCurrentSession(context.Context) (*data.LotterySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s := *f.session
	return &s, nil
}

func (f *fakeSource) BlockHeight(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.height, f.err
}

type fakeBalance struct {
	calls int
}

func (f *fakeBalance) RefreshBalance(context.Context) (string, error) {
	f.calls++
	return "10", nil
}

func TestRoundFromSession(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	clock := NewPhaseClock(DefaultSchedule())
	session := &data.LotterySession{SessionID: "7", Phase: data.PhaseReveal, TotalPool: "100", CreatedHeight: 90, Participants: []data.Participant{{Address: "a"}}}

	round := RoundFromSession(session, 100, nil, now, clock, time.Second)
	if !round.StartTime.Equal(now.Add(-10 * time.Second)) {
		t.Errorf("start = %v", round.StartTime)
	}
	if round.ID != "7" || round.Phase != data.PhaseReveal || round.TotalBets != 1 || round.TotalAmount != "100" {
		t.Errorf("round = %+v", round)
	}
	if !round.EndTime.Equal(round.StartTime.Add(10 * time.Second)) {
		t.Errorf("end = %v", round.EndTime)
	}

	later := RoundFromSession(session, 105, &round, now.Add(5*time.Second), clock, time.Second)
	if !later.StartTime.Equal(round.StartTime) {
		t.Errorf("start moved for the same session: %v", later.StartTime)
	}
}

func TestRefreshSession(t *testing.T) {
	source := &fakeSource{session: &data.LotterySession{SessionID: "1", Phase: data.PhaseCommitment, CreatedHeight: 10}, height: 12}
	state, _ := store.New(nil, "")

	var mu sync.Mutex
	changes := 0
	p := NewPoller(PollerArgs{
		Source:  source,
		Targets: func() []RoundTarget { return []RoundTarget{state} },
	})
	p.OnRoundChange(func(prev *data.LotteryRound, next data.LotteryRound) {
		mu.Lock()
		changes++
		mu.Unlock()
	})

	if err := p.RefreshSession(context.Background()); err != nil {
		t.Fatalf("RefreshSession: %v", err)
	}
	round, ok := state.CurrentRound()
	if !ok || round.ID != "1" {
		t.Fatalf("store round = %+v %v", round, ok)
	}
	if state.NetworkStatus() != data.NetworkConnected || p.BlockHeight() != 12 {
		t.Errorf("status = %s height = %d", state.NetworkStatus(), p.BlockHeight())
	}

	_ = p.RefreshSession(context.Background())
	source.mu.Lock()
	source.session = &data.LotterySession{SessionID: "2", Phase: data.PhaseCommitment}
	source.mu.Unlock()
	_ = p.RefreshSession(context.Background())

	if changes != 2 {
		t.Errorf("changes = %d, want 2", changes)
	}
	if round, _ := state.CurrentRound(); round.ID != "2" {
		t.Errorf("round = %s", round.ID)
	}
}

func TestRefreshFailure(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	state, _ := store.New(nil, "")
	p := NewPoller(PollerArgs{
		Source:  source,
		Targets: func() []RoundTarget { return []RoundTarget{state} },
	})

	if err := p.RefreshSession(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := state.CurrentRound(); ok {
		t.Error("round set on failure")
	}
	if state.NetworkStatus() != data.NetworkDisconnected {
		t.Errorf("status = %s", state.NetworkStatus())
	}

	if err := p.RefreshStatus(context.Background()); err == nil {
		t.Error("expected status error")
	}
	if p.NetworkStatus() != data.NetworkDisconnected {
		t.Errorf("poller status = %s", p.NetworkStatus())
	}
}

func TestRefreshStatus(t *testing.T) {
	source := &fakeSource{height: 77}
	state, _ := store.New(nil, "")
	balance := &fakeBalance{}
	p := NewPoller(PollerArgs{
		Source:   source,
		Targets:  func() []RoundTarget { return []RoundTarget{state} },
		Balances: func() []BalanceRefresher { return []BalanceRefresher{balance} },
	})

	if err := p.RefreshStatus(context.Background()); err != nil {
		t.Fatalf("RefreshStatus: %v", err)
	}
	if state.BlockHeight() != 77 || state.NetworkStatus() != data.NetworkConnected {
		t.Errorf("height = %d status = %s", state.BlockHeight(), state.NetworkStatus())
	}
	if balance.calls != 1 {
		t.Errorf("balance calls = %d", balance.calls)
	}
}
