package lottery

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/network"
	"github.com/DrDelphi/LuckeeBot/store"
)

type fakeSigner struct {
	address string
}

func (f *fakeSigner) Address() string {
	return f.address
}

func (f *fakeSigner) Execute(context.Context, string, []byte, []data.Coin) (string, error) {
	return "", nil
}

type fakeWallet struct {
	signer network.Signer
}

func (f *fakeWallet) Signer() network.Signer {
	return f.signer
}

type revealCall struct {
	numbers []uint16
	seed    string
}

type fakeWriter struct {
	mu          sync.Mutex
	err         error
	block       chan struct{}
	entered     chan struct{}
	commitments []string
	funds       [][]data.Coin
	reveals     []revealCall
	settles     int
}

func (f *fakeWriter) PlaceBet(_ context.Context, _ network.Signer, commitmentHash string, funds []data.Coin) (string, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.commitments = append(f.commitments, commitmentHash)
	f.funds = append(f.funds, funds)
	return "BETHASH", nil
}

func (f *fakeWriter) RevealRandom(_ context.Context, _ network.Signer, luckyNumbers []uint16, randomSeed string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.reveals = append(f.reveals, revealCall{numbers: luckyNumbers, seed: randomSeed})
	return "REVEALHASH", nil
}

func (f *fakeWriter) SettleLottery(context.Context, network.Signer) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settles++
	return "SETTLEHASH", f.err
}

func (f *fakeWriter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.commitments) + len(f.reveals) + f.settles
}

type recorder struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	r.notes = append(r.notes, n)
	r.mu.Unlock()
}

func (r *recorder) last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return Notification{}
	}
	return r.notes[len(r.notes)-1]
}

var roundStart = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

type fixture struct {
	wf     *Workflow
	writer *fakeWriter
	wallet *fakeWallet
	state  *store.Store
	notes  *recorder
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	state, err := store.New(nil, "")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	state.SetCurrentRound(data.LotteryRound{ID: "7", Phase: data.PhaseCommitment, StartTime: roundStart, TotalAmount: "0"})

	f := &fixture{
		writer: &fakeWriter{},
		wallet: &fakeWallet{signer: &fakeSigner{address: "cosmwasm1player"}},
		state:  state,
		notes:  &recorder{},
		now:    roundStart.Add(time.Second),
	}
	f.wf = NewWorkflow(WorkflowArgs{
		Writer:   f.writer,
		Wallet:   f.wallet,
		Store:    state,
		Notifier: f.notes,
		Denom:    "uluckee",
		Decimals: 6,
		Now:      func() time.Time { return f.now },
		NewID:    func() string { return "bet-1" },
	})

	return f
}

func (f *fixture) pick(t *testing.T, numbers ...int) {
	t.Helper()
	for _, n := range numbers {
		if err := f.wf.SelectNumber(n); err != nil {
			t.Fatalf("SelectNumber(%d): %v", n, err)
		}
	}
	if err := f.wf.SetSeed(7); err != nil {
		t.Fatalf("SetSeed: %v", err)
	}
}

func TestSubmitWithoutNumbers(t *testing.T) {
	f := newFixture(t)

	_, err := f.wf.SubmitBet(context.Background())
	if !errors.Is(err, ErrNoNumbers) || !IsValidation(err) {
		t.Fatalf("err = %v", err)
	}
	if f.writer.calls() != 0 {
		t.Error("validation failure reached the network")
	}
	if len(f.state.History()) != 0 {
		t.Error("bet record created")
	}
	if f.notes.last().Level != LevelError {
		t.Errorf("notification = %+v", f.notes.last())
	}
}

func TestSubmitWithoutSeedOrWallet(t *testing.T) {
	f := newFixture(t)
	_ = f.wf.SelectNumber(1)

	if _, err := f.wf.SubmitBet(context.Background()); !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("no seed err = %v", err)
	}

	_ = f.wf.SetSeed(1)
	f.wallet.signer = nil
	if _, err := f.wf.SubmitBet(context.Background()); !errors.Is(err, ErrWalletNotConnected) {
		t.Errorf("no wallet err = %v", err)
	}
	if f.writer.calls() != 0 {
		t.Error("rejected submit reached the network")
	}
}

func TestSubmitBet(t *testing.T) {
	f := newFixture(t)
	f.pick(t, 12, 45, 12)

	record, err := f.wf.SubmitBet(context.Background())
	if err != nil {
		t.Fatalf("SubmitBet: %v", err)
	}

	if record.ID != "bet-1" || record.RoundID != "7" || record.Player != "cosmwasm1player" || record.TxHash != "BETHASH" {
		t.Errorf("record = %+v", record)
	}
	if record.TotalAmount != 3 || !reflect.DeepEqual(record.Numbers, []uint16{12, 45}) {
		t.Errorf("record selection = %v total %d", record.Numbers, record.TotalAmount)
	}
	if record.Commitment != BuildCommitment([]uint16{12, 12, 45}, 7) || f.writer.commitments[0] != record.Commitment {
		t.Errorf("commitment = %s", record.Commitment)
	}
	if got := f.writer.funds[0]; len(got) != 1 || got[0].Denom != "uluckee" || got[0].Amount != "3000000" {
		t.Errorf("funds = %+v", got)
	}

	if len(f.state.History()) != 1 {
		t.Fatalf("history = %d records", len(f.state.History()))
	}
	round, _ := f.state.CurrentRound()
	if round.TotalBets != 1 || round.TotalAmount != "3000000" {
		t.Errorf("round = %+v", round)
	}
	if view := f.wf.Selection(); len(view.Numbers) != 0 || view.HasSeed {
		t.Errorf("selection not cleared: %+v", view)
	}
	if n := f.notes.last(); n.Level != LevelSuccess || n.TxHash != "BETHASH" {
		t.Errorf("notification = %+v", n)
	}
}

func TestSubmitFailureKeepsSelection(t *testing.T) {
	f := newFixture(t)
	f.pick(t, 3)
	f.writer.err = errors.New("out of gas")

	if _, err := f.wf.SubmitBet(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(f.state.History()) != 0 {
		t.Error("failed submit created a record")
	}
	if view := f.wf.Selection(); view.Total != 1 || !view.HasSeed {
		t.Errorf("selection = %+v", view)
	}
}

func TestSubmitBusy(t *testing.T) {
	f := newFixture(t)
	f.pick(t, 3)
	f.writer.block = make(chan struct{})
	f.writer.entered = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		_, err := f.wf.SubmitBet(context.Background())
		done <- err
	}()
	<-f.writer.entered

	if _, err := f.wf.SubmitBet(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second submit err = %v", err)
	}

	close(f.writer.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if len(f.state.History()) != 1 {
		t.Errorf("history = %d records", len(f.state.History()))
	}
}

func submitted(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.pick(t, 12, 45, 12)
	if _, err := f.wf.SubmitBet(context.Background()); err != nil {
		t.Fatalf("SubmitBet: %v", err)
	}
	return f
}

func TestRevealOutsideRevealPhase(t *testing.T) {
	f := submitted(t)

	_, err := f.wf.Reveal(context.Background(), "bet-1")
	if !errors.Is(err, ErrRevealNotOpen) {
		t.Fatalf("err = %v", err)
	}
	if len(f.writer.reveals) != 0 {
		t.Error("reveal sent during commitment")
	}
	if bet, _ := f.state.Bet("bet-1"); bet.Revealed {
		t.Error("record marked revealed")
	}
}

func TestRevealWithoutRound(t *testing.T) {
	f := newFixture(t)
	state, _ := store.New(nil, "")
	state.AddBetRecord(&data.BetRecord{ID: "x", Player: "cosmwasm1player", Numbers: []uint16{1}, Multipliers: map[uint16]uint32{1: 1}})
	f.wf = NewWorkflow(WorkflowArgs{Writer: f.writer, Wallet: f.wallet, Store: state})

	if _, err := f.wf.Reveal(context.Background(), "x"); !errors.Is(err, ErrNoRound) {
		t.Errorf("err = %v", err)
	}
	if _, err := f.wf.Reveal(context.Background(), "missing"); !errors.Is(err, ErrBetNotFound) {
		t.Errorf("missing err = %v", err)
	}
	if f.writer.calls() != 0 {
		t.Error("reveal reached the network")
	}
}

func TestReveal(t *testing.T) {
	f := submitted(t)
	f.now = roundStart.Add(7 * time.Second)

	txHash, err := f.wf.Reveal(context.Background(), "bet-1")
	if err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	if txHash != "REVEALHASH" {
		t.Errorf("tx = %s", txHash)
	}

	call := f.writer.reveals[0]
	if !reflect.DeepEqual(call.numbers, []uint16{12, 12, 45}) || call.seed != "7" {
		t.Errorf("reveal call = %+v", call)
	}
	bet, _ := f.state.Bet("bet-1")
	if !bet.Revealed || bet.RevealTxHash != "REVEALHASH" {
		t.Errorf("bet = %+v", bet)
	}

	if _, err := f.wf.Reveal(context.Background(), "bet-1"); !errors.Is(err, ErrAlreadyRevealed) {
		t.Errorf("second reveal err = %v", err)
	}
	if len(f.writer.reveals) != 1 {
		t.Errorf("reveals = %d", len(f.writer.reveals))
	}
}

func TestRevealFromOtherWallet(t *testing.T) {
	f := submitted(t)
	f.now = roundStart.Add(7 * time.Second)
	f.wallet.signer = &fakeSigner{address: "cosmwasm1other"}

	if _, err := f.wf.Reveal(context.Background(), "bet-1"); !errors.Is(err, ErrWrongWallet) {
		t.Errorf("err = %v", err)
	}
}

func TestSettle(t *testing.T) {
	f := newFixture(t)
	if _, err := f.wf.Settle(context.Background()); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if f.writer.settles != 1 {
		t.Errorf("settles = %d", f.writer.settles)
	}

	f.wallet.signer = nil
	if _, err := f.wf.Settle(context.Background()); !errors.Is(err, ErrWalletNotConnected) {
		t.Errorf("err = %v", err)
	}
}

func TestApplyResult(t *testing.T) {
	f := submitted(t)
	f.state.AddBetRecord(&data.BetRecord{ID: "bet-2", RoundID: "6", Player: "cosmwasm1player"})

	changed := f.wf.ApplyResult(&data.LotteryResult{
		SessionID:     "7",
		WinningNumber: 12,
		Winners: []data.Winner{
			{Address: "cosmwasm1player", RewardAmount: "500", BetNumber: 12},
			{Address: "cosmwasm1player", RewardAmount: "250", BetNumber: 12},
			{Address: "cosmwasm1other", RewardAmount: "100", BetNumber: 12},
		},
	})
	if changed != 1 {
		t.Errorf("changed = %d", changed)
	}

	bet, _ := f.state.Bet("bet-1")
	if !bet.Won || bet.Reward != "750" {
		t.Errorf("bet = %+v", bet)
	}
	other, _ := f.state.Bet("bet-2")
	if other.Won {
		t.Error("bet of another round marked won")
	}
	round, _ := f.state.CurrentRound()
	if !round.Settled || round.WinningNumber == nil || *round.WinningNumber != 12 {
		t.Errorf("round = %+v", round)
	}

	f.wf.ApplyResult(&data.LotteryResult{SessionID: "7", WinningNumber: 1})
	if bet, _ := f.state.Bet("bet-1"); bet.Won || bet.Reward != "" {
		t.Errorf("losing result left bet = %+v", bet)
	}
}

func TestApplyResultMatchesBetNumber(t *testing.T) {
	state, _ := store.New(nil, "")
	state.AddBetRecord(&data.BetRecord{ID: "a", RoundID: "7", Player: "p", Numbers: []uint16{12}, Multipliers: map[uint16]uint32{12: 1}, Revealed: true})
	state.AddBetRecord(&data.BetRecord{ID: "b", RoundID: "7", Player: "p", Numbers: []uint16{99}, Multipliers: map[uint16]uint32{99: 1}, Revealed: true})
	state.AddBetRecord(&data.BetRecord{ID: "c", RoundID: "7", Player: "p", Numbers: []uint16{12}, Multipliers: map[uint16]uint32{12: 3}, Revealed: true})
	wf := NewWorkflow(WorkflowArgs{Store: state})

	tests := []struct {
		name    string
		winners []data.Winner
		want    map[string]string
	}{
		{
			name:    "single winner entry pays one bet",
			winners: []data.Winner{{Address: "p", RewardAmount: "500", BetNumber: 12}},
			want:    map[string]string{"a": "500", "b": "", "c": ""},
		},
		{
			name: "one entry per matching bet",
			winners: []data.Winner{
				{Address: "p", RewardAmount: "500", BetNumber: 12},
				{Address: "p", RewardAmount: "300", BetNumber: 12},
			},
			want: map[string]string{"a": "500", "b": "", "c": "300"},
		},
		{
			name:    "winner without a matching bet",
			winners: []data.Winner{{Address: "p", RewardAmount: "500", BetNumber: 1}},
			want:    map[string]string{"a": "", "b": "", "c": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf.ApplyResult(&data.LotteryResult{SessionID: "7", WinningNumber: tt.winners[0].BetNumber, Winners: tt.winners})
			for id, reward := range tt.want {
				bet, _ := state.Bet(id)
				if bet.Won != (reward != "") || bet.Reward != reward {
					t.Errorf("bet %s: won = %v, reward = %q, want reward %q", id, bet.Won, bet.Reward, reward)
				}
			}
		})
	}

	wf.ApplyResult(&data.LotteryResult{SessionID: "7", WinningNumber: 12, Winners: []data.Winner{{Address: "p", RewardAmount: "500", BetNumber: 12}}})
	stats := ComputeStats(state.History())
	if stats.TotalRewards != "500" {
		t.Errorf("TotalRewards = %s, want 500", stats.TotalRewards)
	}
}
