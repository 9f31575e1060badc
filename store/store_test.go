package store

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/storage"
)

func sampleBet() *data.BetRecord {
	return &data.BetRecord{
		ID:          "bet-1",
		RoundID:     "7",
		Player:      "cosmwasm1player",
		Numbers:     []uint16{12, 45},
		Multipliers: map[uint16]uint32{12: 2, 45: 1},
		RandomSeed:  321,
		TotalAmount: 3,
		Commitment:  "ab",
		TxHash:      "HASH",
		Timestamp:   time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	kv := storage.NewMemoryStore()
	s, err := New(kv, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s.SetWallet(data.WalletInfo{Address: "cosmwasm1player", Kind: data.WalletKeplr, ChainID: "luckee-1", Balance: "10"})
	bet := sampleBet()
	s.AddBetRecord(bet)
	s.SetCurrentRound(data.LotteryRound{ID: "7", Phase: data.PhaseCommitment})
	s.SetBlockHeight(99)

	reloaded, err := New(kv, "")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	history := reloaded.History()
	if len(history) != 1 {
		t.Fatalf("history len = %d, want 1", len(history))
	}
	if !reflect.DeepEqual(history[0], bet) {
		t.Errorf("reloaded bet = %+v, want %+v", history[0], bet)
	}

	w, ok := reloaded.Wallet()
	if !ok || w.Address != "cosmwasm1player" || w.Kind != data.WalletKeplr {
		t.Errorf("reloaded wallet = %+v, %v", w, ok)
	}

	if _, ok := reloaded.CurrentRound(); ok {
		t.Error("round must not be persisted")
	}
	if reloaded.BlockHeight() != 0 {
		t.Error("block height must not be persisted")
	}
}

func TestPersistedBlobShape(t *testing.T) {
	kv := storage.NewMemoryStore()
	s, _ := New(kv, "lottery-storage:42")
	s.SetCurrentRound(data.LotteryRound{ID: "1"})
	s.AddBetRecord(sampleBet())

	raw, err := kv.Get(context.Background(), "lottery-storage:42")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var blob map[string]json.RawMessage
	if err := json.Unmarshal(raw, &blob); err != nil {
		t.Fatalf("blob: %v", err)
	}
	for _, key := range []string{"wallet", "isConnected", "betHistory"} {
		if _, ok := blob[key]; !ok {
			t.Errorf("blob missing %q", key)
		}
	}
	if len(blob) != 3 {
		t.Errorf("blob keys = %d, want 3", len(blob))
	}
}

func TestClearWallet(t *testing.T) {
	s, _ := New(nil, "")
	s.SetWallet(data.WalletInfo{Address: "a", Balance: "1"})
	s.UpdateBalance("5")
	if s.Balance() != "5" {
		t.Errorf("Balance = %q, want 5", s.Balance())
	}

	s.ClearWallet()
	if s.IsWalletConnected() || s.Address() != "" || s.Balance() != "0" {
		t.Error("ClearWallet should drop the identity entirely")
	}

	s.UpdateBalance("7")
	if s.IsWalletConnected() {
		t.Error("UpdateBalance must not reconnect")
	}
}

func TestUpdateBetRecord(t *testing.T) {
	s, _ := New(nil, "")
	s.AddBetRecord(sampleBet())

	err := s.UpdateBetRecord("bet-1", func(b *data.BetRecord) {
		b.Revealed = true
		b.ID = "tampered"
	})
	if err != nil {
		t.Fatalf("UpdateBetRecord: %v", err)
	}
	bet, ok := s.Bet("bet-1")
	if !ok || !bet.Revealed {
		t.Errorf("bet = %+v, %v", bet, ok)
	}

	if err := s.UpdateBetRecord("missing", func(*data.BetRecord) {}); !errors.Is(err, ErrBetNotFound) {
		t.Errorf("error = %v, want ErrBetNotFound", err)
	}
}

func TestHistoryReturnsCopies(t *testing.T) {
	s, _ := New(nil, "")
	s.AddBetRecord(sampleBet())

	h := s.History()
	h[0].Multipliers[12] = 999
	h[0].Numbers[0] = 1

	bet, _ := s.Bet("bet-1")
	if bet.Multipliers[12] != 2 || bet.Numbers[0] != 12 {
		t.Error("callers must not be able to mutate stored records")
	}
}

func TestSetCurrentRoundSupersedes(t *testing.T) {
	s, _ := New(nil, "")
	n := uint16(5)
	s.SetCurrentRound(data.LotteryRound{ID: "1", TotalBets: 4, WinningNumber: &n})
	s.SetCurrentRound(data.LotteryRound{ID: "2"})

	r, ok := s.CurrentRound()
	if !ok || r.ID != "2" || r.TotalBets != 0 || r.WinningNumber != nil {
		t.Errorf("round = %+v", r)
	}
}

func TestSubscribe(t *testing.T) {
	s, _ := New(nil, "")
	calls := 0
	s.Subscribe(func() { calls++ })
	s.SetBlockHeight(1)
	s.SetNetworkStatus(data.NetworkConnected)
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if s.NetworkStatus() != data.NetworkConnected {
		t.Errorf("status = %q", s.NetworkStatus())
	}
}

type countingKV struct {
	storage.KV
	sets int
}

func (c *countingKV) Set(ctx context.Context, key string, value []byte) error {
	c.sets++
	return c.KV.Set(ctx, key, value)
}

func TestUpdateBalanceSkipsUnchanged(t *testing.T) {
	kv := &countingKV{KV: storage.NewMemoryStore()}
	s, _ := New(kv, "")
	s.SetWallet(data.WalletInfo{Address: "a", Balance: "1"})
	calls := 0
	s.Subscribe(func() { calls++ })

	for i := 0; i < 3; i++ {
		s.UpdateBalance("1")
	}
	if kv.sets != 1 || calls != 0 {
		t.Errorf("unchanged balance: sets = %d, notifications = %d", kv.sets, calls)
	}

	s.UpdateBalance("2")
	if kv.sets != 2 || calls != 1 || s.Balance() != "2" {
		t.Errorf("changed balance: sets = %d, notifications = %d, balance = %s", kv.sets, calls, s.Balance())
	}
}

func TestLoaded(t *testing.T) {
	kv := storage.NewMemoryStore()
	s, _ := New(kv, "k")
	if s.Loaded() {
		t.Error("fresh store reports a loaded state")
	}
	s.ClearWallet()

	again, _ := New(kv, "k")
	if !again.Loaded() || again.IsWalletConnected() {
		t.Errorf("reload: loaded = %v, connected = %v", again.Loaded(), again.IsWalletConnected())
	}
}
