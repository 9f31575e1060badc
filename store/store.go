package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	logger "github.com/ElrondNetwork/elrond-go-logger"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/storage"
)

var log = logger.GetOrCreate("store")

// DefaultKey is the key of the persisted blob
const DefaultKey = "lottery-storage"

const persistTimeout = 5 * time.Second

// ErrBetNotFound is returned when updating a bet that is not in the history
var ErrBetNotFound = errors.New("bet record not found")

// persisted is the subset of the state mirrored to storage; round, phase and
// network data are always refetched
type persisted struct {
	Wallet      *data.WalletInfo  `json:"wallet"`
	IsConnected bool              `json:"isConnected"`
	BetHistory  []*data.BetRecord `json:"betHistory"`
}

// Store holds the lottery state of one user. Every setter is atomic.
type Store struct {
	mu  sync.RWMutex
	kv     storage.KV
	key    string
	loaded bool

	wallet        *data.WalletInfo
	connected     bool
	round         *data.LotteryRound
	history       []*data.BetRecord
	stats         *data.LotteryStats
	blockHeight   uint64
	networkStatus data.NetworkStatus

	subscribers []func()
}

// New creates a Store persisting under key and loads any previous blob.
// A nil kv keeps the state in memory only.
func New(kv storage.KV, key string) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}

	s := &Store{
		kv:            kv,
		key:           key,
		history:       make([]*data.BetRecord, 0),
		networkStatus: data.NetworkDisconnected,
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) load() error {
	if s.kv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	bytes, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Error("can not load state", "key", s.key, "error", err)
		return err
	}

	p := persisted{}
	if err = json.Unmarshal(bytes, &p); err != nil {
		log.Warn("discarding unreadable state", "key", s.key, "error", err)
		return nil
	}

	s.loaded = true
	s.wallet = p.Wallet
	s.connected = p.IsConnected && p.Wallet != nil
	for _, b := range p.BetHistory {
		if b != nil {
			s.history = append(s.history, b)
		}
	}

	return nil
}

// persistLocked writes the persisted subset; callers hold s.mu
func (s *Store) persistLocked() {
	if s.kv == nil {
		return
	}

	bytes, err := json.Marshal(persisted{
		Wallet:      s.wallet,
		IsConnected: s.connected,
		BetHistory:  s.history,
	})
	if err != nil {
		log.Error("can not encode state", "key", s.key, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err = s.kv.Set(ctx, s.key, bytes); err != nil {
		log.Error("can not persist state", "key", s.key, "error", err)
	}
}

// Loaded reports whether a previously persisted state was found
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loaded
}

// Subscribe registers fn to be called after every mutation
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := append([]func(){}, s.subscribers...)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}

func (s *Store) SetWallet(info data.WalletInfo) {
	s.mu.Lock()
	s.wallet = &info
	s.connected = true
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
}

func (s *Store) ClearWallet() {
	s.mu.Lock()
	s.wallet = nil
	s.connected = false
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
}

func (s *Store) UpdateBalance(balance string) {
	s.mu.Lock()
	if s.wallet == nil || s.wallet.Balance == balance {
		s.mu.Unlock()
		return
	}
	w := *s.wallet
	w.Balance = balance
	s.wallet = &w
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
}

// SetCurrentRound replaces the current round; rounds are never merged
func (s *Store) SetCurrentRound(round data.LotteryRound) {
	s.mu.Lock()
	s.round = &round
	s.mu.Unlock()

	s.notify()
}

// UpdateCurrentRound applies fn to the current round, if any
func (s *Store) UpdateCurrentRound(fn func(round *data.LotteryRound)) bool {
	s.mu.Lock()
	if s.round == nil {
		s.mu.Unlock()
		return false
	}
	r := *s.round
	fn(&r)
	s.round = &r
	s.mu.Unlock()

	s.notify()

	return true
}

// AddBetRecord appends a copy of bet to the history
func (s *Store) AddBetRecord(bet *data.BetRecord) {
	s.mu.Lock()
	s.history = append(s.history, bet.Clone())
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
}

// UpdateBetRecord applies fn to a copy of the record with id and stores it
func (s *Store) UpdateBetRecord(id string, fn func(bet *data.BetRecord)) error {
	s.mu.Lock()
	idx := -1
	for i, b := range s.history {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrBetNotFound
	}

	updated := s.history[idx].Clone()
	fn(updated)
	updated.ID = id
	s.history[idx] = updated
	s.persistLocked()
	s.mu.Unlock()

	s.notify()

	return nil
}

func (s *Store) SetLotteryStats(stats data.LotteryStats) {
	s.mu.Lock()
	s.stats = &stats
	s.mu.Unlock()

	s.notify()
}

func (s *Store) SetBlockHeight(height uint64) {
	s.mu.Lock()
	s.blockHeight = height
	s.mu.Unlock()

	s.notify()
}

func (s *Store) SetNetworkStatus(status data.NetworkStatus) {
	s.mu.Lock()
	s.networkStatus = status
	s.mu.Unlock()

	s.notify()
}

// Wallet returns a copy of the wallet info, if connected
func (s *Store) Wallet() (data.WalletInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.wallet == nil || !s.connected {
		return data.WalletInfo{}, false
	}

	return *s.wallet, true
}

func (s *Store) Address() string {
	w, ok := s.Wallet()
	if !ok {
		return ""
	}

	return w.Address
}

func (s *Store) Balance() string {
	w, ok := s.Wallet()
	if !ok || w.Balance == "" {
		return "0"
	}

	return w.Balance
}

func (s *Store) IsWalletConnected() bool {
	_, ok := s.Wallet()
	return ok
}

// CurrentRound returns a copy of the current round, if known
func (s *Store) CurrentRound() (data.LotteryRound, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.round == nil {
		return data.LotteryRound{}, false
	}

	return *s.round, true
}

// History returns copies of every bet in insertion order
func (s *Store) History() []*data.BetRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*data.BetRecord, 0, len(s.history))
	for _, b := range s.history {
		res = append(res, b.Clone())
	}

	return res
}

// Bet returns a copy of the bet with id
func (s *Store) Bet(id string) (*data.BetRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.history {
		if b.ID == id {
			return b.Clone(), true
		}
	}

	return nil, false
}

func (s *Store) LotteryStats() (data.LotteryStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stats == nil {
		return data.LotteryStats{}, false
	}

	return *s.stats, true
}

func (s *Store) BlockHeight() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.blockHeight
}

func (s *Store) NetworkStatus() data.NetworkStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.networkStatus
}
