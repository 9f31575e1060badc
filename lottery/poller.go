package lottery

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DrDelphi/LuckeeBot/data"
)

// DefaultBlockTime is used to turn a block height difference into time
const DefaultBlockTime = 6 * time.Second

// SessionSource is the read surface of the gateway the pollers need
type SessionSource interface {
	GetCurrentSession(ctx context.Context) (*data.LotterySession, error)
	BlockHeight(ctx context.Context) (uint64, error)
}

// RoundTarget receives refreshed round and network data; *store.Store is one
type RoundTarget interface {
	SetCurrentRound(round data.LotteryRound)
	SetBlockHeight(height uint64)
	SetNetworkStatus(status data.NetworkStatus)
}

// BalanceRefresher refreshes a cached wallet balance; *wallet.Adapter is one
type BalanceRefresher interface {
	RefreshBalance(ctx context.Context) (string, error)
}

// PollerArgs groups the collaborators of a Poller
type PollerArgs struct {
	Source    SessionSource
	Clock     *PhaseClock
	BlockTime time.Duration
	Targets   func() []RoundTarget
	Balances  func() []BalanceRefresher
	Now       func() time.Time
}

// Poller mirrors the contract session and network status into the stores
type Poller struct {
	source    SessionSource
	clock     *PhaseClock
	blockTime time.Duration
	targets   func() []RoundTarget
	balances  func() []BalanceRefresher
	now       func() time.Time

	mu        sync.RWMutex
	round     *data.LotteryRound
	height    uint64
	status    data.NetworkStatus
	listeners []func(prev *data.LotteryRound, next data.LotteryRound)
}

// NewPoller creates a Poller
func NewPoller(args PollerArgs) *Poller {
	p := &Poller{
		source:    args.Source,
		clock:     args.Clock,
		blockTime: args.BlockTime,
		targets:   args.Targets,
		balances:  args.Balances,
		now:       args.Now,
		status:    data.NetworkConnecting,
	}

	if p.clock == nil {
		p.clock = NewPhaseClock(DefaultSchedule())
	}
	if p.blockTime <= 0 {
		p.blockTime = DefaultBlockTime
	}
	if p.targets == nil {
		p.targets = func() []RoundTarget { return nil }
	}
	if p.balances == nil {
		p.balances = func() []BalanceRefresher { return nil }
	}
	if p.now == nil {
		p.now = time.Now
	}

	return p
}

// OnRoundChange registers fn to run when the session id or settled flag changes.
// prev is nil on the first refresh.
func (p *Poller) OnRoundChange(fn func(prev *data.LotteryRound, next data.LotteryRound)) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

// Round returns the last refreshed round
func (p *Poller) Round() (data.LotteryRound, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.round == nil {
		return data.LotteryRound{}, false
	}

	return *p.round, true
}

func (p *Poller) BlockHeight() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.height
}

func (p *Poller) NetworkStatus() data.NetworkStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.status
}

// Clock returns the phase clock rounds are estimated with
func (p *Poller) Clock() *PhaseClock {
	return p.clock
}

// RoundFromSession converts a contract session into the local round view.
// The start time is estimated from the block height distance and kept from
// prev when the session is unchanged, so the phase estimate stays stable.
func RoundFromSession(session *data.LotterySession, height uint64, prev *data.LotteryRound, now time.Time, clock *PhaseClock, blockTime time.Duration) data.LotteryRound {
	start := now
	if prev != nil && prev.ID == session.SessionID {
		start = prev.StartTime
	} else if height > 0 && height >= session.CreatedHeight && session.CreatedHeight > 0 {
		start = now.Add(-time.Duration(height-session.CreatedHeight) * blockTime)
	}

	round := data.LotteryRound{
		ID:            session.SessionID,
		Phase:         session.Phase,
		StartTime:     start,
		EndTime:       start.Add(clock.Schedule().Cycle()),
		BlockHeight:   session.CreatedHeight,
		TotalBets:     uint64(len(session.Participants)),
		TotalAmount:   session.TotalPool,
		WinningNumber: session.WinningNumber,
		Settled:       session.Settled,
	}
	if !round.Phase.Valid() {
		round.Phase = clock.Estimate(start, now).Phase
	}
	if round.TotalAmount == "" {
		round.TotalAmount = "0"
	}

	return round
}

// RefreshSession fetches the current session and block height in parallel
// and pushes the round to every target
func (p *Poller) RefreshSession(ctx context.Context) error {
	var session *data.LotterySession
	var height uint64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		session, err = p.source.GetCurrentSession(gctx)
		return err
	})
	g.Go(func() error {
		h, err := p.source.BlockHeight(gctx)
		if err != nil {
			log.Debug("block height", "error", err)
			return nil
		}
		height = h
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn("refresh session", "error", err)
		p.setStatus(data.NetworkDisconnected)
		return err
	}

	p.mu.Lock()
	prev := p.round
	if height == 0 {
		height = p.height
	}
	round := RoundFromSession(session, height, prev, p.now(), p.clock, p.blockTime)
	p.round = &round
	if height > p.height {
		p.height = height
	}
	p.status = data.NetworkConnected
	listeners := append([]func(*data.LotteryRound, data.LotteryRound){}, p.listeners...)
	p.mu.Unlock()

	for _, t := range p.targets() {
		t.SetCurrentRound(round)
		t.SetNetworkStatus(data.NetworkConnected)
	}

	if prev == nil || prev.ID != round.ID || prev.Settled != round.Settled {
		for _, fn := range listeners {
			fn(prev, round)
		}
	}

	return nil
}

// RefreshStatus updates block height, network status and every balance
func (p *Poller) RefreshStatus(ctx context.Context) error {
	height, err := p.source.BlockHeight(ctx)
	status := data.NetworkConnected
	if err != nil {
		log.Warn("refresh status", "error", err)
		status = data.NetworkDisconnected
	}

	p.mu.Lock()
	if err == nil {
		p.height = height
	}
	p.status = status
	height = p.height
	p.mu.Unlock()

	for _, t := range p.targets() {
		t.SetBlockHeight(height)
		t.SetNetworkStatus(status)
	}

	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, b := range p.balances() {
		b := b
		g.Go(func() error {
			if _, err := b.RefreshBalance(gctx); err != nil {
				log.Debug("refresh balance", "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (p *Poller) setStatus(status data.NetworkStatus) {
	p.mu.Lock()
	p.status = status
	p.mu.Unlock()

	for _, t := range p.targets() {
		t.SetNetworkStatus(status)
	}
}
