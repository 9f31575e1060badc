package lottery

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	logger "github.com/ElrondNetwork/elrond-go-logger"
	"github.com/google/uuid"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/network"
	"github.com/DrDelphi/LuckeeBot/store"
	"github.com/DrDelphi/LuckeeBot/utils"
)

var log = logger.GetOrCreate("lottery")

// ContractWriter is the execute surface of the contract gateway
type ContractWriter interface {
	PlaceBet(ctx context.Context, signer network.Signer, commitmentHash string, funds []data.Coin) (string, error)
	RevealRandom(ctx context.Context, signer network.Signer, luckyNumbers []uint16, randomSeed string) (string, error)
	SettleLottery(ctx context.Context, signer network.Signer) (string, error)
}

// SignerSource yields the signer of the connected wallet, nil when disconnected
type SignerSource interface {
	Signer() network.Signer
}

type NotificationLevel int

const (
	LevelInfo NotificationLevel = iota
	LevelSuccess
	LevelError
)

// Notification is a user facing outcome of a workflow operation
type Notification struct {
	Level   NotificationLevel
	Message string
	TxHash  string
	Err     error
}

// Notifier receives every workflow outcome
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// WorkflowArgs groups the collaborators of a Workflow
type WorkflowArgs struct {
	Writer   ContractWriter
	Wallet   SignerSource
	Store    *store.Store
	Clock    *PhaseClock
	Notifier Notifier
	Denom    string
	Decimals int32

	// Now and NewID default to time.Now and uuid.NewString
	Now   func() time.Time
	NewID func() string
}

// Workflow drives the commit-reveal betting of one user
type Workflow struct {
	writer   ContractWriter
	wallet   SignerSource
	state    *store.Store
	clock    *PhaseClock
	notifier Notifier
	denom    string
	decimals int32
	now      func() time.Time
	newID    func() string

	mu        sync.Mutex
	selection *Selection

	submitting atomic.Bool
	revealing  atomic.Bool
	settling   atomic.Bool
}

// NewWorkflow creates a Workflow with an empty selection
func NewWorkflow(args WorkflowArgs) *Workflow {
	w := &Workflow{
		writer:    args.Writer,
		wallet:    args.Wallet,
		state:     args.Store,
		clock:     args.Clock,
		notifier:  args.Notifier,
		denom:     args.Denom,
		decimals:  args.Decimals,
		now:       args.Now,
		newID:     args.NewID,
		selection: NewSelection(),
	}

	if w.clock == nil {
		w.clock = NewPhaseClock(DefaultSchedule())
	}
	if w.notifier == nil {
		w.notifier = NotifierFunc(func(Notification) {})
	}
	if w.now == nil {
		w.now = time.Now
	}
	if w.newID == nil {
		w.newID = uuid.NewString
	}
	if w.denom == "" {
		w.denom = utils.DefaultDenom
	}

	return w
}

// Store returns the state store the workflow writes to
func (w *Workflow) Store() *store.Store {
	return w.state
}

// SelectionView is a read-only copy of the working selection
type SelectionView struct {
	Numbers     []uint16
	Multipliers map[uint16]uint32
	Total       uint64
	Seed        uint16
	HasSeed     bool
}

// Selection returns a copy of the working selection
func (w *Workflow) Selection() SelectionView {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.viewLocked()
}

func (w *Workflow) viewLocked() SelectionView {
	seed, ok := w.selection.Seed()

	return SelectionView{
		Numbers:     w.selection.Numbers(),
		Multipliers: w.selection.Multipliers(),
		Total:       w.selection.Total(),
		Seed:        seed,
		HasSeed:     ok,
	}
}

func (w *Workflow) SelectNumber(n int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.selection.SelectNumber(n)
}

func (w *Workflow) SetMultiplier(n, m int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.selection.SetMultiplier(n, m)
}

func (w *Workflow) Deselect(n int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.selection.Deselect(n)
}

func (w *Workflow) ClearSelection() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.selection.Clear()
}

func (w *Workflow) QuickPick(count int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.selection.QuickPick(count)
}

func (w *Workflow) SetSeed(seed int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.selection.SetSeed(seed)
}

// GenerateSeed replaces the selection seed with a random one
func (w *Workflow) GenerateSeed() (uint16, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.selection.GenerateSeed()
}

// Phase estimates the phase of the current round
func (w *Workflow) Phase() (PhaseEstimate, bool) {
	round, ok := w.state.CurrentRound()
	if !ok {
		return PhaseEstimate{}, false
	}

	return w.clock.Estimate(round.StartTime, w.now()), true
}

func validateSelection(view SelectionView) error {
	if len(view.Numbers) == 0 {
		return invalid("numbers", ErrNoNumbers)
	}
	if view.Total < MinBetAmount || view.Total > MaxBetAmount {
		return invalid("amount", ErrAmountOutOfRange)
	}
	if !view.HasSeed || view.Seed > MaxSeed {
		return invalid("seed", ErrInvalidSeed)
	}

	return nil
}

func (w *Workflow) fail(prefix string, err error) error {
	w.notifier.Notify(Notification{
		Level:   LevelError,
		Message: fmt.Sprintf("%s: %v", prefix, err),
		Err:     err,
	})

	return err
}

// SubmitBet commits the working selection with place_bet. Invalid input
// never reaches the network; a failed call leaves the selection intact.
func (w *Workflow) SubmitBet(ctx context.Context) (*data.BetRecord, error) {
	if !w.submitting.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer w.submitting.Store(false)

	w.mu.Lock()
	view := w.viewLocked()
	w.mu.Unlock()

	if err := validateSelection(view); err != nil {
		return nil, w.fail("bet rejected", err)
	}

	signer := w.wallet.Signer()
	if signer == nil {
		return nil, w.fail("bet rejected", ErrWalletNotConnected)
	}

	luckyNumbers := Expand(view.Multipliers)
	commitment := BuildCommitment(luckyNumbers, view.Seed)
	funds := []data.Coin{{Denom: w.denom, Amount: utils.ToBaseUnits(view.Total, w.decimals)}}

	txHash, err := w.writer.PlaceBet(ctx, signer, commitment, funds)
	if err != nil {
		log.Error("place bet", "player", signer.Address(), "error", err)
		return nil, w.fail("bet failed", err)
	}

	roundID := ""
	if round, ok := w.state.CurrentRound(); ok {
		roundID = round.ID
	}

	record := &data.BetRecord{
		ID:          w.newID(),
		RoundID:     roundID,
		Player:      signer.Address(),
		Numbers:     view.Numbers,
		Multipliers: view.Multipliers,
		RandomSeed:  view.Seed,
		TotalAmount: view.Total,
		Commitment:  commitment,
		TxHash:      txHash,
		Timestamp:   w.now(),
	}
	w.state.AddBetRecord(record)

	w.state.UpdateCurrentRound(func(round *data.LotteryRound) {
		round.TotalBets++
		round.TotalAmount = addAmounts(round.TotalAmount, funds[0].Amount)
	})

	w.mu.Lock()
	w.selection.Clear()
	w.mu.Unlock()

	log.Info("bet placed", "player", record.Player, "round", roundID, "amount", view.Total, "tx", txHash)
	w.notifier.Notify(Notification{
		Level:   LevelSuccess,
		Message: fmt.Sprintf("bet placed: %s", utils.FormatSelection(view.Numbers, view.Multipliers)),
		TxHash:  txHash,
	})

	return record.Clone(), nil
}

// RevealOpen reports whether a reveal would currently be accepted locally
func (w *Workflow) RevealOpen() (PhaseEstimate, error) {
	est, ok := w.Phase()
	if !ok {
		return est, ErrNoRound
	}
	if est.Phase != data.PhaseReveal {
		return est, fmt.Errorf("%w (%s phase, %s left)", ErrRevealNotOpen, est.Phase, utils.FormatDuration(est.Remaining))
	}

	return est, nil
}

// Reveal publishes the numbers and seed of a committed bet. Nothing is sent
// unless the record exists unrevealed and the clock reports the reveal phase.
func (w *Workflow) Reveal(ctx context.Context, recordID string) (string, error) {
	if !w.revealing.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer w.revealing.Store(false)

	bet, ok := w.state.Bet(recordID)
	if !ok {
		return "", w.fail("reveal rejected", ErrBetNotFound)
	}
	if bet.Revealed {
		return "", w.fail("reveal rejected", ErrAlreadyRevealed)
	}

	signer := w.wallet.Signer()
	if signer == nil {
		return "", w.fail("reveal rejected", ErrWalletNotConnected)
	}
	if bet.Player != "" && bet.Player != signer.Address() {
		return "", w.fail("reveal rejected", ErrWrongWallet)
	}

	if _, err := w.RevealOpen(); err != nil {
		return "", w.fail("reveal rejected", err)
	}

	payload := NewRevealPayload(Expand(bet.Multipliers), bet.RandomSeed)
	txHash, err := w.writer.RevealRandom(ctx, signer, payload.LuckyNumbers, payload.RandomSeed)
	if err != nil {
		log.Error("reveal", "bet", recordID, "error", err)
		return "", w.fail("reveal failed", err)
	}

	err = w.state.UpdateBetRecord(recordID, func(b *data.BetRecord) {
		b.Revealed = true
		b.RevealTxHash = txHash
	})
	if err != nil {
		log.Warn("mark revealed", "bet", recordID, "error", err)
	}

	log.Info("bet revealed", "bet", recordID, "tx", txHash)
	w.notifier.Notify(Notification{
		Level:   LevelSuccess,
		Message: "numbers revealed",
		TxHash:  txHash,
	})

	return txHash, nil
}

// Settle asks the contract to settle the current session
func (w *Workflow) Settle(ctx context.Context) (string, error) {
	if !w.settling.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer w.settling.Store(false)

	signer := w.wallet.Signer()
	if signer == nil {
		return "", w.fail("settle rejected", ErrWalletNotConnected)
	}

	txHash, err := w.writer.SettleLottery(ctx, signer)
	if err != nil {
		log.Error("settle", "error", err)
		return "", w.fail("settle failed", err)
	}

	w.notifier.Notify(Notification{
		Level:   LevelSuccess,
		Message: "settlement requested",
		TxHash:  txHash,
	})

	return txHash, nil
}

// ApplyResult marks the local bets of a settled session as won or lost and
// returns how many records changed
func (w *Workflow) ApplyResult(result *data.LotteryResult) int {
	if result == nil {
		return 0
	}

	history := w.state.History()
	bets := make([]*data.BetRecord, 0, len(history))
	for _, bet := range history {
		if bet.RoundID == result.SessionID {
			bets = append(bets, bet)
		}
	}

	// each winner entry pays one bet of that player holding the number;
	// entries outnumbering such bets add to the last one matched
	rewards := make(map[string]*big.Int)
	for _, winner := range result.Winners {
		amount, ok := new(big.Int).SetString(winner.RewardAmount, 10)
		if !ok {
			amount = big.NewInt(0)
		}

		var target *data.BetRecord
		for _, bet := range bets {
			if bet.Player != winner.Address || bet.Multipliers[winner.BetNumber] == 0 {
				continue
			}
			target = bet
			if _, taken := rewards[bet.ID]; !taken {
				break
			}
		}
		if target == nil {
			continue
		}

		if prev, ok := rewards[target.ID]; ok {
			amount.Add(amount, prev)
		}
		rewards[target.ID] = amount
	}

	changed := 0
	for _, bet := range bets {
		reward, won := rewards[bet.ID]
		err := w.state.UpdateBetRecord(bet.ID, func(b *data.BetRecord) {
			b.Won = won
			b.Reward = ""
			if won {
				b.Reward = reward.String()
			}
		})
		if err == nil {
			changed++
		}
	}

	winning := result.WinningNumber
	w.state.UpdateCurrentRound(func(round *data.LotteryRound) {
		if round.ID != result.SessionID {
			return
		}
		round.WinningNumber = &winning
		round.Settled = true
	})

	return changed
}

func addAmounts(a, b string) string {
	x, ok := new(big.Int).SetString(a, 10)
	if !ok {
		x = big.NewInt(0)
	}
	y, ok := new(big.Int).SetString(b, 10)
	if !ok {
		y = big.NewInt(0)
	}

	return x.Add(x, y).String()
}
