package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/lottery"
	"github.com/DrDelphi/LuckeeBot/store"
	"github.com/DrDelphi/LuckeeBot/wallet"
)

// session bundles the per-user state, wallet and betting workflow
type session struct {
	user     *data.User
	state    *store.Store
	local    *wallet.LocalWallet
	adapter  *wallet.Adapter
	workflow *lottery.Workflow

	mu     sync.Mutex
	filter lottery.HistoryFilter
	page   int
}

func storeKey(namespace string, userID int64) string {
	if namespace == "" {
		namespace = store.DefaultKey
	}

	return fmt.Sprintf("%s:%d", namespace, userID)
}

func (b *Bot) newSession(user *data.User) (*session, error) {
	state, err := store.New(b.kv, storeKey(b.cfg.Storage.Namespace, user.ID))
	if err != nil {
		return nil, err
	}

	local, err := wallet.NewLocalWallet(b.cfg.Seedphrase, user.ID, b.cfg.Network.AddressPrefix, b.txSender)
	if err != nil {
		return nil, err
	}

	s := &session{
		user:  user,
		state: state,
		local: local,
		page:  1,
	}

	s.adapter = wallet.NewAdapter(wallet.Options{
		ChainID:  b.cfg.ChainID,
		Denom:    b.cfg.BetDenom,
		Local:    local,
		Balances: b.gateway,
		State:    state,
		OnReload: func() {
			b.sendMessage(user.ID, "🔄 Wallet network changed, please reconnect")
		},
	})

	s.workflow = lottery.NewWorkflow(lottery.WorkflowArgs{
		Writer:   b.gateway,
		Wallet:   s.adapter,
		Store:    state,
		Clock:    b.clock,
		Notifier: b.notifier(user.ID),
		Denom:    b.cfg.BetDenom,
		Decimals: b.decimals,
	})

	if round, ok := b.currentRound(); ok {
		state.SetCurrentRound(round)
	}

	// a user who disconnected stays disconnected until /connect
	if !state.Loaded() || state.IsWalletConnected() {
		if _, err = s.adapter.Connect(context.Background(), data.WalletLocal); err != nil {
			log.Warn("can not connect local wallet", "user", user.ID, "error", err)
		}
	}

	return s, nil
}

// notifier forwards workflow outcomes to the user's chat
func (b *Bot) notifier(userID int64) lottery.Notifier {
	return lottery.NotifierFunc(func(n lottery.Notification) {
		text := n.Message
		switch n.Level {
		case lottery.LevelSuccess:
			text = "✅ " + text
		case lottery.LevelError:
			text = "⛔️ " + text
		default:
			text = "❕ " + text
		}
		if n.TxHash != "" {
			text += " - " + b.views.txLink("transaction", n.TxHash)
		}

		b.sendMessage(userID, text)
	})
}

func (s *session) historyState() (lottery.HistoryFilter, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter, s.page
}

func (s *session) setHistoryState(filter lottery.HistoryFilter, page int) {
	s.mu.Lock()
	s.filter = filter
	s.page = page
	s.mu.Unlock()
}
