package bot

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/lottery"
)

func (b *Bot) sendGameInfo(user *data.User) (tgbotapi.Message, error) {
	text := b.gameInfo()
	if user == nil {
		return b.sendToGroup(text)
	}

	return b.sendMessage(user.ID, text)
}

func (b *Bot) sendBetSlip(user *data.User, s *session) {
	var est *lottery.PhaseEstimate
	if e, ok := s.workflow.Phase(); ok {
		est = &e
	}

	b.sendMarkup(user.ID, b.views.betSlip(s.workflow.Selection(), est), betKeyboard())
}

// sendInputError reports rejected input without touching the selection
func (b *Bot) sendInputError(user *data.User, err error) {
	b.sendMessage(user.ID, "⛔️ "+err.Error())
}

func (b *Bot) submitBet(user *data.User, s *session) {
	view := s.workflow.Selection()
	if !view.HasSeed && len(view.Numbers) > 0 {
		if _, err := s.workflow.GenerateSeed(); err != nil {
			b.sendInputError(user, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if _, err := s.workflow.SubmitBet(ctx); errors.Is(err, lottery.ErrBusy) {
		b.sendMessage(user.ID, "⌛️ Your previous bet is still being sent")
	}
}

func (b *Bot) pendingBets(s *session) []*data.BetRecord {
	round, hasRound := s.state.CurrentRound()

	res := make([]*data.BetRecord, 0)
	for _, bet := range lottery.FilterHistory(s.state.History(), lottery.HistoryFilter{Status: lottery.StatusPending}) {
		if hasRound && bet.RoundID != round.ID {
			continue
		}
		res = append(res, bet)
	}

	return res
}

func (b *Bot) sendReveal(user *data.User, s *session) {
	var est *lottery.PhaseEstimate
	if e, ok := s.workflow.Phase(); ok {
		est = &e
	}

	bets := b.pendingBets(s)
	text := b.views.pendingReveals(bets, est)
	if len(bets) == 0 {
		b.sendMessage(user.ID, text)
		return
	}

	b.sendMarkup(user.ID, text, revealKeyboard(bets))
}

func (b *Bot) revealBet(user *data.User, s *session, id string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if _, err := s.workflow.Reveal(ctx, id); errors.Is(err, lottery.ErrBusy) {
		b.sendMessage(user.ID, "⌛️ A reveal is still being sent")
	}
}

// revealAll reveals every pending bet of the current round
func (b *Bot) revealAll(user *data.User, s *session) {
	bets := b.pendingBets(s)
	if len(bets) == 0 {
		b.sendMessage(user.ID, "🚫 Nothing to reveal")
		return
	}

	for _, bet := range bets {
		b.revealBet(user, s, bet.ID)
	}
}

func (b *Bot) findBet(s *session, prefix string) (*data.BetRecord, bool) {
	for _, bet := range s.state.History() {
		if bet.ID == prefix || strings.HasPrefix(bet.ID, prefix) {
			return bet, true
		}
	}

	return nil, false
}

func (b *Bot) settle(user *data.User, s *session) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if _, err := s.workflow.Settle(ctx); errors.Is(err, lottery.ErrBusy) {
		b.sendMessage(user.ID, "⌛️ Settlement is still being sent")
	}
}

func (b *Bot) sendResult(user *data.User, s *session, sessionID string) {
	if sessionID == "" {
		round, ok := s.state.CurrentRound()
		if !ok {
			b.sendMessage(user.ID, "⌛️ No round yet")
			return
		}
		sessionID = round.ID
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := b.gateway.GetLotteryResult(ctx, sessionID)
	if err != nil {
		log.Warn("can not get lottery result", "session", sessionID, "error", err)
		b.sendMessage(user.ID, "❕ No result for round #"+sessionID+" yet")
		return
	}

	s.workflow.ApplyResult(result)
	b.sendMessage(user.ID, b.views.result(result))
}

func (b *Bot) sendHistory(user *data.User, s *session, filter lottery.HistoryFilter, page int) {
	bets := lottery.FilterHistory(s.state.History(), filter)
	items, page, pages := lottery.Paginate(bets, page, historyPageSize)
	s.setHistoryState(filter, page)

	b.sendMarkup(user.ID, b.views.history(items, filter, page, pages), historyKeyboard(filter, page, pages))
}

func (b *Bot) sendAnalysis(user *data.User, s *session) {
	history := s.state.History()
	s.state.SetLotteryStats(lottery.ComputeStats(history))
	b.sendMessage(user.ID, b.views.analysis(history, b.now()))
}

func (b *Bot) sendBalance(user *data.User, s *session) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if _, err := s.adapter.RefreshBalance(ctx); err != nil {
		log.Debug("can not refresh balance", "user", user.ID, "error", err)
	}

	info, ok := s.adapter.Info()
	if !ok {
		b.sendMarkup(user.ID, "❕ No wallet connected", connectKeyboard())
		return
	}

	b.sendMarkup(user.ID, b.views.balance(info), walletKeyboard(info.Kind == data.WalletLocal))
}

func (b *Bot) connectWallet(user *data.User, s *session) {
	if s.adapter.Connected() {
		b.sendBalance(user, s)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if _, err := s.adapter.Connect(ctx, data.WalletLocal); err != nil {
		log.Warn("can not connect local wallet", "user", user.ID, "error", err)
		b.sendMessage(user.ID, "⛔️ Can not connect wallet: "+err.Error())
		return
	}

	b.sendMessage(user.ID, "✅ Wallet connected")
	b.sendBalance(user, s)
}

func (b *Bot) disconnectWallet(user *data.User, s *session) {
	if !s.adapter.Connected() {
		b.sendMarkup(user.ID, "❕ No wallet connected", connectKeyboard())
		return
	}

	s.adapter.Disconnect()
	b.sendMarkup(user.ID, "🔌 Wallet disconnected", connectKeyboard())
}
