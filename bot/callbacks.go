package bot

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/lottery"
	"github.com/DrDelphi/LuckeeBot/utils"
)

func (b *Bot) callbackQueryReceived(callback *tgbotapi.CallbackQuery) {
	if b.tgBot != nil {
		b.tgBot.AnswerCallbackQuery(tgbotapi.NewCallback(callback.ID, ""))
	}

	name := utils.FormatTgUser(callback.From)
	user, s, err := b.getOrCreateUser(callback.From)
	if err != nil {
		b.reportError("can not create session for " + name + ": " + err.Error())
		return
	}
	log.Info("callback received", "callback", callback.Data, "user", name)

	b.callbackSelected(user, s, callback.Data)
}

func (b *Bot) callbackSelected(user *data.User, s *session, cb string) {
	switch {
	case cb == cbPEM:
		b.sendPemFile(user, s)
	case cb == cbConnect:
		b.connectWallet(user, s)
	case cb == cbDisconnect:
		b.disconnectWallet(user, s)
	case cb == cbSubmit:
		b.submitBet(user, s)
	case cb == cbClear:
		s.workflow.ClearSelection()
		b.sendBetSlip(user, s)
	case cb == cbSeed:
		if _, err := s.workflow.GenerateSeed(); err != nil {
			b.sendInputError(user, err)
			return
		}
		b.sendBetSlip(user, s)
	case cb == cbQuickPick:
		if err := s.workflow.QuickPick(quickPickSize); err != nil {
			b.sendInputError(user, err)
			return
		}
		b.sendBetSlip(user, s)
	case cb == cbRefreshBet:
		b.sendBetSlip(user, s)
	case strings.HasPrefix(cb, cbReveal):
		b.revealBet(user, s, strings.TrimPrefix(cb, cbReveal))
	case strings.HasPrefix(cb, cbHistory):
		parts := strings.Split(strings.TrimPrefix(cb, cbHistory), ":")
		if len(parts) != 2 {
			return
		}
		page, err := strconv.Atoi(parts[1])
		if err != nil {
			return
		}
		filter, _ := s.historyState()
		filter.Status = lottery.HistoryStatus(parts[0])
		b.sendHistory(user, s, filter, page)
	}
}

func (b *Bot) sendPemFile(user *data.User, s *session) {
	pem, err := s.local.PEM()
	if err != nil {
		log.Error("can not export pem", "user", user.ID, "error", err)
		return
	}

	fileable := tgbotapi.NewDocumentUpload(user.ID, tgbotapi.FileBytes{
		Name:  s.local.Address() + ".pem",
		Bytes: pem,
	})
	b.send.Send(fileable)
}
