package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/utils"
)

func (b *Bot) privateMessageReceived(message *tgbotapi.Message) {
	name := utils.FormatTgUser(message.From)
	user, s, err := b.getOrCreateUser(message.From)
	if err != nil {
		b.reportError("can not create session for " + name + ": " + err.Error())
		return
	}
	log.Info("private message received", "message", message.Text, "user", name)

	b.menuSelected(user, s, message.Text)
}

func (b *Bot) menuSelected(user *data.User, s *session, text string) {
	switch text {
	case menuAbout:
		b.sendMessage(user.ID, aboutMessage)
	case menuMainHelp:
		_, err := b.sendMessage(user.ID, helpMessage)
		if err != nil {
			log.Error("unable to send message", "message", helpMessage, "error", err)
		}
	case menuGameInfo:
		b.sendGameInfo(user)
	case menuBet:
		b.sendBetSlip(user, s)
	case menuReveal:
		b.sendReveal(user, s)
	case menuResult:
		b.sendResult(user, s, "")
	case menuHistory:
		filter, page := s.historyState()
		b.sendHistory(user, s, filter, page)
	case menuAnalysis:
		b.sendAnalysis(user, s)
	case menuBalance:
		b.sendBalance(user, s)
	default:
		b.mainMenu(user)
	}
}
