package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/lottery"
)

func (b *Bot) mainMenu(user *data.User) {
	menu := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuGameInfo),
			tgbotapi.NewKeyboardButton(menuBet),
			tgbotapi.NewKeyboardButton(menuReveal),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuResult),
			tgbotapi.NewKeyboardButton(menuHistory),
			tgbotapi.NewKeyboardButton(menuAnalysis),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuBalance),
			tgbotapi.NewKeyboardButton(menuMainHelp),
			tgbotapi.NewKeyboardButton(menuAbout),
		),
	)

	b.sendMarkup(user.ID, "`🏘 Main menu`", menu)
}

func betKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🎲 Quick pick %d", quickPickSize), cbQuickPick),
			tgbotapi.NewInlineKeyboardButtonData("🌱 New seed", cbSeed),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Clear", cbClear),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", cbRefreshBet),
			tgbotapi.NewInlineKeyboardButtonData("✅ Submit", cbSubmit),
		),
	)
}

func revealKeyboard(bets []*data.BetRecord) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(bets))
	for _, bet := range bets {
		label := fmt.Sprintf("🔓 #%s (%d)", bet.RoundID, bet.TotalAmount)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, cbReveal+bet.ID)))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func historyData(status lottery.HistoryStatus, page int) string {
	return fmt.Sprintf("%s%s:%d", cbHistory, status, page)
}

func historyKeyboard(filter lottery.HistoryFilter, page, pages int) tgbotapi.InlineKeyboardMarkup {
	filters := make([]tgbotapi.InlineKeyboardButton, 0, 4)
	for _, status := range []lottery.HistoryStatus{lottery.StatusAll, lottery.StatusWon, lottery.StatusLost, lottery.StatusPending} {
		label := string(status)
		if status == filter.Status || filter.Status == "" && status == lottery.StatusAll {
			label = "• " + label
		}
		filters = append(filters, tgbotapi.NewInlineKeyboardButtonData(label, historyData(status, 1)))
	}

	status := filter.Status
	if status == "" {
		status = lottery.StatusAll
	}
	nav := make([]tgbotapi.InlineKeyboardButton, 0, 2)
	if page > 1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️", historyData(status, page-1)))
	}
	if page < pages {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️", historyData(status, page+1)))
	}

	if len(nav) == 0 {
		return tgbotapi.NewInlineKeyboardMarkup(filters)
	}

	return tgbotapi.NewInlineKeyboardMarkup(filters, nav)
}

func walletKeyboard(local bool) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, 2)
	if local {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("🔑 PEM file", cbPEM))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData("🔌 Disconnect", cbDisconnect))

	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func connectKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔗 Connect wallet", cbConnect),
	))
}
