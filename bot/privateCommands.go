package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/lottery"
	"github.com/DrDelphi/LuckeeBot/utils"
)

func (b *Bot) privateCommandReceived(message *tgbotapi.Message) {
	cmd := message.Command()
	args := message.CommandArguments()
	name := utils.FormatTgUser(message.From)

	user, s, err := b.getOrCreateUser(message.From)
	if err != nil {
		b.reportError("can not create session for " + name + ": " + err.Error())
		return
	}
	log.Info("private command received", "command", cmd, "args", args, "user", name)

	b.runCommand(user, s, cmd, strings.Fields(args))
}

func parseInts(args []string) ([]int, error) {
	res := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", arg)
		}
		res = append(res, n)
	}

	return res, nil
}

func (b *Bot) runCommand(user *data.User, s *session, cmd string, args []string) {
	switch cmd {
	case "start":
		b.sendMessage(user.ID, helpMessage)
		b.mainMenu(user)
	case "pick":
		numbers, err := parseInts(args)
		if err != nil || len(numbers) == 0 {
			b.sendMessage(user.ID, "❕ Usage: /pick 12 45 12")
			return
		}
		for _, n := range numbers {
			if err = s.workflow.SelectNumber(n); err != nil {
				b.sendInputError(user, err)
				break
			}
		}
		b.sendBetSlip(user, s)
	case "mult":
		values, err := parseInts(args)
		if err != nil || len(values) != 2 {
			b.sendMessage(user.ID, "❕ Usage: /mult 12 5")
			return
		}
		if err = s.workflow.SetMultiplier(values[0], values[1]); err != nil {
			b.sendInputError(user, err)
			return
		}
		b.sendBetSlip(user, s)
	case "unpick":
		numbers, err := parseInts(args)
		if err != nil || len(numbers) == 0 {
			b.sendMessage(user.ID, "❕ Usage: /unpick 12")
			return
		}
		for _, n := range numbers {
			s.workflow.Deselect(n)
		}
		b.sendBetSlip(user, s)
	case "quickpick":
		count := quickPickSize
		if len(args) > 0 {
			values, err := parseInts(args[:1])
			if err != nil {
				b.sendMessage(user.ID, "❕ Usage: /quickpick 5")
				return
			}
			count = values[0]
		}
		if err := s.workflow.QuickPick(count); err != nil {
			b.sendInputError(user, err)
			return
		}
		b.sendBetSlip(user, s)
	case "seed":
		if len(args) == 0 {
			if _, err := s.workflow.GenerateSeed(); err != nil {
				b.sendInputError(user, err)
				return
			}
			b.sendBetSlip(user, s)
			return
		}
		values, err := parseInts(args[:1])
		if err != nil {
			b.sendInputError(user, lottery.ErrInvalidSeed)
			return
		}
		if err = s.workflow.SetSeed(values[0]); err != nil {
			b.sendInputError(user, err)
			return
		}
		b.sendBetSlip(user, s)
	case "clear":
		s.workflow.ClearSelection()
		b.sendBetSlip(user, s)
	case "bet":
		b.sendBetSlip(user, s)
	case "submit":
		b.submitBet(user, s)
	case "reveal":
		if len(args) == 0 {
			b.revealAll(user, s)
			return
		}
		bet, ok := b.findBet(s, args[0])
		if !ok {
			b.sendInputError(user, lottery.ErrBetNotFound)
			return
		}
		b.revealBet(user, s, bet.ID)
	case "settle":
		b.settle(user, s)
	case "result":
		sessionID := ""
		if len(args) > 0 {
			sessionID = args[0]
		}
		b.sendResult(user, s, sessionID)
	case "history":
		filter := lottery.HistoryFilter{Status: lottery.StatusAll}
		page := 1
		for _, arg := range args {
			switch status := lottery.HistoryStatus(strings.ToLower(arg)); status {
			case lottery.StatusAll, lottery.StatusWon, lottery.StatusLost, lottery.StatusPending:
				filter.Status = status
				continue
			}
			if p, err := strconv.Atoi(arg); err == nil {
				page = p
				continue
			}
			filter.Search = arg
		}
		b.sendHistory(user, s, filter, page)
	case "analysis":
		b.sendAnalysis(user, s)
	case "balance":
		b.sendBalance(user, s)
	case "connect":
		b.connectWallet(user, s)
	case "disconnect":
		b.disconnectWallet(user, s)
	case "info":
		b.sendGameInfo(user)
	default:
		b.sendMessage(user.ID, "❕ Unknown command, see /start")
	}
}
