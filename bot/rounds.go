package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/utils"
)

// RoundChanged announces new sessions to the group and publishes the result
// of the session that just settled or ended
func (b *Bot) RoundChanged(prev *data.LotteryRound, next data.LotteryRound) {
	switch {
	case next.Settled && (prev == nil || prev.ID != next.ID || !prev.Settled):
		b.publishResult(next.ID)
	case prev != nil && prev.ID != next.ID && !prev.Settled:
		b.publishResult(prev.ID)
	}

	if prev == nil || prev.ID != next.ID {
		if msg, err := b.sendGameInfo(nil); err == nil {
			b.mu.Lock()
			b.lastInfoMessage = msg.MessageID
			b.mu.Unlock()
		}
		return
	}

	b.mu.RLock()
	lastInfo := b.lastInfoMessage
	b.mu.RUnlock()
	if lastInfo != 0 && b.cfg.Bot.GroupID != 0 {
		msg := tgbotapi.NewEditMessageText(b.cfg.Bot.GroupID, lastInfo, b.gameInfo())
		msg.ParseMode = tgbotapi.ModeMarkdown
		b.send.Send(msg)
	}
}

func (b *Bot) publishResult(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := b.gateway.GetLotteryResult(ctx, sessionID)
	if err != nil {
		log.Warn("can not get lottery result", "session", sessionID, "error", err)
		return
	}

	for _, s := range b.allSessions() {
		if s.workflow.ApplyResult(result) == 0 {
			continue
		}
		for _, bet := range s.state.History() {
			if bet.RoundID == result.SessionID && bet.Won {
				b.sendMessage(s.user.ID, fmt.Sprintf("🤑 You won %s in round #%s", b.views.amount(bet.Reward), result.SessionID))
			}
		}
	}

	b.sendToGroup(b.groupResult(result))
}

func (b *Bot) groupResult(result *data.LotteryResult) string {
	text := fmt.Sprintf("`Round #%s: winning number` `%03d`\n", result.SessionID, result.WinningNumber)
	if len(result.Winners) == 0 {
		return text + "😔 Nobody won"
	}

	counts := make(map[string]int)
	names := make([]string, 0, len(result.Winners))
	for _, w := range result.Winners {
		name := utils.ShortenAddress(w.Address)
		if user := b.getUserByAddress(w.Address); user != nil {
			b.mu.RLock()
			tg := b.tgUsers[user.ID]
			b.mu.RUnlock()
			if tg != nil {
				name = utils.FormatDbTgUser(tg)
			}
		}
		if counts[name] == 0 {
			names = append(names, name)
		}
		counts[name]++
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		line := name
		if counts[name] > 1 {
			line += fmt.Sprintf(" (x%v)", counts[name])
		}
		lines = append(lines, line)
	}

	verb := "has"
	if len(names) > 1 {
		verb = "have"
	}

	text += fmt.Sprintf("%s %s won %s 🥳", strings.Join(lines, ", "), verb, b.views.amount(result.TotalRewards))

	return strings.ReplaceAll(text, "_", "\\_")
}
