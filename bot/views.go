package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/lottery"
	"github.com/DrDelphi/LuckeeBot/utils"
)

// views renders chat messages; it holds only display settings
type views struct {
	decimals        int32
	ticker          string
	explorerTx      string
	explorerAccount string
}

func (v *views) amount(baseUnits string) string {
	return fmt.Sprintf("%s %s", utils.FormatAmount(baseUnits, v.decimals), v.ticker)
}

func (v *views) txLink(label, hash string) string {
	if v.explorerTx == "" {
		return fmt.Sprintf("%s `%s`", label, hash)
	}

	return fmt.Sprintf("[%s](%s%s)", label, v.explorerTx, hash)
}

func phaseIcon(phase data.Phase) string {
	switch phase {
	case data.PhaseCommitment:
		return "📝"
	case data.PhaseReveal:
		return "🔓"
	case data.PhaseSettlement:
		return "🎲"
	}

	return "❔"
}

func progressBar(percent int) string {
	filled := percent / 10
	if filled > 10 {
		filled = 10
	}

	return strings.Repeat("▰", filled) + strings.Repeat("▱", 10-filled)
}

func (v *views) gameInfo(round *data.LotteryRound, est lottery.PhaseEstimate, height uint64, status data.NetworkStatus) string {
	text := "`Game Info`\n\n"
	if round == nil {
		text += "⌛️ Waiting for the first round\n"
		text += fmt.Sprintf("`Network:` %s\n", status)
		return text
	}

	text += fmt.Sprintf("`Round:` #%s\n", round.ID)
	text += fmt.Sprintf("`Phase:` %s %s (%s left)\n", phaseIcon(est.Phase), est.Phase, utils.FormatDuration(est.Remaining))
	text += fmt.Sprintf("`Progress:` %s %d%%\n", progressBar(est.Progress()), est.Progress())
	text += fmt.Sprintf("`Bets:` %d\n", round.TotalBets)
	text += fmt.Sprintf("`Pool:` %s\n", v.amount(round.TotalAmount))
	if round.WinningNumber != nil {
		text += fmt.Sprintf("`Winning number:` %03d\n", *round.WinningNumber)
	}
	if round.Settled {
		text += "`Status:` settled ✅\n"
	}
	if height > 0 {
		text += fmt.Sprintf("`Block:` %d\n", height)
	}
	text += fmt.Sprintf("`Network:` %s\n", status)

	return text
}

func (v *views) betSlip(sel lottery.SelectionView, est *lottery.PhaseEstimate) string {
	text := "`Bet`\n\n"
	if len(sel.Numbers) == 0 {
		text += "Your slip is empty. Use /pick or a quick pick.\n"
	} else {
		text += fmt.Sprintf("`Numbers:` %s\n", utils.FormatSelection(sel.Numbers, sel.Multipliers))
		text += fmt.Sprintf("`Total:` %d %s\n", sel.Total, v.ticker)
	}

	if sel.HasSeed {
		text += fmt.Sprintf("`Seed:` %03d\n", sel.Seed)
	} else {
		text += "`Seed:` not set\n"
	}

	if est != nil {
		text += fmt.Sprintf("`Phase:` %s %s (%s left)\n", phaseIcon(est.Phase), est.Phase, utils.FormatDuration(est.Remaining))
		if est.Phase != data.PhaseCommitment {
			text += "\n❕ Bets placed outside the commitment phase may be refused by the contract\n"
		}
	}

	return text
}

func (v *views) betLine(bet *data.BetRecord) string {
	status := "⌛️ pending"
	switch {
	case bet.Won:
		status = "🤑 won " + v.amount(bet.Reward)
	case bet.Revealed:
		status = "🔓 revealed"
	}

	return fmt.Sprintf("`#%s` %s - %d %s - %s\n%s\n",
		bet.RoundID, utils.FormatSelection(bet.Numbers, bet.Multipliers), bet.TotalAmount, v.ticker, status,
		v.txLink(bet.Timestamp.UTC().Format("2006-01-02 15:04"), bet.TxHash))
}

func (v *views) history(bets []*data.BetRecord, filter lottery.HistoryFilter, page, pages int) string {
	status := filter.Status
	if status == "" {
		status = lottery.StatusAll
	}

	text := fmt.Sprintf("`History` (%s, page %d/%d)\n\n", status, page, pages)
	if len(bets) == 0 {
		return text + "🚫 No bets found"
	}

	for _, bet := range bets {
		text += v.betLine(bet) + "\n"
	}

	return text
}

func (v *views) pendingReveals(bets []*data.BetRecord, est *lottery.PhaseEstimate) string {
	text := "`Reveal`\n\n"
	if est != nil {
		text += fmt.Sprintf("`Phase:` %s %s (%s left)\n\n", phaseIcon(est.Phase), est.Phase, utils.FormatDuration(est.Remaining))
	}
	if len(bets) == 0 {
		return text + "🚫 Nothing to reveal"
	}

	for _, bet := range bets {
		text += fmt.Sprintf("`#%s` %s (seed %03d)\n", bet.RoundID, utils.FormatSelection(bet.Numbers, bet.Multipliers), bet.RandomSeed)
	}

	return text
}

func (v *views) result(result *data.LotteryResult) string {
	text := fmt.Sprintf("`Round #%s result`\n\n", result.SessionID)
	text += fmt.Sprintf("`Winning number:` %03d\n", result.WinningNumber)
	text += fmt.Sprintf("`Rewards:` %s\n", v.amount(result.TotalRewards))
	if len(result.Winners) == 0 {
		return text + "\n😔 Nobody won"
	}

	text += fmt.Sprintf("`Winners:` %d\n", len(result.Winners))
	for _, w := range result.Winners {
		text += fmt.Sprintf("   %s - %s\n", utils.ShortenAddress(w.Address), v.amount(w.RewardAmount))
	}

	return text
}

func (v *views) analysis(history []*data.BetRecord, now time.Time) string {
	stats := lottery.ComputeStats(history)

	text := "`Analysis`\n\n"
	if stats.TotalBets == 0 {
		return text + "🚫 No bets yet"
	}

	text += fmt.Sprintf("`Rounds:` %d\n", stats.TotalRounds)
	text += fmt.Sprintf("`Bets:` %d\n", stats.TotalBets)
	text += fmt.Sprintf("`Average bet:` %s %s\n", stats.AverageAmount, v.ticker)
	text += fmt.Sprintf("`Wins:` %d (%.1f%%)\n", stats.TotalWinners, stats.WinRate)
	text += fmt.Sprintf("`Rewards:` %s\n", v.amount(stats.TotalRewards))

	text += "\n`Hot numbers`\n"
	for _, nc := range lottery.HotNumbers(stats.NumberFrequency, hotNumbers) {
		text += fmt.Sprintf("   %03d - %d\n", nc.Number, nc.Count)
	}

	text += "\n`Ranges`\n"
	for _, b := range lottery.RangeDistribution(stats.NumberFrequency) {
		if b.Count == 0 {
			continue
		}
		text += fmt.Sprintf("   %03d-%03d - %d\n", b.From, b.To, b.Count)
	}

	text += "\n`Last days`\n"
	for _, d := range lottery.DailyTrend(history, now, trendDays) {
		text += fmt.Sprintf("   %s - %d bets, %d %s\n", d.Day, d.Bets, d.Amount, v.ticker)
	}

	return text
}

func (v *views) balance(info data.WalletInfo) string {
	address := info.Address
	if v.explorerAccount != "" {
		address = fmt.Sprintf("[%s](%s%s)", utils.ShortenAddress(info.Address), v.explorerAccount, info.Address)
	}

	balance := info.Balance
	if balance == "" {
		balance = "0"
	}

	return fmt.Sprintf("`Wallet:` %s\n`Type:` %s\n`Balance:` %s", address, info.Kind, v.amount(balance))
}
