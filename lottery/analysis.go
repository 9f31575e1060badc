package lottery

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/DrDelphi/LuckeeBot/data"
)

// ComputeStats aggregates a bet history; amounts are in bet units
func ComputeStats(history []*data.BetRecord) data.LotteryStats {
	stats := data.LotteryStats{
		NumberFrequency: make(map[uint16]int),
		TotalRewards:    "0",
		AverageAmount:   "0",
	}

	rounds := make(map[string]struct{})
	rewards := big.NewInt(0)
	amount := uint64(0)
	revealed := 0
	for _, bet := range history {
		stats.TotalBets++
		rounds[bet.RoundID] = struct{}{}
		amount += bet.TotalAmount
		for _, n := range bet.Numbers {
			m := int(bet.Multipliers[n])
			if m == 0 {
				m = 1
			}
			stats.NumberFrequency[n] += m
		}
		if bet.Revealed {
			revealed++
		}
		if bet.Won {
			stats.TotalWinners++
			if r, ok := new(big.Int).SetString(bet.Reward, 10); ok {
				rewards.Add(rewards, r)
			}
		}
	}

	stats.TotalRounds = len(rounds)
	stats.TotalRewards = rewards.String()
	if stats.TotalBets > 0 {
		avg := new(big.Rat).SetFrac64(int64(amount), int64(stats.TotalBets))
		stats.AverageAmount = avg.FloatString(2)
	}
	if revealed > 0 {
		stats.WinRate = float64(stats.TotalWinners) / float64(revealed) * 100
	}

	return stats
}

// NumberCount is one entry of a frequency ranking
type NumberCount struct {
	Number uint16
	Count  int
}

// HotNumbers returns the limit most played numbers, ties by lower number
func HotNumbers(freq map[uint16]int, limit int) []NumberCount {
	res := make([]NumberCount, 0, len(freq))
	for n, c := range freq {
		res = append(res, NumberCount{Number: n, Count: c})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].Number < res[j].Number
	})

	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}

	return res
}

// RangeBucket counts plays of numbers in [From, To]
type RangeBucket struct {
	From  uint16
	To    uint16
	Count int
}

// RangeDistribution splits 0-999 into ten buckets of a hundred numbers
func RangeDistribution(freq map[uint16]int) []RangeBucket {
	buckets := make([]RangeBucket, 10)
	for i := range buckets {
		buckets[i].From = uint16(i * 100)
		buckets[i].To = uint16(i*100 + 99)
	}
	for n, c := range freq {
		if n > MaxNumber {
			continue
		}
		buckets[n/100].Count += c
	}

	return buckets
}

// DayTrend is the activity of one calendar day
type DayTrend struct {
	Day    string
	Bets   int
	Amount uint64
	Wins   int
}

// DailyTrend groups bets of the last days days (UTC), oldest first
func DailyTrend(history []*data.BetRecord, now time.Time, days int) []DayTrend {
	if days <= 0 {
		return nil
	}

	today := now.UTC().Truncate(24 * time.Hour)
	res := make([]DayTrend, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, i-days+1).Format("2006-01-02")
		res[i].Day = day
		index[day] = i
	}

	for _, bet := range history {
		i, ok := index[bet.Timestamp.UTC().Format("2006-01-02")]
		if !ok {
			continue
		}
		res[i].Bets++
		res[i].Amount += bet.TotalAmount
		if bet.Won {
			res[i].Wins++
		}
	}

	return res
}

type HistoryStatus string

const (
	StatusAll     HistoryStatus = "all"
	StatusWon     HistoryStatus = "won"
	StatusLost    HistoryStatus = "lost"
	StatusPending HistoryStatus = "pending"
)

// HistoryFilter narrows the history view
type HistoryFilter struct {
	Status HistoryStatus
	// Search matches the round id, tx hash or a selected number
	Search string
}

func (f HistoryFilter) match(bet *data.BetRecord) bool {
	switch f.Status {
	case StatusWon:
		if !bet.Won {
			return false
		}
	case StatusLost:
		if !bet.Lost() {
			return false
		}
	case StatusPending:
		if !bet.Pending() {
			return false
		}
	}

	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(bet.RoundID), q) || strings.Contains(strings.ToLower(bet.TxHash), q) {
		return true
	}
	if num, err := strconv.Atoi(q); err == nil {
		for _, n := range bet.Numbers {
			if int(n) == num {
				return true
			}
		}
	}

	return false
}

// FilterHistory returns the matching bets, newest first
func FilterHistory(history []*data.BetRecord, filter HistoryFilter) []*data.BetRecord {
	res := make([]*data.BetRecord, 0, len(history))
	for _, bet := range history {
		if filter.match(bet) {
			res = append(res, bet)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Timestamp.After(res[j].Timestamp)
	})

	return res
}

// Paginate returns page (1-based) of size items and the page count.
// Out of range pages are clamped.
func Paginate(bets []*data.BetRecord, page, size int) ([]*data.BetRecord, int, int) {
	if size <= 0 {
		size = 10
	}
	pages := (len(bets) + size - 1) / size
	if pages == 0 {
		return nil, 1, 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if end > len(bets) {
		end = len(bets)
	}

	return bets[start:end], page, pages
}
