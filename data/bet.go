package data

import "time"

// BetRecord is one submitted bet kept in the local, append-only history
type BetRecord struct {
	ID           string            `json:"id"`
	RoundID      string            `json:"roundId"`
	Player       string            `json:"player"`
	Numbers      []uint16          `json:"numbers"`
	Multipliers  map[uint16]uint32 `json:"multipliers"`
	RandomSeed   uint16            `json:"randomSeed"`
	TotalAmount  uint64            `json:"totalAmount"`
	Commitment   string            `json:"commitment"`
	TxHash       string            `json:"txHash"`
	Timestamp    time.Time         `json:"timestamp"`
	Revealed     bool              `json:"revealed"`
	RevealTxHash string            `json:"revealTxHash,omitempty"`
	Won          bool              `json:"won"`
	Reward       string            `json:"reward,omitempty"`
}

// Clone returns a deep copy of the record
func (b *BetRecord) Clone() *BetRecord {
	c := *b
	c.Numbers = append([]uint16(nil), b.Numbers...)
	c.Multipliers = make(map[uint16]uint32, len(b.Multipliers))
	for n, m := range b.Multipliers {
		c.Multipliers[n] = m
	}

	return &c
}

// Pending reports whether the bet still waits for its reveal
func (b *BetRecord) Pending() bool {
	return !b.Revealed
}

// Lost reports whether the bet was revealed without winning
func (b *BetRecord) Lost() bool {
	return b.Revealed && !b.Won
}

// LotteryStats aggregates a bet history for the analysis view
type LotteryStats struct {
	TotalRounds     int            `json:"totalRounds"`
	TotalBets       int            `json:"totalBets"`
	TotalWinners    int            `json:"totalWinners"`
	TotalRewards    string         `json:"totalRewards"`
	NumberFrequency map[uint16]int `json:"numberFrequency"`
	AverageAmount   string         `json:"averageBetAmount"`
	WinRate         float64        `json:"winRate"`
}
