package data

import "time"

// LotteryRound is the client-side view of the running session
type LotteryRound struct {
	ID            string    `json:"id"`
	Phase         Phase     `json:"phase"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	BlockHeight   uint64    `json:"blockHeight"`
	TotalBets     uint64    `json:"totalBets"`
	TotalAmount   string    `json:"totalAmount"`
	WinningNumber *uint16   `json:"winningNumber,omitempty"`
	Settled       bool      `json:"settled"`
}

// NetworkStatus describes the reachability of the RPC node
type NetworkStatus string

const (
	NetworkConnected    NetworkStatus = "connected"
	NetworkDisconnected NetworkStatus = "disconnected"
	NetworkConnecting   NetworkStatus = "connecting"
)
