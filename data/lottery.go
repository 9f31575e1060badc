package data

// Phase is the stage of a lottery session
type Phase string

const (
	PhaseCommitment Phase = "commitment"
	PhaseReveal     Phase = "reveal"
	PhaseSettlement Phase = "settlement"
)

// Next returns the phase following p in the session cycle
func (p Phase) Next() Phase {
	switch p {
	case PhaseCommitment:
		return PhaseReveal
	case PhaseReveal:
		return PhaseSettlement
	default:
		return PhaseCommitment
	}
}

// Valid reports whether p is one of the known phases
func (p Phase) Valid() bool {
	return p == PhaseCommitment || p == PhaseReveal || p == PhaseSettlement
}

// LotterySession is the session object returned by get_current_session
type LotterySession struct {
	SessionID     string        `json:"session_id"`
	Phase         Phase         `json:"phase"`
	TotalPool     string        `json:"total_pool"`
	ServiceFee    string        `json:"service_fee"`
	Participants  []Participant `json:"participants"`
	CreatedHeight uint64        `json:"created_height"`
	WinningNumber *uint16       `json:"winning_number,omitempty"`
	Settled       bool          `json:"settled"`
}

// Participant is a bettor as seen by the contract
type Participant struct {
	Address        string `json:"address"`
	BetAmount      string `json:"bet_amount"`
	BetNumber      uint16 `json:"bet_number"`
	BetMultiplier  uint32 `json:"bet_multiplier"`
	RandomSeed     string `json:"random_seed,omitempty"`
	Revealed       bool   `json:"revealed"`
	CommitmentHash string `json:"commitment_hash,omitempty"`
}

// LotteryResult is the outcome of a settled session
type LotteryResult struct {
	SessionID     string   `json:"session_id"`
	WinningNumber uint16   `json:"winning_number"`
	Winners       []Winner `json:"winners"`
	TotalRewards  string   `json:"total_rewards"`
	SettledHeight uint64   `json:"settled_height"`
}

// Winner is one rewarded participant of a settled session
type Winner struct {
	Address      string `json:"address"`
	RewardAmount string `json:"reward_amount"`
	BetNumber    uint16 `json:"bet_number"`
}

// PhaseInfo is the contract's own view of the current phase
type PhaseInfo struct {
	Phase       Phase  `json:"phase"`
	BlockHeight uint64 `json:"block_height"`
	PhaseMod    uint64 `json:"phase_mod"`
}

// ContractConfig holds the contract settings returned by get_config
type ContractConfig struct {
	Admin          string `json:"admin"`
	ServiceFeeRate string `json:"service_fee_rate"`
	MinBetAmount   string `json:"min_bet_amount"`
	MaxBetAmount   string `json:"max_bet_amount"`
	BetDenom       string `json:"bet_denom"`
	Paused         bool   `json:"paused"`
	PauseRequested bool   `json:"pause_requested"`
}

// StatsInfo holds the all-time contract totals
type StatsInfo struct {
	TotalSessions     uint64 `json:"total_sessions"`
	TotalParticipants uint64 `json:"total_participants"`
	TotalPool         string `json:"total_pool"`
	TotalServiceFee   string `json:"total_service_fee"`
	TotalRewards      string `json:"total_rewards"`
}

// VersionInfo identifies the deployed contract
type VersionInfo struct {
	ContractName    string `json:"contract_name"`
	ContractVersion string `json:"contract_version"`
}

// Coin is an amount of a native denomination attached to an execute message
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}
