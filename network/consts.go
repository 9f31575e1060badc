package network

import "errors"

var (
	errEmptyResponse   = errors.New("empty response")
	errInvalidResponse = errors.New("invalid result")

	// ErrNoSigner is returned by execute methods called without a wallet
	ErrNoSigner = errors.New("a connected wallet is required")
	// ErrInvalidMessage is returned for messages that are not a single-key JSON object
	ErrInvalidMessage = errors.New("invalid contract message")
)

const (
	queryCurrentSession  = "get_current_session"
	queryParticipantInfo = "get_participant_info"
	queryLotteryResult   = "get_lottery_result"
	queryCurrentPhase    = "get_current_phase"
	queryConfig          = "get_config"
	queryLotteryHistory  = "get_lottery_history"
	queryParticipants    = "get_participants"
	queryStats           = "get_stats"
	queryVersion         = "get_version"

	execPlaceBet      = "place_bet"
	execRevealRandom  = "reveal_random"
	execSettleLottery = "settle_lottery"

	metachainShardID = 4294967295
)
