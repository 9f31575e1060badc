package network

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DrDelphi/LuckeeBot/data"
	logger "github.com/ElrondNetwork/elrond-go-logger"
)

var log = logger.GetOrCreate("network")

// Backend runs read-only requests against a chain node
type Backend interface {
	QuerySmart(ctx context.Context, contract string, query []byte) ([]byte, error)
	BlockHeight(ctx context.Context) (uint64, error)
	Balance(ctx context.Context, address, denom string) (string, error)
}

// Signer submits execute messages on behalf of a wallet and returns the tx hash
type Signer interface {
	Address() string
	Execute(ctx context.Context, contract string, msg []byte, funds []data.Coin) (string, error)
}

// Gateway - typed access to the lottery contract
type Gateway struct {
	backend  Backend
	contract string
}

// NewGateway - creates a new Gateway object
func NewGateway(backend Backend, contract string) *Gateway {
	return &Gateway{
		backend:  backend,
		contract: contract,
	}
}

// Contract returns the contract address the gateway talks to
func (g *Gateway) Contract() string {
	return g.contract
}

func (g *Gateway) query(ctx context.Context, what, name string, args interface{}, out interface{}) error {
	msg, err := EncodeMessage(name, args)
	if err != nil {
		return &QueryError{What: what, Err: err}
	}

	res, err := g.backend.QuerySmart(ctx, g.contract, msg)
	if err != nil {
		log.Debug("contract query failed", "query", name, "error", err)
		return &QueryError{What: what, Err: err}
	}

	if len(res) == 0 {
		return &QueryError{What: what, Err: errEmptyResponse}
	}

	if err = json.Unmarshal(res, out); err != nil {
		return &QueryError{What: what, Err: fmt.Errorf("%w: %v", errInvalidResponse, err)}
	}

	return nil
}

func (g *Gateway) GetCurrentSession(ctx context.Context) (*data.LotterySession, error) {
	res := struct {
		Session *data.LotterySession `json:"session"`
	}{}
	if err := g.query(ctx, "current session", queryCurrentSession, nil, &res); err != nil {
		return nil, err
	}

	if res.Session == nil {
		return nil, &QueryError{What: "current session", Err: errEmptyResponse}
	}

	return res.Session, nil
}

func (g *Gateway) GetParticipantInfo(ctx context.Context, address string) (*data.Participant, error) {
	args := map[string]string{"participant": address}
	res := struct {
		Participant *data.Participant `json:"participant"`
	}{}
	if err := g.query(ctx, "participant info", queryParticipantInfo, args, &res); err != nil {
		return nil, err
	}

	if res.Participant == nil {
		return nil, &QueryError{What: "participant info", Err: errEmptyResponse}
	}

	return res.Participant, nil
}

func (g *Gateway) GetLotteryResult(ctx context.Context, sessionID string) (*data.LotteryResult, error) {
	args := map[string]string{"session_id": sessionID}
	res := struct {
		Result *data.LotteryResult `json:"result"`
	}{}
	if err := g.query(ctx, "lottery result", queryLotteryResult, args, &res); err != nil {
		return nil, err
	}

	if res.Result == nil {
		return nil, &QueryError{What: "lottery result", Err: errEmptyResponse}
	}

	return res.Result, nil
}

func (g *Gateway) GetCurrentPhase(ctx context.Context) (*data.PhaseInfo, error) {
	res := &data.PhaseInfo{}
	if err := g.query(ctx, "current phase", queryCurrentPhase, nil, res); err != nil {
		return nil, err
	}

	return res, nil
}

func (g *Gateway) GetConfig(ctx context.Context) (*data.ContractConfig, error) {
	res := struct {
		Config *data.ContractConfig `json:"config"`
	}{}
	if err := g.query(ctx, "config", queryConfig, nil, &res); err != nil {
		return nil, err
	}

	if res.Config == nil {
		return nil, &QueryError{What: "config", Err: errEmptyResponse}
	}

	return res.Config, nil
}

// GetLotteryHistory returns up to limit settled results, starting after the given
// session id when it is not empty
func (g *Gateway) GetLotteryHistory(ctx context.Context, limit uint32, startAfter string) ([]data.LotteryResult, error) {
	args := struct {
		Limit      uint32 `json:"limit"`
		StartAfter string `json:"start_after,omitempty"`
	}{Limit: limit, StartAfter: startAfter}
	res := struct {
		Results []data.LotteryResult `json:"results"`
	}{}
	if err := g.query(ctx, "lottery history", queryLotteryHistory, args, &res); err != nil {
		return nil, err
	}

	return res.Results, nil
}

func (g *Gateway) GetParticipants(ctx context.Context) ([]data.Participant, error) {
	res := struct {
		Participants []data.Participant `json:"participants"`
	}{}
	if err := g.query(ctx, "participants", queryParticipants, nil, &res); err != nil {
		return nil, err
	}

	return res.Participants, nil
}

func (g *Gateway) GetStats(ctx context.Context) (*data.StatsInfo, error) {
	res := &data.StatsInfo{}
	if err := g.query(ctx, "stats", queryStats, nil, res); err != nil {
		return nil, err
	}

	return res, nil
}

func (g *Gateway) GetVersion(ctx context.Context) (*data.VersionInfo, error) {
	res := &data.VersionInfo{}
	if err := g.query(ctx, "version", queryVersion, nil, res); err != nil {
		return nil, err
	}

	return res, nil
}

// BlockHeight returns the latest block height known to the backend
func (g *Gateway) BlockHeight(ctx context.Context) (uint64, error) {
	height, err := g.backend.BlockHeight(ctx)
	if err != nil {
		return 0, &QueryError{What: "block height", Err: err}
	}

	return height, nil
}

// Balance returns the balance of address in denom, in base units
func (g *Gateway) Balance(ctx context.Context, address, denom string) (string, error) {
	balance, err := g.backend.Balance(ctx, address, denom)
	if err != nil {
		return "", &QueryError{What: "balance", Err: err}
	}

	return balance, nil
}

func (g *Gateway) execute(ctx context.Context, action string, signer Signer, name string, args interface{}, funds []data.Coin) (string, error) {
	if signer == nil {
		return "", &ExecuteError{Action: action, Err: ErrNoSigner}
	}

	msg, err := EncodeMessage(name, args)
	if err != nil {
		return "", &ExecuteError{Action: action, Err: err}
	}

	hash, err := signer.Execute(ctx, g.contract, msg, funds)
	if err != nil {
		log.Warn("execute failed", "message", name, "sender", signer.Address(), "error", err)
		return "", &ExecuteError{Action: action, Err: err}
	}

	log.Info("execute sent", "message", name, "sender", signer.Address(), "hash", hash)

	return hash, nil
}

// PlaceBet submits the commitment hash together with the bet funds
func (g *Gateway) PlaceBet(ctx context.Context, signer Signer, commitmentHash string, funds []data.Coin) (string, error) {
	args := map[string]string{"commitment_hash": commitmentHash}

	return g.execute(ctx, "place bet", signer, execPlaceBet, args, funds)
}

// RevealRandom discloses the committed numbers and seed
func (g *Gateway) RevealRandom(ctx context.Context, signer Signer, luckyNumbers []uint16, randomSeed string) (string, error) {
	args := struct {
		LuckyNumbers []uint16 `json:"lucky_numbers"`
		RandomSeed   string   `json:"random_seed"`
	}{LuckyNumbers: luckyNumbers, RandomSeed: randomSeed}

	return g.execute(ctx, "reveal random", signer, execRevealRandom, args, nil)
}

func (g *Gateway) SettleLottery(ctx context.Context, signer Signer) (string, error) {
	return g.execute(ctx, "settle lottery", signer, execSettleLottery, nil, nil)
}
