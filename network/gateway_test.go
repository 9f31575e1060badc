package network

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/DrDelphi/LuckeeBot/data"
)

type fakeBackend struct {
	responses map[string]string
	err       error
	queries   []string
}

func (f *fakeBackend) QuerySmart(_ context.Context, _ string, query []byte) ([]byte, error) {
	f.queries = append(f.queries, string(query))
	if f.err != nil {
		return nil, f.err
	}
	name, _, err := SplitMessage(query)
	if err != nil {
		return nil, err
	}
	res, ok := f.responses[name]
	if !ok {
		return nil, errEmptyResponse
	}
	return []byte(res), nil
}

func (f *fakeBackend) BlockHeight(context.Context) (uint64, error) {
	return 42, f.err
}

func (f *fakeBackend) Balance(context.Context, string, string) (string, error) {
	return "1000", f.err
}

type fakeSigner struct {
	msgs  []string
	funds [][]data.Coin
	err   error
}

func (f *fakeSigner) Address() string {
	return "cosmwasm1tester"
}

func (f *fakeSigner) Execute(_ context.Context, _ string, msg []byte, funds []data.Coin) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.msgs = append(f.msgs, string(msg))
	f.funds = append(f.funds, funds)
	return "HASH", nil
}

func TestGetCurrentSession(t *testing.T) {
	backend := &fakeBackend{responses: map[string]string{
		queryCurrentSession: `{"session":{"session_id":"7","phase":"reveal","total_pool":"100","created_height":10,"participants":[{"address":"a","bet_number":3}]}}`,
	}}
	g := NewGateway(backend, "contract")

	session, err := g.GetCurrentSession(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentSession: %v", err)
	}
	if session.SessionID != "7" || session.Phase != data.PhaseReveal || session.CreatedHeight != 10 {
		t.Errorf("session = %+v", session)
	}
	if len(session.Participants) != 1 || session.Participants[0].BetNumber != 3 {
		t.Errorf("participants = %+v", session.Participants)
	}
	if backend.queries[0] != `{"get_current_session":{}}` {
		t.Errorf("query = %s", backend.queries[0])
	}
}

func TestQueryErrorsAreCategorized(t *testing.T) {
	cause := errors.New("connection refused")
	g := NewGateway(&fakeBackend{err: cause}, "contract")

	_, err := g.GetConfig(context.Background())
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("error = %v, want *QueryError", err)
	}
	if qe.What != "config" {
		t.Errorf("What = %q, want config", qe.What)
	}
	if !errors.Is(err, cause) {
		t.Error("QueryError should wrap the backend error")
	}
	if !strings.HasPrefix(err.Error(), "failed to get config") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestMalformedResponse(t *testing.T) {
	g := NewGateway(&fakeBackend{responses: map[string]string{queryStats: `not json`}}, "contract")
	if _, err := g.GetStats(context.Background()); !errors.Is(err, errInvalidResponse) {
		t.Errorf("GetStats error = %v, want errInvalidResponse", err)
	}
}

func TestMissingWrappedField(t *testing.T) {
	g := NewGateway(&fakeBackend{responses: map[string]string{queryLotteryResult: `{}`}}, "contract")
	if _, err := g.GetLotteryResult(context.Background(), "1"); !errors.Is(err, errEmptyResponse) {
		t.Errorf("GetLotteryResult error = %v, want errEmptyResponse", err)
	}
}

func TestGetLotteryHistoryArgs(t *testing.T) {
	backend := &fakeBackend{responses: map[string]string{
		queryLotteryHistory: `{"results":[{"session_id":"1","winning_number":77}]}`,
	}}
	g := NewGateway(backend, "contract")

	results, err := g.GetLotteryHistory(context.Background(), 5, "")
	if err != nil {
		t.Fatalf("GetLotteryHistory: %v", err)
	}
	if len(results) != 1 || results[0].WinningNumber != 77 {
		t.Errorf("results = %+v", results)
	}
	if backend.queries[0] != `{"get_lottery_history":{"limit":5}}` {
		t.Errorf("query = %s", backend.queries[0])
	}
}

func TestExecuteMessages(t *testing.T) {
	g := NewGateway(&fakeBackend{}, "contract")
	signer := &fakeSigner{}
	funds := []data.Coin{{Denom: "uluckee", Amount: "3000000"}}

	if _, err := g.PlaceBet(context.Background(), signer, "abcd", funds); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	if _, err := g.RevealRandom(context.Background(), signer, []uint16{12, 12, 45}, "7"); err != nil {
		t.Fatalf("RevealRandom: %v", err)
	}
	hash, err := g.SettleLottery(context.Background(), signer)
	if err != nil || hash != "HASH" {
		t.Fatalf("SettleLottery = %q, %v", hash, err)
	}

	want := []string{
		`{"place_bet":{"commitment_hash":"abcd"}}`,
		`{"reveal_random":{"lucky_numbers":[12,12,45],"random_seed":"7"}}`,
		`{"settle_lottery":{}}`,
	}
	for i, w := range want {
		var got, exp interface{}
		_ = json.Unmarshal([]byte(signer.msgs[i]), &got)
		_ = json.Unmarshal([]byte(w), &exp)
		gb, _ := json.Marshal(got)
		eb, _ := json.Marshal(exp)
		if string(gb) != string(eb) {
			t.Errorf("msg[%d] = %s, want %s", i, signer.msgs[i], w)
		}
	}
	if len(signer.funds[0]) != 1 || signer.funds[0][0].Amount != "3000000" {
		t.Errorf("place_bet funds = %+v", signer.funds[0])
	}
}

func TestExecuteWithoutSigner(t *testing.T) {
	g := NewGateway(&fakeBackend{}, "contract")
	if _, err := g.SettleLottery(context.Background(), nil); !errors.Is(err, ErrNoSigner) {
		t.Errorf("SettleLottery(nil) error = %v, want ErrNoSigner", err)
	}
}

func TestExecuteErrorWrapsCause(t *testing.T) {
	cause := errors.New("user rejected")
	g := NewGateway(&fakeBackend{}, "contract")
	_, err := g.PlaceBet(context.Background(), &fakeSigner{err: cause}, "x", nil)
	var ee *ExecuteError
	if !errors.As(err, &ee) || ee.Action != "place bet" {
		t.Fatalf("error = %v, want place bet ExecuteError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("ExecuteError should wrap the signer error")
	}
}
