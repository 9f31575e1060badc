package network

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DrDelphi/LuckeeBot/utils"
)

// WasmClient - queries a CosmWasm chain through its LCD REST endpoint
type WasmClient struct {
	lcd    string
	client *http.Client
}

// NewWasmClient - creates a new WasmClient object
func NewWasmClient(lcd string, timeout time.Duration) *WasmClient {
	if timeout <= 0 {
		timeout = utils.DefaultHTTPTimeout
	}

	return &WasmClient{
		lcd:    strings.TrimSuffix(lcd, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

func (wc *WasmClient) QuerySmart(ctx context.Context, contract string, query []byte) ([]byte, error) {
	encoded := base64.StdEncoding.EncodeToString(query)
	endpoint := fmt.Sprintf("%s/cosmwasm/wasm/v1/contract/%s/smart/%s", wc.lcd, contract, url.PathEscape(encoded))
	bytes, err := utils.GetHTTP(ctx, wc.client, endpoint)
	if err != nil {
		return nil, err
	}

	res := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err = json.Unmarshal(bytes, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidResponse, err)
	}

	if len(res.Data) == 0 || string(res.Data) == "null" {
		return nil, errEmptyResponse
	}

	return res.Data, nil
}

func (wc *WasmClient) BlockHeight(ctx context.Context) (uint64, error) {
	endpoint := wc.lcd + "/cosmos/base/tendermint/v1beta1/blocks/latest"
	bytes, err := utils.GetHTTP(ctx, wc.client, endpoint)
	if err != nil {
		return 0, err
	}

	res := struct {
		Block struct {
			Header struct {
				Height string `json:"height"`
			} `json:"header"`
		} `json:"block"`
	}{}
	if err = json.Unmarshal(bytes, &res); err != nil {
		return 0, fmt.Errorf("%w: %v", errInvalidResponse, err)
	}

	height, err := strconv.ParseUint(res.Block.Header.Height, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: height %q", errInvalidResponse, res.Block.Header.Height)
	}

	return height, nil
}

func (wc *WasmClient) Balance(ctx context.Context, address, denom string) (string, error) {
	endpoint := fmt.Sprintf("%s/cosmos/bank/v1beta1/balances/%s", wc.lcd, address)
	bytes, err := utils.GetHTTP(ctx, wc.client, endpoint)
	if err != nil {
		return "", err
	}

	res := struct {
		Balances []struct {
			Denom  string `json:"denom"`
			Amount string `json:"amount"`
		} `json:"balances"`
	}{}
	if err = json.Unmarshal(bytes, &res); err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidResponse, err)
	}

	for _, b := range res.Balances {
		if b.Denom == denom {
			return b.Amount, nil
		}
	}

	return "0", nil
}
