package network

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/utils"
	"github.com/ElrondNetwork/elrond-go-core/core"
	"github.com/ElrondNetwork/elrond-go-core/core/pubkeyConverter"
	"github.com/ElrondNetwork/elrond-sdk-erdgo/blockchain"
	"github.com/ElrondNetwork/elrond-sdk-erdgo/builders"
	sdkData "github.com/ElrondNetwork/elrond-sdk-erdgo/data"
	"github.com/ElrondNetwork/elrond-sdk-erdgo/interactors"
)

// NetworkManager - talks to a MultiversX proxy; contract messages travel as
// function@hex(json) call data
type NetworkManager struct {
	NetworkConfig *sdkData.NetworkConfig
	cfg           *data.AppConfig

	proxy   blockchain.Proxy
	conv    core.PubkeyConverter
	timeout time.Duration
}

// NewNetworkManager - creates a new NetworkManager object
func NewNetworkManager(cfg *data.AppConfig) (*NetworkManager, error) {
	proxy := blockchain.NewElrondProxy(cfg.Network.Proxy, nil)

	networkConfig, err := proxy.GetNetworkConfig(context.Background())
	if err != nil {
		log.Error("can not get network config from proxy", "error", err)
		return nil, err
	}

	conv, err := pubkeyConverter.NewBech32PubkeyConverter(32, log)
	if err != nil {
		log.Error("can not create converter", "error", err)
		return nil, err
	}

	timeout := time.Duration(cfg.Network.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = utils.DefaultHTTPTimeout
	}

	networkManager := &NetworkManager{
		NetworkConfig: networkConfig,
		cfg:           cfg,
		proxy:         proxy,
		conv:          conv,
		timeout:       timeout,
	}

	return networkManager, nil
}

// QuerySmart runs the contract view named by the message key, passing the
// hex encoded message body as its single argument
func (nm *NetworkManager) QuerySmart(ctx context.Context, contract string, query []byte) ([]byte, error) {
	name, body, err := SplitMessage(query)
	if err != nil {
		return nil, err
	}

	req := &sdkData.VmValueRequest{
		Address:  contract,
		FuncName: name,
		Args:     []string{hex.EncodeToString(body)},
	}
	res, err := nm.proxy.ExecuteVMQuery(ctx, req)
	if err != nil {
		log.Error("QuerySmart", "function", name, "error", err)
		return nil, err
	}

	if len(res.Data.ReturnData) == 0 {
		return nil, errEmptyResponse
	}

	return res.Data.ReturnData[0], nil
}

// BlockHeight returns the latest metachain nonce
func (nm *NetworkManager) BlockHeight(ctx context.Context) (uint64, error) {
	endpoint := fmt.Sprintf("%s/network/status/%d", nm.cfg.Network.Proxy, uint32(metachainShardID))
	ctx, cancel := context.WithTimeout(ctx, nm.timeout)
	defer cancel()

	bytes, err := utils.GetHTTP(ctx, nil, endpoint)
	if err != nil {
		log.Warn("BlockHeight", "error", err)
		return 0, err
	}

	res := struct {
		Data struct {
			Status struct {
				Nonce uint64 `json:"erd_nonce"`
			} `json:"status"`
		} `json:"data"`
	}{}
	if err = json.Unmarshal(bytes, &res); err != nil {
		return 0, fmt.Errorf("%w: %v", errInvalidResponse, err)
	}

	return res.Data.Status.Nonce, nil
}

// Balance returns the eGLD balance of the address in base units; denom is ignored
func (nm *NetworkManager) Balance(ctx context.Context, address, _ string) (string, error) {
	pubkey, err := nm.conv.Decode(address)
	if err != nil {
		log.Error("Balance - Decode", "address", address, "error", err)
		return "", err
	}

	account, err := nm.proxy.GetAccount(ctx, sdkData.NewAddressFromBytes(pubkey))
	if err != nil {
		log.Error("Balance - GetAccount", "address", address, "error", err)
		return "", err
	}

	return account.Balance, nil
}

func (nm *NetworkManager) GetAddressNonce(ctx context.Context, address string) (uint64, error) {
	pubkey, err := nm.conv.Decode(address)
	if err != nil {
		log.Error("GetAddressNonce - Decode", "address", address, "error", err)
		return 0, err
	}

	account, err := nm.proxy.GetAccount(ctx, sdkData.NewAddressFromBytes(pubkey))
	if err != nil {
		log.Error("GetAddressNonce - GetAccount", "address", address, "error", err)
		return 0, err
	}

	return account.Nonce, nil
}

// SendTransaction signs a call to receiver with the given value (base units)
// and call data, and broadcasts it. A nonce of utils.AutoNonce uses the
// account nonce reported by the proxy.
func (nm *NetworkManager) SendTransaction(ctx context.Context, privateKey []byte, receiver, value string, gasLimit uint64, callData string, nonce uint64) (string, error) {
	ep := blockchain.NewElrondProxy(nm.cfg.Network.Proxy, nil)
	w := interactors.NewWallet()
	builder, err := builders.NewTxBuilder(blockchain.NewTxSigner())
	if err != nil {
		log.Error("error creating transaction builder", "error", err)
		return "", err
	}
	ti, err := interactors.NewTransactionInteractor(ep, builder)
	if err != nil {
		log.Error("error creating transaction interactor", "error", err)
		return "", err
	}

	senderAddress, err := w.GetAddressFromPrivateKey(privateKey)
	if err != nil {
		log.Error("unable to load the address from the private key", "error", err)
		return "", err
	}

	txArgs, err := ep.GetDefaultTransactionArguments(ctx, senderAddress, nm.NetworkConfig)
	if err != nil {
		log.Error("unable to prepare the transaction creation arguments", "error", err)
		return "", err
	}

	if nonce < utils.AutoNonce {
		txArgs.Nonce = nonce
	}

	if value == "" {
		value = "0"
	}

	txArgs.GasLimit = gasLimit
	txArgs.RcvAddr = receiver
	txArgs.Data = []byte(callData)
	txArgs.Value = value

	tx, err := ti.ApplySignatureAndGenerateTx(privateKey, txArgs)
	if err != nil {
		log.Error("unable to sign transaction", "error", err)
		return "", err
	}

	return ti.SendTransaction(ctx, tx)
}

// Decimals returns the number of decimals of the native token
func (nm *NetworkManager) Decimals() int32 {
	return int32(nm.NetworkConfig.Denomination)
}
