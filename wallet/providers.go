package wallet

import (
	"context"
	"encoding/json"

	"github.com/DrDelphi/LuckeeBot/data"
)

// Key is the account description returned by Keplr-style providers
type Key struct {
	Name          string
	Algo          string
	PubKey        []byte
	Bech32Address string
	IsNanoLedger  bool
}

// ExecuteTx is a contract execute message handed to a provider for signing
type ExecuteTx struct {
	Sender   string
	Contract string
	Msg      json.RawMessage
	Funds    []data.Coin
	Memo     string
}

// TxResult is what a provider reports after broadcasting
type TxResult struct {
	TransactionHash string
	Height          int64
	GasUsed         uint64
	GasWanted       uint64
}

// CosmosProvider is the surface injected by Keplr and Leap
type CosmosProvider interface {
	Enable(ctx context.Context, chainID string) error
	GetKey(ctx context.Context, chainID string) (*Key, error)
	SignAndBroadcast(ctx context.Context, chainID string, tx ExecuteTx) (*TxResult, error)
	SignMessage(ctx context.Context, chainID, signer, message string) (string, error)
}

// CosmostationProvider is the request based surface injected by Cosmostation
type CosmostationProvider interface {
	Request(ctx context.Context, method string, params interface{}) (json.RawMessage, error)
}

// ListenerID identifies a registered event handler
type ListenerID uint64

// EthereumProvider is the EIP-1193 surface injected by MetaMask
type EthereumProvider interface {
	Request(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error)
	On(event string, handler func(payload json.RawMessage)) ListenerID
	RemoveListener(event string, id ListenerID)
}

// Injected holds the providers found in the host environment; nil fields
// mean the extension is not installed
type Injected struct {
	Keplr        CosmosProvider
	Leap         CosmosProvider
	Cosmostation CosmostationProvider
	Ethereum     EthereumProvider
}

const (
	cosmostationRequestAccount = "cos_requestAccount"
	cosmostationSendExecute    = "cos_signAndSendTransaction"
	cosmostationSignMessage    = "cos_signMessage"

	ethRequestAccounts = "eth_requestAccounts"
	ethChainID         = "eth_chainId"
	ethGetBalance      = "eth_getBalance"
	ethPersonalSign    = "personal_sign"

	eventAccountsChanged = "accountsChanged"
	eventChainChanged    = "chainChanged"
)
