package wallet

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strings"
	"sync"

	logger "github.com/ElrondNetwork/elrond-go-logger"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/network"
)

var log = logger.GetOrCreate("wallet")

// StateSink receives wallet identity changes; implemented by store.Store
type StateSink interface {
	SetWallet(info data.WalletInfo)
	ClearWallet()
	UpdateBalance(balance string)
}

// BalanceSource reads on-chain balances; implemented by network.Gateway
type BalanceSource interface {
	Balance(ctx context.Context, address, denom string) (string, error)
}

// Options configures an Adapter
type Options struct {
	ChainID  string
	Denom    string
	Injected Injected
	Local    *LocalWallet
	Balances BalanceSource
	State    StateSink
	// OnReload is called when the provider switches chain
	OnReload func()
}

// Adapter connects one wallet at a time behind a uniform interface
type Adapter struct {
	mu   sync.Mutex
	opts Options

	kind      data.WalletKind
	info      *data.WalletInfo
	signer    network.Signer
	listeners []ListenerID
}

// NewAdapter - creates a new Adapter object
func NewAdapter(opts Options) *Adapter {
	return &Adapter{opts: opts}
}

// Connect probes for the provider of kind, requests authorization and
// returns the connected address
func (a *Adapter) Connect(ctx context.Context, kind data.WalletKind) (string, error) {
	var (
		info   *data.WalletInfo
		signer network.Signer
		err    error
	)

	switch kind {
	case data.WalletLocal:
		info, signer, err = a.connectLocal()
	case data.WalletKeplr:
		info, signer, err = a.connectCosmos(ctx, kind, a.opts.Injected.Keplr)
	case data.WalletLeap:
		info, signer, err = a.connectCosmos(ctx, kind, a.opts.Injected.Leap)
	case data.WalletCosmostation:
		info, signer, err = a.connectCosmostation(ctx)
	case data.WalletMetamask:
		info, signer, err = a.connectMetamask(ctx)
	default:
		return "", &WalletError{Kind: kind, Op: "connect", Err: ErrUnknownKind}
	}
	if err != nil {
		log.Warn("wallet connect failed", "kind", kind, "error", err)
		return "", err
	}

	a.mu.Lock()
	a.dropListenersLocked()
	a.kind = kind
	a.info = info
	a.signer = signer
	a.mu.Unlock()

	if kind == data.WalletMetamask {
		a.watchEthereum()
	}

	if a.opts.State != nil {
		a.opts.State.SetWallet(*info)
	}
	log.Info("wallet connected", "kind", kind, "address", info.Address)

	if _, err = a.RefreshBalance(ctx); err != nil {
		log.Debug("initial balance refresh failed", "address", info.Address, "error", err)
	}

	return info.Address, nil
}

func (a *Adapter) connectLocal() (*data.WalletInfo, network.Signer, error) {
	if a.opts.Local == nil {
		return nil, nil, &WalletError{Kind: data.WalletLocal, Op: "connect", Err: ErrNotInstalled}
	}

	return a.newInfo(data.WalletLocal, a.opts.Local.Address(), a.opts.ChainID), a.opts.Local, nil
}

func (a *Adapter) connectCosmos(ctx context.Context, kind data.WalletKind, provider CosmosProvider) (*data.WalletInfo, network.Signer, error) {
	if provider == nil {
		return nil, nil, &WalletError{Kind: kind, Op: "connect", Err: ErrNotInstalled}
	}

	if err := provider.Enable(ctx, a.opts.ChainID); err != nil {
		return nil, nil, classify(kind, "enable", err)
	}

	key, err := provider.GetKey(ctx, a.opts.ChainID)
	if err != nil {
		return nil, nil, classify(kind, "get key", err)
	}
	if key == nil || key.Bech32Address == "" {
		return nil, nil, &WalletError{Kind: kind, Op: "get key", Err: ErrNoAccounts}
	}

	signer := &cosmosSigner{kind: kind, chainID: a.opts.ChainID, address: key.Bech32Address, provider: provider}

	return a.newInfo(kind, key.Bech32Address, a.opts.ChainID), signer, nil
}

func (a *Adapter) connectCosmostation(ctx context.Context) (*data.WalletInfo, network.Signer, error) {
	provider := a.opts.Injected.Cosmostation
	if provider == nil {
		return nil, nil, &WalletError{Kind: data.WalletCosmostation, Op: "connect", Err: ErrNotInstalled}
	}

	raw, err := provider.Request(ctx, cosmostationRequestAccount, map[string]string{"chainName": a.opts.ChainID})
	if err != nil {
		return nil, nil, classify(data.WalletCosmostation, "request account", err)
	}

	account := struct {
		Address string `json:"address"`
	}{}
	if err = json.Unmarshal(raw, &account); err != nil || account.Address == "" {
		return nil, nil, &WalletError{Kind: data.WalletCosmostation, Op: "request account", Err: ErrNoAccounts}
	}

	signer := &cosmostationSigner{chainID: a.opts.ChainID, address: account.Address, provider: provider}

	return a.newInfo(data.WalletCosmostation, account.Address, a.opts.ChainID), signer, nil
}

func (a *Adapter) connectMetamask(ctx context.Context) (*data.WalletInfo, network.Signer, error) {
	provider := a.opts.Injected.Ethereum
	if provider == nil {
		return nil, nil, &WalletError{Kind: data.WalletMetamask, Op: "connect", Err: ErrNotInstalled}
	}

	raw, err := provider.Request(ctx, ethRequestAccounts)
	if err != nil {
		return nil, nil, classify(data.WalletMetamask, "request accounts", err)
	}

	var accounts []string
	if err = json.Unmarshal(raw, &accounts); err != nil || len(accounts) == 0 {
		return nil, nil, &WalletError{Kind: data.WalletMetamask, Op: "request accounts", Err: ErrNoAccounts}
	}

	chainID := a.opts.ChainID
	if raw, err = provider.Request(ctx, ethChainID); err == nil {
		var id string
		if json.Unmarshal(raw, &id) == nil && id != "" {
			chainID = id
		}
	}

	signer := &ethereumSigner{address: accounts[0], provider: provider}

	return a.newInfo(data.WalletMetamask, accounts[0], chainID), signer, nil
}

func (a *Adapter) newInfo(kind data.WalletKind, address, chainID string) *data.WalletInfo {
	return &data.WalletInfo{
		Address: address,
		Kind:    kind,
		ChainID: chainID,
		Balance: "0",
	}
}

// watchEthereum follows account and chain switches of the injected provider
func (a *Adapter) watchEthereum() {
	provider := a.opts.Injected.Ethereum

	accountsID := provider.On(eventAccountsChanged, func(payload json.RawMessage) {
		var accounts []string
		if err := json.Unmarshal(payload, &accounts); err != nil || len(accounts) == 0 {
			a.Disconnect()
			return
		}
		a.switchAccount(accounts[0])
	})
	chainID := provider.On(eventChainChanged, func(json.RawMessage) {
		if a.opts.OnReload != nil {
			a.opts.OnReload()
		}
	})

	a.mu.Lock()
	a.listeners = append(a.listeners, accountsID, chainID)
	a.mu.Unlock()
}

func (a *Adapter) switchAccount(address string) {
	a.mu.Lock()
	if a.info == nil {
		a.mu.Unlock()
		return
	}
	info := *a.info
	info.Address = address
	info.Balance = "0"
	a.info = &info
	if es, ok := a.signer.(*ethereumSigner); ok {
		es.address = address
	}
	a.mu.Unlock()

	if a.opts.State != nil {
		a.opts.State.SetWallet(info)
	}
	log.Info("wallet account switched", "address", address)
}

func (a *Adapter) dropListenersLocked() {
	if len(a.listeners) == 0 || a.opts.Injected.Ethereum == nil {
		a.listeners = nil
		return
	}

	events := []string{eventAccountsChanged, eventChainChanged}
	for i, id := range a.listeners {
		a.opts.Injected.Ethereum.RemoveListener(events[i%2], id)
	}
	a.listeners = nil
}

// Disconnect clears the cached identity; nothing happens on chain
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	a.dropListenersLocked()
	a.kind = ""
	a.info = nil
	a.signer = nil
	a.mu.Unlock()

	if a.opts.State != nil {
		a.opts.State.ClearWallet()
	}
}

// Connected reports whether a wallet is connected
func (a *Adapter) Connected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.info != nil
}

// Info returns a copy of the connected wallet identity
func (a *Adapter) Info() (data.WalletInfo, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.info == nil {
		return data.WalletInfo{}, false
	}

	return *a.info, true
}

// Signer returns the signer of the connected wallet or nil
func (a *Adapter) Signer() network.Signer {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.signer
}

// SignMessage signs an arbitrary message with the connected wallet
func (a *Adapter) SignMessage(ctx context.Context, message string) (string, error) {
	a.mu.Lock()
	signer, kind := a.signer, a.kind
	a.mu.Unlock()

	if signer == nil {
		return "", ErrNotConnected
	}

	ms, ok := signer.(interface {
		SignMessage(ctx context.Context, message string) (string, error)
	})
	if !ok {
		return "", &WalletError{Kind: kind, Op: "sign message", Err: ErrUnsupported}
	}

	sig, err := ms.SignMessage(ctx, message)
	if err != nil {
		return "", classify(kind, "sign message", err)
	}

	return sig, nil
}

// RefreshBalance reads the balance of the connected wallet and caches it;
// failures leave the cached balance untouched
func (a *Adapter) RefreshBalance(ctx context.Context) (string, error) {
	a.mu.Lock()
	info, signer := a.info, a.signer
	a.mu.Unlock()

	if info == nil {
		return "", ErrNotConnected
	}

	var (
		balance string
		err     error
	)
	if es, ok := signer.(*ethereumSigner); ok {
		balance, err = es.balance(ctx)
	} else {
		if a.opts.Balances == nil {
			return "", ErrUnsupported
		}
		balance, err = a.opts.Balances.Balance(ctx, info.Address, a.opts.Denom)
	}
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	if a.info != nil && a.info.Address == info.Address {
		a.info.Balance = balance
	}
	a.mu.Unlock()

	if a.opts.State != nil {
		a.opts.State.UpdateBalance(balance)
	}

	return balance, nil
}

type cosmosSigner struct {
	kind     data.WalletKind
	chainID  string
	address  string
	provider CosmosProvider
}

func (cs *cosmosSigner) Address() string {
	return cs.address
}

func (cs *cosmosSigner) Execute(ctx context.Context, contract string, msg []byte, funds []data.Coin) (string, error) {
	res, err := cs.provider.SignAndBroadcast(ctx, cs.chainID, ExecuteTx{
		Sender:   cs.address,
		Contract: contract,
		Msg:      msg,
		Funds:    funds,
	})
	if err != nil {
		return "", classify(cs.kind, "sign and broadcast", err)
	}

	return res.TransactionHash, nil
}

func (cs *cosmosSigner) SignMessage(ctx context.Context, message string) (string, error) {
	return cs.provider.SignMessage(ctx, cs.chainID, cs.address, message)
}

type cosmostationSigner struct {
	chainID  string
	address  string
	provider CosmostationProvider
}

func (cs *cosmostationSigner) Address() string {
	return cs.address
}

func (cs *cosmostationSigner) Execute(ctx context.Context, contract string, msg []byte, funds []data.Coin) (string, error) {
	raw, err := cs.provider.Request(ctx, cosmostationSendExecute, map[string]interface{}{
		"chainName": cs.chainID,
		"sender":    cs.address,
		"contract":  contract,
		"msg":       json.RawMessage(msg),
		"funds":     funds,
	})
	if err != nil {
		return "", classify(data.WalletCosmostation, "send transaction", err)
	}

	res := struct {
		TxHash string `json:"txhash"`
	}{}
	if err = json.Unmarshal(raw, &res); err != nil || res.TxHash == "" {
		return "", &WalletError{Kind: data.WalletCosmostation, Op: "send transaction", Err: ErrInvalidResponse}
	}

	return res.TxHash, nil
}

func (cs *cosmostationSigner) SignMessage(ctx context.Context, message string) (string, error) {
	raw, err := cs.provider.Request(ctx, cosmostationSignMessage, map[string]string{
		"chainName": cs.chainID,
		"signer":    cs.address,
		"message":   message,
	})
	if err != nil {
		return "", err
	}

	res := struct {
		Signature string `json:"signature"`
	}{}
	if err = json.Unmarshal(raw, &res); err != nil {
		return "", err
	}

	return res.Signature, nil
}

// ethereumSigner can identify and sign messages but not execute wasm contracts
type ethereumSigner struct {
	address  string
	provider EthereumProvider
}

func (es *ethereumSigner) Address() string {
	return es.address
}

func (es *ethereumSigner) Execute(context.Context, string, []byte, []data.Coin) (string, error) {
	return "", &WalletError{Kind: data.WalletMetamask, Op: "execute", Err: ErrUnsupported}
}

func (es *ethereumSigner) SignMessage(ctx context.Context, message string) (string, error) {
	raw, err := es.provider.Request(ctx, ethPersonalSign, "0x"+hex.EncodeToString([]byte(message)), es.address)
	if err != nil {
		return "", err
	}

	var sig string
	if err = json.Unmarshal(raw, &sig); err != nil {
		return "", err
	}

	return sig, nil
}

func (es *ethereumSigner) balance(ctx context.Context) (string, error) {
	raw, err := es.provider.Request(ctx, ethGetBalance, es.address, "latest")
	if err != nil {
		return "", err
	}

	var hexBalance string
	if err = json.Unmarshal(raw, &hexBalance); err != nil {
		return "", err
	}

	v, ok := big.NewInt(0).SetString(strings.TrimPrefix(hexBalance, "0x"), 16)
	if !ok {
		return "", ErrInvalidResponse
	}

	return v.String(), nil
}
