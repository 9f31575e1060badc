package wallet

import (
	"context"
	"encoding/hex"
	"math/big"
	"sync"

	"github.com/ElrondNetwork/elrond-go-crypto/signing"
	"github.com/ElrondNetwork/elrond-go-crypto/signing/ed25519"
	"github.com/ElrondNetwork/elrond-go-crypto/signing/ed25519/singlesig"

	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/network"
	"github.com/DrDelphi/LuckeeBot/utils"
)

// TxSender broadcasts signed calls; implemented by network.NetworkManager
type TxSender interface {
	SendTransaction(ctx context.Context, privateKey []byte, receiver, value string, gasLimit uint64, callData string, nonce uint64) (string, error)
}

// NonceSource reports the on-chain nonce of an account
type NonceSource interface {
	GetAddressNonce(ctx context.Context, address string) (uint64, error)
}

// LocalWallet is a custodial wallet derived from the bot seed phrase
type LocalWallet struct {
	privateKey []byte
	address    string
	sender     TxSender

	mu        sync.Mutex
	nextNonce uint64
}

// NewLocalWallet derives the wallet of account index
func NewLocalWallet(mnemonic string, index int64, hrp string, sender TxSender) (*LocalWallet, error) {
	pk, err := DeriveKey(mnemonic, index)
	if err != nil {
		return nil, err
	}

	address, err := AddressFromPrivateKey(pk, hrp)
	if err != nil {
		return nil, err
	}

	return &LocalWallet{
		privateKey: pk,
		address:    address,
		sender:     sender,
	}, nil
}

func (lw *LocalWallet) Address() string {
	return lw.address
}

// Execute sends msg as a function@hex(body) call carrying the summed funds
func (lw *LocalWallet) Execute(ctx context.Context, contract string, msg []byte, funds []data.Coin) (string, error) {
	if lw.sender == nil {
		return "", ErrUnsupported
	}

	callData, err := network.CallData(msg)
	if err != nil {
		return "", err
	}

	name, _, _ := network.SplitMessage(msg)

	lw.mu.Lock()
	defer lw.mu.Unlock()

	nonce := lw.nonce(ctx)
	hash, err := lw.sender.SendTransaction(ctx, lw.privateKey, contract, sumFunds(funds), gasLimitFor(name), callData, nonce)
	if err != nil {
		lw.nextNonce = 0
		return "", err
	}
	if nonce != utils.AutoNonce {
		lw.nextNonce = nonce + 1
	}

	return hash, nil
}

// nonce keeps consecutive calls from reusing a nonce the proxy has not
// caught up with yet; callers hold lw.mu
func (lw *LocalWallet) nonce(ctx context.Context) uint64 {
	ns, ok := lw.sender.(NonceSource)
	if !ok {
		return utils.AutoNonce
	}

	onChain, err := ns.GetAddressNonce(ctx, lw.address)
	if err != nil {
		log.Debug("can not get nonce", "address", lw.address, "error", err)
		return utils.AutoNonce
	}
	if onChain > lw.nextNonce {
		lw.nextNonce = onChain
	}

	return lw.nextNonce
}

func (lw *LocalWallet) SignMessage(_ context.Context, message string) (string, error) {
	keyGen := signing.NewKeyGenerator(ed25519.NewEd25519())
	privKey, err := keyGen.PrivateKeyFromByteArray(lw.privateKey)
	if err != nil {
		return "", err
	}

	signer := &singlesig.Ed25519Signer{}
	sig, err := signer.Sign(privKey, []byte(message))
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(sig), nil
}

// PEM exports the private key in PEM form
func (lw *LocalWallet) PEM() ([]byte, error) {
	return EncodePEM(lw.privateKey, lw.address)
}

func sumFunds(funds []data.Coin) string {
	total := big.NewInt(0)
	for _, c := range funds {
		v, ok := big.NewInt(0).SetString(c.Amount, 10)
		if ok {
			total.Add(total, v)
		}
	}

	return total.String()
}

func gasLimitFor(function string) uint64 {
	switch function {
	case "place_bet":
		return utils.PlaceBetGasLimit
	case "reveal_random":
		return utils.RevealRandomGasLimit
	default:
		return utils.SettleGasLimit
	}
}
