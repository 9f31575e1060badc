package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DrDelphi/LuckeeBot/data"
)

var (
	// ErrNotInstalled - no provider of the requested kind is available
	ErrNotInstalled = errors.New("wallet not installed")
	// ErrUserRejected - the user declined the authorization request
	ErrUserRejected = errors.New("user rejected the request")
	ErrNotConnected = errors.New("wallet not connected")
	ErrUnsupported  = errors.New("operation not supported by this wallet")

	ErrUnknownKind     = errors.New("unknown wallet kind")
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	ErrNoAccounts      = errors.New("provider returned no accounts")
	ErrInvalidResponse = errors.New("invalid provider response")
)

// WalletError ties a failure to the wallet kind that produced it
type WalletError struct {
	Kind data.WalletKind
	Op   string
	Err  error
}

func (e *WalletError) Error() string {
	return fmt.Sprintf("%s wallet: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *WalletError) Unwrap() error {
	return e.Err
}

// ProviderRPCError is the EIP-1193 style error a provider may return
type ProviderRPCError struct {
	Code    int
	Message string
}

func (e *ProviderRPCError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

const codeUserRejected = 4001

// classify maps provider failures onto ErrUserRejected when they represent a
// declined request and wraps everything in a WalletError
func classify(kind data.WalletKind, op string, err error) error {
	if err == nil {
		return nil
	}

	var rpcErr *ProviderRPCError
	if errors.As(err, &rpcErr) && rpcErr.Code == codeUserRejected {
		return &WalletError{Kind: kind, Op: op, Err: fmt.Errorf("%w: %v", ErrUserRejected, err)}
	}

	if strings.Contains(strings.ToLower(err.Error()), "rejected") {
		return &WalletError{Kind: kind, Op: op, Err: fmt.Errorf("%w: %v", ErrUserRejected, err)}
	}

	return &WalletError{Kind: kind, Op: op, Err: err}
}
