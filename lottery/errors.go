package lottery

import (
	"errors"
	"fmt"
)

var (
	ErrNumberOutOfRange     = errors.New("lucky number must be between 0 and 999")
	ErrMultiplierOutOfRange = errors.New("multiplier must be between 1 and 1000")
	ErrNotSelected          = errors.New("number is not selected")
	ErrNoNumbers            = errors.New("select at least one lucky number")
	ErrAmountOutOfRange     = errors.New("bet amount must be between 1 and 1000000")
	ErrInvalidSeed          = errors.New("random seed must be a number between 0 and 999")
	ErrInvalidCount         = errors.New("quick pick count must be between 1 and 1000")

	ErrWalletNotConnected = errors.New("connect a wallet first")
	ErrWrongWallet        = errors.New("bet was placed from another wallet")
	ErrBusy               = errors.New("another request is still in progress")
	ErrNoRound            = errors.New("no running lottery round")
	ErrRevealNotOpen      = errors.New("reveal phase has not started")
	ErrAlreadyRevealed    = errors.New("bet already revealed")
	ErrBetNotFound        = errors.New("bet not found")
)

// ValidationError is returned for input rejected before any network call
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err was produced by input validation
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
