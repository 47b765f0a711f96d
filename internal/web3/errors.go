package web3

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/definix-labs/definix/internal/chain"
	"github.com/definix-labs/definix/internal/provider"
)

var (
	// ErrProviderUnavailable is returned when no wallet provider is configured.
	ErrProviderUnavailable = errors.New("wallet provider not available")

	// ErrNotConnected is returned by writes without a wallet session and by
	// reads without a chain backend. Nothing is sent in either case.
	ErrNotConnected = errors.New("not connected")

	// ErrRemoteCallFailed matches every provider, RPC and contract failure,
	// reverts included.
	ErrRemoteCallFailed = errors.New("remote call failed")

	// ErrUnrecognizedChain marks a switch the provider rejected because it does
	// not know the chain. SwitchChain handles it by adding the chain.
	ErrUnrecognizedChain = errors.New("unrecognized chain")

	// ErrReverted is returned when a mined transaction has a failed status.
	ErrReverted = errors.New("transaction reverted")

	// ErrInvalidAmount is returned for nil or negative amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnsupportedChain is returned for chain ids outside the registry.
	ErrUnsupportedChain = chain.ErrUnsupportedChain
)

// RemoteError wraps a failed remote call. errors.Is(err, ErrRemoteCallFailed)
// holds for every RemoteError; Unwrap exposes the provider or RPC error.
type RemoteError struct {
	Call string
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Call, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Is implements errors.Is.
func (e *RemoteError) Is(target error) bool { return target == ErrRemoteCallFailed }

func remote(call string, err error) error {
	return &RemoteError{Call: call, Err: err}
}

// OpError is returned by operations that ran through the loading/error bracket.
type OpError struct {
	Op     string
	Status OpStatus
	Err    error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// failureMessages prefixes the human-readable error per operation.
var failureMessages = map[string]string{
	OpConnect:             "Failed to connect wallet",
	OpCreateVirtualWallet: "Failed to create wallet",
	OpConvertToETH:        "Conversion failed",
	OpConvertToUSDC:       "Conversion failed",
	OpDepositToETH:        "Deposit failed",
	OpDepositToUSDC:       "Deposit failed",
	OpWithdrawETH:         "Withdrawal failed",
	OpWithdrawUSDC:        "Withdrawal failed",
	OpApproveToken:        "Approval failed",
	OpConversionQuote:     "Failed to fetch quote",
	OpSwitchChain:         "Failed to switch chain",
}

// humanMessage renders err for the shared error field.
func humanMessage(op string, err error) string {
	prefix, ok := failureMessages[op]
	if !ok {
		prefix = "Operation failed"
	}

	var detail string
	var re *RemoteError
	switch {
	case errors.Is(err, ErrReverted):
		detail = "transaction reverted"
	case errors.Is(err, context.Canceled):
		detail = "cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		detail = "timed out"
	case provider.Message(err) != "":
		detail = provider.Message(err)
	case errors.As(err, &re):
		detail = re.Err.Error()
	default:
		detail = err.Error()
	}

	if detail == "" {
		return prefix
	}
	return prefix + ": " + detail
}

func checkAmounts(amounts ...*big.Int) error {
	for _, a := range amounts {
		if a == nil || a.Sign() < 0 {
			return ErrInvalidAmount
		}
	}
	return nil
}
