// Package provider adapts an external wallet provider speaking the EIP-1193
// JSON-RPC methods (eth_requestAccounts, wallet_switchEthereumChain, ...).
//
// The provider holds the user's keys and prompts for approval; this package
// only forwards requests and classifies the errors it returns.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

// Provider is the minimal request surface of a wallet provider.
// result must be a pointer or nil; params are sent as a positional JSON array.
type Provider interface {
	Request(ctx context.Context, result interface{}, method string, params ...interface{}) error
}

// Provider error codes (EIP-1193 and EIP-3085).
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnsupportedMethod = 4200
	CodeDisconnected      = 4900
	CodeChainDisconnected = 4901
	CodeUnrecognizedChain = 4902
)

// Error is a provider error with a numeric code. It satisfies rpc.Error, so
// errors produced in-process and errors decoded off the wire classify the same way.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// ErrorCode implements rpc.Error.
func (e *Error) ErrorCode() int { return e.Code }

// ErrorCode extracts the provider error code from err.
func ErrorCode(err error) (int, bool) {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode(), true
	}
	return 0, false
}

// IsUnrecognizedChain reports whether the provider does not know the requested chain.
func IsUnrecognizedChain(err error) bool {
	code, ok := ErrorCode(err)
	return ok && code == CodeUnrecognizedChain
}

// IsUserRejected reports whether the user declined the request.
func IsUserRejected(err error) bool {
	code, ok := ErrorCode(err)
	return ok && code == CodeUserRejected
}

// Message returns the human part of a provider error, or "" when err carries none.
func Message(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Message
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.Error()
	}
	return ""
}

// RPCProvider reaches a wallet provider over go-ethereum's JSON-RPC client
// (http, ws or IPC endpoints).
type RPCProvider struct {
	client *rpc.Client
	url    string
}

// Dial connects to a provider endpoint.
func Dial(ctx context.Context, url string) (*RPCProvider, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial provider %s: %w", url, err)
	}
	return &RPCProvider{client: client, url: url}, nil
}

// NewRPCProvider wraps an existing rpc client.
func NewRPCProvider(client *rpc.Client) *RPCProvider {
	return &RPCProvider{client: client}
}

// Request implements Provider.
func (p *RPCProvider) Request(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	return p.client.CallContext(ctx, result, method, params...)
}

// URL returns the endpoint the provider was dialed with.
func (p *RPCProvider) URL() string { return p.url }

// Close closes the underlying connection.
func (p *RPCProvider) Close() {
	p.client.Close()
}
