// Package mock provides an in-memory chain backend that answers contract calls
// through their ABI and serves receipts from a map.
package mock

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/definix-labs/definix/internal/chainclient"
)

// CallHandler answers one contract method. args are the decoded inputs and the
// returned values are ABI-encoded as the method outputs.
type CallHandler func(args []interface{}) ([]interface{}, error)

type contract struct {
	abi      *abi.ABI
	handlers map[string]CallHandler
}

// Backend implements chainclient.Backend.
type Backend struct {
	mu        sync.Mutex
	contracts map[common.Address]*contract
	receipts  map[common.Hash]*types.Receipt
	calls     map[string]int
}

var _ chainclient.Backend = (*Backend)(nil)

// New creates an empty backend.
func New() *Backend {
	return &Backend{
		contracts: make(map[common.Address]*contract),
		receipts:  make(map[common.Hash]*types.Receipt),
		calls:     make(map[string]int),
	}
}

// Deploy registers a contract ABI at addr.
func (b *Backend) Deploy(addr common.Address, parsed *abi.ABI) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.contracts[addr] = &contract{abi: parsed, handlers: make(map[string]CallHandler)}
	return b
}

// Handle installs a handler for method on the contract at addr.
func (b *Backend) Handle(addr common.Address, method string, h CallHandler) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.contracts[addr]
	if !ok {
		panic(fmt.Sprintf("mock: no contract deployed at %s", addr.Hex()))
	}
	c.handlers[method] = h
	return b
}

// Returns makes method always return outs.
func (b *Backend) Returns(addr common.Address, method string, outs ...interface{}) *Backend {
	return b.Handle(addr, method, func([]interface{}) ([]interface{}, error) {
		return outs, nil
	})
}

// Fails makes method always fail with err.
func (b *Backend) Fails(addr common.Address, method string, err error) *Backend {
	return b.Handle(addr, method, func([]interface{}) ([]interface{}, error) {
		return nil, err
	})
}

// Mine stores a receipt for hash with the given status.
func (b *Backend) Mine(hash common.Hash, status uint64, block uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.receipts[hash] = &types.Receipt{
		Status:      status,
		TxHash:      hash,
		BlockNumber: new(big.Int).SetUint64(block),
		GasUsed:     21000,
	}
}

// CallCount returns how many times method was called on any contract.
func (b *Backend) CallCount(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

// CodeAt reports non-empty code for deployed contracts.
func (b *Backend) CodeAt(_ context.Context, addr common.Address, _ *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.contracts[addr]; ok {
		return []byte{0x60, 0x80}, nil
	}
	return nil, nil
}

// CallContract decodes the call against the ABI deployed at call.To.
func (b *Backend) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if call.To == nil {
		return nil, errors.New("mock: call without target")
	}
	if len(call.Data) < 4 {
		return nil, errors.New("mock: call data too short")
	}

	b.mu.Lock()
	c, ok := b.contracts[*call.To]
	if !ok {
		b.mu.Unlock()
		return nil, nil
	}
	method, err := c.abi.MethodById(call.Data[:4])
	if err != nil {
		b.mu.Unlock()
		return nil, fmt.Errorf("mock: %w", err)
	}
	b.calls[method.Name]++
	h, ok := c.handlers[method.Name]
	b.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("execution reverted: no handler for %s", method.Name)
	}

	args, err := method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, fmt.Errorf("mock: unpack %s: %w", method.Name, err)
	}
	outs, err := h(args)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(outs...)
}

// TransactionReceipt returns a mined receipt or ethereum.NotFound.
func (b *Backend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}
