// Package chainclient provides read backends for the supported chains: contract
// calls and receipt lookups that need no wallet.
package chainclient

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/definix-labs/definix/internal/chain"
	"github.com/definix-labs/definix/pkg/logging"
)

// ErrPoolClosed is returned by a Pool after Close.
var ErrPoolClosed = errors.New("chain client pool closed")

// Backend is what the contract pipeline needs from a chain: bound contract
// calls and receipt polling. *ethclient.Client satisfies it.
type Backend interface {
	CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Source hands out a Backend per chain.
type Source interface {
	Backend(ctx context.Context, id chain.ID) (Backend, error)
}

// DialFunc opens a client for an RPC URL.
type DialFunc func(ctx context.Context, url string) (*ethclient.Client, error)

// Pool dials and caches one ethclient per chain. Endpoints are the chain
// registry URL prefixes completed with the API key.
type Pool struct {
	mu      sync.Mutex
	apiKey  string
	dial    DialFunc
	clients map[chain.ID]*ethclient.Client
	closed  bool
	log     *logging.Logger
}

// NewPool creates an empty pool.
func NewPool(apiKey string) *Pool {
	return &Pool{
		apiKey:  apiKey,
		dial:    ethclient.DialContext,
		clients: make(map[chain.ID]*ethclient.Client),
		log:     logging.GetDefault().Component("chainclient"),
	}
}

// WithDialer replaces the dial function. Used for tests and custom transports.
func (p *Pool) WithDialer(dial DialFunc) *Pool {
	p.dial = dial
	return p
}

// Client returns (and caches) the client for chain id.
func (p *Pool) Client(ctx context.Context, id chain.ID) (*ethclient.Client, error) {
	desc, err := chain.Get(id)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPoolClosed
	}
	if c, ok := p.clients[id]; ok {
		return c, nil
	}

	c, err := p.dial(ctx, desc.RPCURL(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", desc.Name, err)
	}
	p.clients[id] = c
	p.log.Debug("Dialed chain RPC", "chain", desc.Name, "chain_id", id)
	return c, nil
}

// Backend implements Source.
func (p *Pool) Backend(ctx context.Context, id chain.ID) (Backend, error) {
	c, err := p.Client(ctx, id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Len returns the number of cached clients.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}

// Close closes every cached client.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, c := range p.clients {
		c.Close()
		delete(p.clients, id)
	}
	p.closed = true
}

// Static is a Source that returns the same Backend for every supported chain.
type Static struct {
	B Backend
}

// Backend implements Source.
func (s Static) Backend(_ context.Context, id chain.ID) (Backend, error) {
	if !chain.IsSupported(id) {
		return nil, fmt.Errorf("%w: %d", chain.ErrUnsupportedChain, uint64(id))
	}
	return s.B, nil
}
