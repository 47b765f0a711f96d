// Package web3 connects a user wallet, reads the virtual wallet contract and
// submits its state-changing operations.
package web3

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/definix-labs/definix/internal/chain"
	"github.com/definix-labs/definix/internal/chainclient"
	"github.com/definix-labs/definix/internal/contracts/virtualwallet"
	"github.com/definix-labs/definix/internal/provider"
	"github.com/definix-labs/definix/pkg/helpers"
	"github.com/definix-labs/definix/pkg/logging"
)

// DefaultSlippageBps is applied by MinOutput when no slippage is configured.
const DefaultSlippageBps = 10

// ServiceConfig holds configuration for the web3 service.
type ServiceConfig struct {
	// Provider is the user's wallet. Without one, Connect and SwitchChain
	// fail with ErrProviderUnavailable.
	Provider provider.Provider

	// Backends serves read-only contract calls and transaction receipts.
	Backends chainclient.Source

	// Contract is the virtual wallet contract address.
	Contract common.Address

	DefaultChain    chain.ID
	ReadChain       chain.ID
	SupportedChains []chain.ID
	APIKey          string
	SlippageBps     uint64

	// FollowChain rebinds reads to the wallet's chain after every switch.
	// When false, reads stay on ReadChain.
	FollowChain bool

	Logger *logging.Logger
}

// Service owns the wallet connection and the contract handles.
type Service struct {
	wallet      *provider.Client
	backends    chainclient.Source
	vw          *virtualwallet.VirtualWallet
	apiKey      string
	slippageBps uint64
	followChain bool
	log         *logging.Logger

	mu         sync.RWMutex
	session    *session
	account    common.Address
	connected  bool
	connecting bool
	inflight   int
	errMsg     string
	chainID    chain.ID
	supported  []chain.ID
	reader     *reader
	recent     []OpStatus

	listeners    map[int]StateListener
	nextListener int

	probeOnce sync.Once
}

// session is the write path bound on Connect.
type session struct {
	account common.Address
	wallet  *provider.Client
}

// reader is the read path bound to one chain.
type reader struct {
	chainID chain.ID
	backend chainclient.Backend
	vw      *virtualwallet.VirtualWallet
}

// NewService creates a web3 service. The read-only contract handle is bound
// eagerly on ReadChain; a failure to resolve it is returned here.
func NewService(cfg *ServiceConfig) (*Service, error) {
	if cfg == nil {
		cfg = &ServiceConfig{}
	}

	defaultChain := cfg.DefaultChain
	if defaultChain == 0 {
		defaultChain = chain.Optimism
	}
	readChain := cfg.ReadChain
	if readChain == 0 {
		readChain = defaultChain
	}
	supported := cfg.SupportedChains
	if len(supported) == 0 {
		supported = chain.Supported()
	}
	for _, id := range append([]chain.ID{defaultChain, readChain}, supported...) {
		if _, err := chain.Get(id); err != nil {
			return nil, err
		}
	}

	slippage := cfg.SlippageBps
	if slippage == 0 {
		slippage = DefaultSlippageBps
	}
	if slippage >= helpers.BasisPoints {
		return nil, fmt.Errorf("slippage %d bps out of range", slippage)
	}

	log := cfg.Logger
	if log == nil {
		log = logging.GetDefault()
	}

	vw, err := virtualwallet.NewVirtualWallet(cfg.Contract, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to bind virtual wallet: %w", err)
	}

	s := &Service{
		backends:    cfg.Backends,
		vw:          vw,
		apiKey:      cfg.APIKey,
		slippageBps: slippage,
		followChain: cfg.FollowChain,
		log:         log.Component("web3"),
		chainID:     defaultChain,
		supported:   append([]chain.ID(nil), supported...),
		listeners:   make(map[int]StateListener),
	}
	if cfg.Provider != nil {
		s.wallet = provider.NewClient(cfg.Provider)
	}

	if s.backends != nil {
		r, err := s.bindReader(context.Background(), readChain)
		if err != nil {
			return nil, fmt.Errorf("failed to bind read contract on %s: %w", chain.Name(readChain), err)
		}
		s.reader = r
	}

	return s, nil
}

func (s *Service) bindReader(ctx context.Context, id chain.ID) (*reader, error) {
	backend, err := s.backends.Backend(ctx, id)
	if err != nil {
		return nil, err
	}
	vw, err := virtualwallet.NewVirtualWallet(s.vw.Address(), backend)
	if err != nil {
		return nil, err
	}
	return &reader{chainID: id, backend: backend, vw: vw}, nil
}

// Contract returns the virtual wallet contract address.
func (s *Service) Contract() common.Address { return s.vw.Address() }

// Account returns the connected account.
func (s *Service) Account() (common.Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account, s.connected
}

// ChainID returns the chain the wallet was last seen on.
func (s *Service) ChainID() chain.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chainID
}

// ReadChain returns the chain reads are served from, or 0 without backends.
func (s *Service) ReadChain() chain.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.reader == nil {
		return 0
	}
	return s.reader.chainID
}

// SupportedChains returns the chains offered for switching.
func (s *Service) SupportedChains() []chain.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]chain.ID(nil), s.supported...)
}

// ChainName returns the display name of id.
func (s *Service) ChainName(id chain.ID) string { return chain.Name(id) }

// SupportedTokens returns the tokens registered on id.
func (s *Service) SupportedTokens(id chain.ID) []chain.Token { return chain.Tokens(id) }

// StablecoinAddress returns the USDC address on id.
func (s *Service) StablecoinAddress(id chain.ID) (common.Address, bool) {
	addr, ok := chain.StablecoinAddress(id)
	if !ok {
		return common.Address{}, false
	}
	return common.HexToAddress(addr), true
}

// MinOutput applies the configured slippage tolerance to amount.
func (s *Service) MinOutput(amount *big.Int) *big.Int {
	return helpers.ApplySlippage(amount, s.slippageBps)
}
