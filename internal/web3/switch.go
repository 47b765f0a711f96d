package web3

import (
	"context"
	"errors"
	"fmt"

	"github.com/definix-labs/definix/internal/chain"
	"github.com/definix-labs/definix/internal/provider"
)

// SwitchChain moves the wallet to id. When the wallet does not know the chain
// it is added once from the registry. Unregistered ids fail before the
// provider is contacted.
func (s *Service) SwitchChain(ctx context.Context, id chain.ID) error {
	desc, err := chain.Get(id)
	if err != nil {
		return err
	}
	if s.wallet == nil {
		return ErrProviderUnavailable
	}

	_, err = s.run(ctx, OpSwitchChain, func(ctx context.Context) error {
		err := s.requestSwitch(ctx, desc)
		if errors.Is(err, ErrUnrecognizedChain) {
			s.log.Info("Chain unknown to wallet, adding", "chain", desc.Name)
			err = s.addChain(ctx, desc)
		}
		if err != nil {
			return err
		}
		s.onChainChanged(ctx, desc.ID)
		return nil
	})
	return err
}

func (s *Service) requestSwitch(ctx context.Context, desc *chain.Descriptor) error {
	err := s.wallet.SwitchChain(ctx, desc.ChainIDHex())
	switch {
	case err == nil:
		return nil
	case provider.IsUnrecognizedChain(err):
		return fmt.Errorf("%w: %s", ErrUnrecognizedChain, desc.Name)
	default:
		return remote(provider.MethodSwitchChain, err)
	}
}

func (s *Service) addChain(ctx context.Context, desc *chain.Descriptor) error {
	if err := s.wallet.AddChain(ctx, AddChainParams(desc, s.apiKey)); err != nil {
		return remote(provider.MethodAddChain, fmt.Errorf("failed to add chain: %w", err))
	}
	return nil
}

// AddChainParams builds the wallet_addEthereumChain request for desc.
func AddChainParams(desc *chain.Descriptor, apiKey string) provider.AddChainParams {
	return provider.AddChainParams{
		ChainID:           desc.ChainIDHex(),
		ChainName:         desc.Name,
		RPCURLs:           []string{desc.RPCURL(apiKey)},
		BlockExplorerURLs: []string{desc.ExplorerURL},
		NativeCurrency: provider.NativeCurrency{
			Name:     desc.NativeName,
			Symbol:   desc.NativeSymbol,
			Decimals: desc.NativeDecimals,
		},
	}
}

// onChainChanged records id and, with FollowChain, moves reads to it. A read
// rebind failure keeps the previous reader.
func (s *Service) onChainChanged(ctx context.Context, id chain.ID) {
	s.update(func() { s.chainID = id })

	if !s.followChain || s.backends == nil || s.ReadChain() == id {
		return
	}
	r, err := s.bindReader(ctx, id)
	if err != nil {
		s.log.Warn("Failed to move reads to new chain", "chain", chain.Name(id), "error", err)
		return
	}
	s.mu.Lock()
	s.reader = r
	s.mu.Unlock()
	s.log.Debug("Reads follow wallet chain", "chain", chain.Name(id))
}
