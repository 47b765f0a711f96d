package web3

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/definix-labs/definix/internal/chain"
	"github.com/definix-labs/definix/internal/provider"
	"github.com/definix-labs/definix/pkg/helpers"
)

// Connect asks the provider for an account and binds a write session to it.
// A failure leaves the previous connection untouched.
func (s *Service) Connect(ctx context.Context) (common.Address, error) {
	var account common.Address
	var chainID chain.ID

	_, err := s.run(ctx, OpConnect, func(ctx context.Context) (err error) {
		if s.wallet == nil {
			return ErrProviderUnavailable
		}

		s.update(func() { s.connecting = true })
		defer func() {
			if err != nil {
				s.update(func() { s.connecting = false })
			}
		}()

		accounts, err := s.wallet.RequestAccounts(ctx)
		if err != nil {
			return remote(provider.MethodRequestAccounts, err)
		}
		id, err := s.wallet.ChainID(ctx)
		if err != nil {
			return remote(provider.MethodChainID, err)
		}

		account = accounts[0]
		chainID = chain.ID(id)
		s.update(func() {
			s.session = &session{account: account, wallet: s.wallet}
			s.account = account
			s.connected = true
			s.connecting = false
			s.chainID = chainID
		})
		return nil
	})
	if err != nil {
		return common.Address{}, err
	}
	s.onChainChanged(ctx, chainID)

	s.log.Info("Wallet connected", "account", helpers.ShortAddress(account.Hex()), "chain", chain.Name(chainID))
	return account, nil
}

// Disconnect drops the session. It never touches the provider; the chain id
// is kept.
func (s *Service) Disconnect() {
	s.update(func() {
		s.session = nil
		s.account = common.Address{}
		s.connected = false
		s.connecting = false
		s.errMsg = ""
	})
	s.log.Info("Wallet disconnected")
}

// Probe connects without prompting when the provider already authorized an
// account. It reports whether a session was established.
func (s *Service) Probe(ctx context.Context) (bool, error) {
	if s.wallet == nil {
		return false, ErrProviderUnavailable
	}
	accounts, err := s.wallet.Accounts(ctx)
	if err != nil {
		return false, remote(provider.MethodAccounts, err)
	}
	if len(accounts) == 0 {
		return false, nil
	}
	if _, err := s.Connect(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// StartProbe runs Probe once in the background.
func (s *Service) StartProbe(ctx context.Context) {
	s.probeOnce.Do(func() {
		go func() {
			ok, err := s.Probe(ctx)
			switch {
			case err != nil:
				s.log.Debug("No wallet session restored", "error", err)
			case ok:
				s.log.Info("Restored wallet session")
			}
		}()
	})
}

// RefreshChain re-reads the wallet's current chain.
func (s *Service) RefreshChain(ctx context.Context) (chain.ID, error) {
	if s.wallet == nil {
		return 0, ErrProviderUnavailable
	}
	id, err := s.wallet.ChainID(ctx)
	if err != nil {
		return 0, remote(provider.MethodChainID, err)
	}
	s.onChainChanged(ctx, chain.ID(id))
	return chain.ID(id), nil
}
