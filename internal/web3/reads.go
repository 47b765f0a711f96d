package web3

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/definix-labs/definix/internal/contracts/erc20"
)

// Balances holds an account's virtual wallet balances in base units.
type Balances struct {
	Stablecoin *big.Int
	Native     *big.Int
}

// Quote is the contract's conversion estimate for a USDq amount.
type Quote struct {
	StablecoinOutput    *big.Int
	MinStablecoinOutput *big.Int
	NativeOutput        *big.Int
	MinNativeOutput     *big.Int
}

func zeroBalances() Balances {
	return Balances{Stablecoin: new(big.Int), Native: new(big.Int)}
}

func (s *Service) currentReader() (*reader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.reader == nil {
		return nil, ErrNotConnected
	}
	return s.reader, nil
}

func callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx}
}

// The informational reads below never fail on a remote error: they log it and
// return a zero value, leaving the shared error untouched. Only a missing
// backend is reported.

// GetUserBalances returns the account's balances, or zeros on failure.
func (s *Service) GetUserBalances(ctx context.Context, account common.Address) (Balances, error) {
	r, err := s.currentReader()
	if err != nil {
		return zeroBalances(), err
	}
	out, err := r.vw.GetUserBalances(callOpts(ctx), account)
	if err != nil {
		s.log.Debug("Error fetching balances", "account", account.Hex(), "error", err)
		return zeroBalances(), nil
	}
	return Balances{Stablecoin: out.UsdcBalance, Native: out.EthBalance}, nil
}

// WalletExists reports whether account has a virtual wallet, or false on failure.
func (s *Service) WalletExists(ctx context.Context, account common.Address) (bool, error) {
	r, err := s.currentReader()
	if err != nil {
		return false, err
	}
	ok, err := r.vw.WalletExists(callOpts(ctx), account)
	if err != nil {
		s.log.Debug("Error checking wallet", "account", account.Hex(), "error", err)
		return false, nil
	}
	return ok, nil
}

// GetTotalWallets returns the number of virtual wallets, or zero on failure.
func (s *Service) GetTotalWallets(ctx context.Context) (*big.Int, error) {
	r, err := s.currentReader()
	if err != nil {
		return new(big.Int), err
	}
	n, err := r.vw.GetTotalWallets(callOpts(ctx))
	if err != nil {
		s.log.Debug("Error fetching wallet count", "error", err)
		return new(big.Int), nil
	}
	return n, nil
}

// GetUSDqBalance returns the account's USDq balance, or zero on failure.
func (s *Service) GetUSDqBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	r, err := s.currentReader()
	if err != nil {
		return new(big.Int), err
	}
	n, err := r.vw.GetUSDqBalance(callOpts(ctx), account)
	if err != nil {
		s.log.Debug("Error fetching USDq balance", "account", account.Hex(), "error", err)
		return new(big.Int), nil
	}
	return n, nil
}

// GetVirtualBalance returns the wallet's credited balance of token, or zero on failure.
func (s *Service) GetVirtualBalance(ctx context.Context, wallet, token common.Address) (*big.Int, error) {
	r, err := s.currentReader()
	if err != nil {
		return new(big.Int), err
	}
	n, err := r.vw.GetVirtualBalance(callOpts(ctx), wallet, token)
	if err != nil {
		s.log.Debug("Error fetching virtual balance", "wallet", wallet.Hex(), "token", token.Hex(), "error", err)
		return new(big.Int), nil
	}
	return n, nil
}

// GetSpendingCap returns the contract's spending cap for token, or zero on failure.
func (s *Service) GetSpendingCap(ctx context.Context, token common.Address) (*big.Int, error) {
	r, err := s.currentReader()
	if err != nil {
		return new(big.Int), err
	}
	n, err := r.vw.GetSpendingCap(callOpts(ctx), token)
	if err != nil {
		s.log.Debug("Error fetching spending cap", "token", token.Hex(), "error", err)
		return new(big.Int), nil
	}
	return n, nil
}

// CheckAllowance returns the ERC-20 allowance owner granted spender, or zero on failure.
func (s *Service) CheckAllowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	r, err := s.currentReader()
	if err != nil {
		return new(big.Int), err
	}
	t, err := erc20.NewToken(token, r.backend)
	if err != nil {
		return new(big.Int), err
	}
	n, err := t.Allowance(callOpts(ctx), owner, spender)
	if err != nil {
		s.log.Debug("Error checking allowance", "token", token.Hex(), "owner", owner.Hex(), "error", err)
		return new(big.Int), nil
	}
	return n, nil
}

// GetConversionQuote asks the contract what amount converts to. Unlike the
// other reads it runs in the bracket and propagates failure.
func (s *Service) GetConversionQuote(ctx context.Context, usdqAmount *big.Int) (*Quote, error) {
	var q *Quote
	_, err := s.run(ctx, OpConversionQuote, func(ctx context.Context) error {
		if err := checkAmounts(usdqAmount); err != nil {
			return err
		}
		r, err := s.currentReader()
		if err != nil {
			return err
		}
		out, err := r.vw.GetConversionQuote(callOpts(ctx), usdqAmount)
		if err != nil {
			return remote("getConversionQuote", err)
		}
		q = &Quote{
			StablecoinOutput:    out.UsdcOutput,
			MinStablecoinOutput: out.MinUsdcOutput,
			NativeOutput:        out.EthOutput,
			MinNativeOutput:     out.MinEthOutput,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}
