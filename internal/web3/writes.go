package web3

import (
	"context"
	"fmt"
	"math/big"

	bindv2 "github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/definix-labs/definix/internal/chain"
	"github.com/definix-labs/definix/internal/chainclient"
	"github.com/definix-labs/definix/internal/contracts/erc20"
	"github.com/definix-labs/definix/internal/provider"
)

// TxResult describes a mined, successful transaction.
type TxResult struct {
	Op          string
	Hash        common.Hash
	ChainID     chain.ID
	BlockNumber uint64
	GasUsed     uint64
	ExplorerURL string
	Status      OpStatus
}

func (s *Service) currentSession() (*session, chain.ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, 0, ErrNotConnected
	}
	return s.session, s.chainID, nil
}

// receiptBackend resolves where confirmations for txs sent on id are read.
func (s *Service) receiptBackend(ctx context.Context, id chain.ID) (chainclient.Backend, error) {
	if s.backends == nil {
		return nil, fmt.Errorf("%w: no backend to confirm transactions", ErrNotConnected)
	}
	return s.backends.Backend(ctx, id)
}

// transact sends calldata from the session account to `to` and waits until
// the transaction is mined. A reverted receipt is an error.
func (s *Service) transact(ctx context.Context, op string, to common.Address, pack func() ([]byte, error)) (*TxResult, error) {
	sess, chainID, err := s.currentSession()
	if err != nil {
		return nil, err
	}

	var res *TxResult
	st, err := s.run(ctx, op, func(ctx context.Context) error {
		data, err := pack()
		if err != nil {
			return err
		}
		receipts, err := s.receiptBackend(ctx, chainID)
		if err != nil {
			return err
		}

		hash, err := sess.wallet.SendTransaction(ctx, provider.TxRequest{
			From: sess.account,
			To:   &to,
			Data: data,
		})
		if err != nil {
			return remote(provider.MethodSendTransaction, err)
		}
		s.log.Info("Transaction submitted", "op", op, "tx", hash.Hex(), "chain", chain.Name(chainID))

		receipt, err := bindv2.WaitMined(ctx, receipts, hash)
		if err != nil {
			return remote("waitMined", err)
		}
		if receipt.Status != types.ReceiptStatusSuccessful {
			return remote(op, fmt.Errorf("%w: tx %s", ErrReverted, hash.Hex()))
		}

		res = &TxResult{
			Op:      op,
			Hash:    hash,
			ChainID: chainID,
			GasUsed: receipt.GasUsed,
		}
		if receipt.BlockNumber != nil {
			res.BlockNumber = receipt.BlockNumber.Uint64()
		}
		if desc, err := chain.Get(chainID); err == nil {
			res.ExplorerURL = desc.TxURL(hash.Hex())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Status = st
	s.log.Info("Transaction confirmed", "op", op, "tx", res.Hash.Hex(), "block", res.BlockNumber)
	return res, nil
}

// CreateVirtualWallet creates a virtual wallet for the connected account.
func (s *Service) CreateVirtualWallet(ctx context.Context) (*TxResult, error) {
	return s.transact(ctx, OpCreateVirtualWallet, s.vw.Address(), s.vw.PackCreateVirtualWallet)
}

// ConvertToETH converts usdqAmount to the native asset credited to receiver.
func (s *Service) ConvertToETH(ctx context.Context, receiver common.Address, usdqAmount, minOutput *big.Int) (*TxResult, error) {
	return s.transact(ctx, OpConvertToETH, s.vw.Address(), func() ([]byte, error) {
		if err := checkAmounts(usdqAmount, minOutput); err != nil {
			return nil, err
		}
		return s.vw.PackConvertToETH(receiver, usdqAmount, minOutput)
	})
}

// ConvertToUSDC converts usdqAmount to USDC credited to receiver.
func (s *Service) ConvertToUSDC(ctx context.Context, receiver common.Address, usdqAmount, minOutput *big.Int) (*TxResult, error) {
	return s.transact(ctx, OpConvertToUSDC, s.vw.Address(), func() ([]byte, error) {
		if err := checkAmounts(usdqAmount, minOutput); err != nil {
			return nil, err
		}
		return s.vw.PackConvertToUSDC(receiver, usdqAmount, minOutput)
	})
}

// DepositToETH deposits token and credits the native asset to receiver.
// The contract must already hold an allowance for amount.
func (s *Service) DepositToETH(ctx context.Context, token common.Address, amount *big.Int, receiver common.Address, minOutput *big.Int) (*TxResult, error) {
	return s.transact(ctx, OpDepositToETH, s.vw.Address(), func() ([]byte, error) {
		if err := checkAmounts(amount, minOutput); err != nil {
			return nil, err
		}
		return s.vw.PackDepositToETH(token, amount, receiver, minOutput)
	})
}

// DepositToUSDC deposits token and credits USDC to receiver.
func (s *Service) DepositToUSDC(ctx context.Context, token common.Address, amount *big.Int, receiver common.Address, minOutput *big.Int) (*TxResult, error) {
	return s.transact(ctx, OpDepositToUSDC, s.vw.Address(), func() ([]byte, error) {
		if err := checkAmounts(amount, minOutput); err != nil {
			return nil, err
		}
		return s.vw.PackDepositToUSDC(token, amount, receiver, minOutput)
	})
}

// WithdrawETH withdraws amount of the native asset for at least minUsdqOutput USDq.
func (s *Service) WithdrawETH(ctx context.Context, amount, minUsdqOutput *big.Int) (*TxResult, error) {
	return s.transact(ctx, OpWithdrawETH, s.vw.Address(), func() ([]byte, error) {
		if err := checkAmounts(amount, minUsdqOutput); err != nil {
			return nil, err
		}
		return s.vw.PackWithdrawETH(amount, minUsdqOutput)
	})
}

// WithdrawUSDC withdraws amount of USDC for at least minUsdqOutput USDq.
func (s *Service) WithdrawUSDC(ctx context.Context, amount, minUsdqOutput *big.Int) (*TxResult, error) {
	return s.transact(ctx, OpWithdrawUSDC, s.vw.Address(), func() ([]byte, error) {
		if err := checkAmounts(amount, minUsdqOutput); err != nil {
			return nil, err
		}
		return s.vw.PackWithdrawUSDC(amount, minUsdqOutput)
	})
}

// ApproveToken lets spender move amount of token on behalf of the connected account.
func (s *Service) ApproveToken(ctx context.Context, token, spender common.Address, amount *big.Int) (*TxResult, error) {
	t, err := erc20.NewToken(token, nil)
	if err != nil {
		return nil, err
	}
	return s.transact(ctx, OpApproveToken, token, func() ([]byte, error) {
		if err := checkAmounts(amount); err != nil {
			return nil, err
		}
		return t.PackApprove(spender, amount)
	})
}

// EnsureAllowance approves amount only when the current allowance is short.
// It returns a nil result when no approval was needed.
func (s *Service) EnsureAllowance(ctx context.Context, token, spender common.Address, amount *big.Int) (*TxResult, error) {
	sess, _, err := s.currentSession()
	if err != nil {
		return nil, err
	}
	current, err := s.CheckAllowance(ctx, token, sess.account, spender)
	if err != nil {
		return nil, err
	}
	if amount != nil && current.Cmp(amount) >= 0 {
		return nil, nil
	}
	return s.ApproveToken(ctx, token, spender, amount)
}
