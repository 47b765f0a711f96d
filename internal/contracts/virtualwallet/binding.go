// Package virtualwallet is a Go binding for the DeFiniX virtual wallet contract.
//
// Reads go through a bind.BoundContract on a chain backend. Writes are signed by
// the user's wallet provider, so the binding only produces their calldata.
package virtualwallet

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// VirtualWalletMetaData contains all meta data concerning the VirtualWallet contract.
var VirtualWalletMetaData = &bind.MetaData{
	ABI: `[{"inputs":[],"name":"createVirtualWallet","outputs":[{"internalType":"address","name":"walletAddress","type":"address"}],"stateMutability":"nonpayable","type":"function"},{"inputs":[{"internalType":"address","name":"user","type":"address"}],"name":"getUserBalances","outputs":[{"internalType":"uint256","name":"usdcBalance","type":"uint256"},{"internalType":"uint256","name":"ethBalance","type":"uint256"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"uint256","name":"usdqAmount","type":"uint256"}],"name":"getConversionQuote","outputs":[{"internalType":"uint256","name":"usdcOutput","type":"uint256"},{"internalType":"uint256","name":"minUsdcOutput","type":"uint256"},{"internalType":"uint256","name":"ethOutput","type":"uint256"},{"internalType":"uint256","name":"minEthOutput","type":"uint256"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"address","name":"receiver","type":"address"},{"internalType":"uint256","name":"usdqAmount","type":"uint256"},{"internalType":"uint256","name":"minOutput","type":"uint256"}],"name":"convertToETH","outputs":[{"internalType":"uint256","name":"outputAmount","type":"uint256"}],"stateMutability":"nonpayable","type":"function"},{"inputs":[{"internalType":"address","name":"receiver","type":"address"},{"internalType":"uint256","name":"usdqAmount","type":"uint256"},{"internalType":"uint256","name":"minOutput","type":"uint256"}],"name":"convertToUSDC","outputs":[{"internalType":"uint256","name":"outputAmount","type":"uint256"}],"stateMutability":"nonpayable","type":"function"},{"inputs":[{"internalType":"address","name":"token","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"},{"internalType":"address","name":"receiver","type":"address"},{"internalType":"uint256","name":"minOutput","type":"uint256"}],"name":"depositToETH","outputs":[{"internalType":"uint256","name":"outputAmount","type":"uint256"}],"stateMutability":"nonpayable","type":"function"},{"inputs":[{"internalType":"address","name":"token","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"},{"internalType":"address","name":"receiver","type":"address"},{"internalType":"uint256","name":"minOutput","type":"uint256"}],"name":"depositToUSDC","outputs":[{"internalType":"uint256","name":"outputAmount","type":"uint256"}],"stateMutability":"nonpayable","type":"function"},{"inputs":[{"internalType":"uint256","name":"amount","type":"uint256"},{"internalType":"uint256","name":"minUsdqOutput","type":"uint256"}],"name":"withdrawETH","outputs":[{"internalType":"uint256","name":"usdqAmount","type":"uint256"}],"stateMutability":"nonpayable","type":"function"},{"inputs":[{"internalType":"uint256","name":"amount","type":"uint256"},{"internalType":"uint256","name":"minUsdqOutput","type":"uint256"}],"name":"withdrawUSDC","outputs":[{"internalType":"uint256","name":"usdqAmount","type":"uint256"}],"stateMutability":"nonpayable","type":"function"},{"inputs":[{"internalType":"address","name":"user","type":"address"}],"name":"getUSDqBalance","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"address","name":"wallet","type":"address"},{"internalType":"address","name":"token","type":"address"}],"name":"getVirtualBalance","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"address","name":"token","type":"address"}],"name":"getSpendingCap","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"address","name":"wallet","type":"address"}],"name":"walletExists","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"},{"inputs":[],"name":"getTotalWallets","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`,
}

// UserBalances is the output of getUserBalances.
type UserBalances struct {
	UsdcBalance *big.Int
	EthBalance  *big.Int
}

// ConversionQuote is the output of getConversionQuote.
type ConversionQuote struct {
	UsdcOutput    *big.Int
	MinUsdcOutput *big.Int
	EthOutput     *big.Int
	MinEthOutput  *big.Int
}

// VirtualWallet is a binding around the contract at a fixed address.
type VirtualWallet struct {
	address  common.Address
	abi      *abi.ABI
	contract *bind.BoundContract
}

// NewVirtualWallet creates a binding for the contract at address, reading through caller.
// caller may be nil when only calldata is needed.
func NewVirtualWallet(address common.Address, caller bind.ContractCaller) (*VirtualWallet, error) {
	parsed, err := VirtualWalletMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	if parsed == nil {
		return nil, errors.New("GetABI returned nil")
	}
	return &VirtualWallet{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, *parsed, caller, nil, nil),
	}, nil
}

// Address returns the contract address.
func (v *VirtualWallet) Address() common.Address { return v.address }

// ABI returns the parsed contract ABI.
func (v *VirtualWallet) ABI() *abi.ABI { return v.abi }

// ============================================================================
// Views
// ============================================================================

// GetUserBalances is a free data retrieval call.
//
// Solidity: function getUserBalances(address user) view returns(uint256 usdcBalance, uint256 ethBalance)
func (v *VirtualWallet) GetUserBalances(opts *bind.CallOpts, user common.Address) (UserBalances, error) {
	var out []interface{}
	err := v.contract.Call(opts, &out, "getUserBalances", user)

	outstruct := new(UserBalances)
	if err != nil {
		return *outstruct, err
	}

	outstruct.UsdcBalance = *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	outstruct.EthBalance = *abi.ConvertType(out[1], new(*big.Int)).(**big.Int)

	return *outstruct, err
}

// GetConversionQuote is a free data retrieval call.
//
// Solidity: function getConversionQuote(uint256 usdqAmount) view returns(uint256 usdcOutput, uint256 minUsdcOutput, uint256 ethOutput, uint256 minEthOutput)
func (v *VirtualWallet) GetConversionQuote(opts *bind.CallOpts, usdqAmount *big.Int) (ConversionQuote, error) {
	var out []interface{}
	err := v.contract.Call(opts, &out, "getConversionQuote", usdqAmount)

	outstruct := new(ConversionQuote)
	if err != nil {
		return *outstruct, err
	}

	outstruct.UsdcOutput = *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	outstruct.MinUsdcOutput = *abi.ConvertType(out[1], new(*big.Int)).(**big.Int)
	outstruct.EthOutput = *abi.ConvertType(out[2], new(*big.Int)).(**big.Int)
	outstruct.MinEthOutput = *abi.ConvertType(out[3], new(*big.Int)).(**big.Int)

	return *outstruct, err
}

// WalletExists is a free data retrieval call.
//
// Solidity: function walletExists(address wallet) view returns(bool)
func (v *VirtualWallet) WalletExists(opts *bind.CallOpts, wallet common.Address) (bool, error) {
	var out []interface{}
	err := v.contract.Call(opts, &out, "walletExists", wallet)
	if err != nil {
		return *new(bool), err
	}

	out0 := *abi.ConvertType(out[0], new(bool)).(*bool)
	return out0, err
}

// GetTotalWallets is a free data retrieval call.
//
// Solidity: function getTotalWallets() view returns(uint256)
func (v *VirtualWallet) GetTotalWallets(opts *bind.CallOpts) (*big.Int, error) {
	return v.callUint(opts, "getTotalWallets")
}

// GetUSDqBalance is a free data retrieval call.
//
// Solidity: function getUSDqBalance(address user) view returns(uint256)
func (v *VirtualWallet) GetUSDqBalance(opts *bind.CallOpts, user common.Address) (*big.Int, error) {
	return v.callUint(opts, "getUSDqBalance", user)
}

// GetVirtualBalance is a free data retrieval call.
//
// Solidity: function getVirtualBalance(address wallet, address token) view returns(uint256)
func (v *VirtualWallet) GetVirtualBalance(opts *bind.CallOpts, wallet, token common.Address) (*big.Int, error) {
	return v.callUint(opts, "getVirtualBalance", wallet, token)
}

// GetSpendingCap is a free data retrieval call.
//
// Solidity: function getSpendingCap(address token) view returns(uint256)
func (v *VirtualWallet) GetSpendingCap(opts *bind.CallOpts, token common.Address) (*big.Int, error) {
	return v.callUint(opts, "getSpendingCap", token)
}

func (v *VirtualWallet) callUint(opts *bind.CallOpts, method string, params ...interface{}) (*big.Int, error) {
	var out []interface{}
	err := v.contract.Call(opts, &out, method, params...)
	if err != nil {
		return *new(*big.Int), err
	}

	out0 := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return out0, err
}

// ============================================================================
// Calldata
// ============================================================================

// PackCreateVirtualWallet encodes createVirtualWallet().
func (v *VirtualWallet) PackCreateVirtualWallet() ([]byte, error) {
	return v.abi.Pack("createVirtualWallet")
}

// PackConvertToETH encodes convertToETH(receiver, usdqAmount, minOutput).
func (v *VirtualWallet) PackConvertToETH(receiver common.Address, usdqAmount, minOutput *big.Int) ([]byte, error) {
	return v.abi.Pack("convertToETH", receiver, usdqAmount, minOutput)
}

// PackConvertToUSDC encodes convertToUSDC(receiver, usdqAmount, minOutput).
func (v *VirtualWallet) PackConvertToUSDC(receiver common.Address, usdqAmount, minOutput *big.Int) ([]byte, error) {
	return v.abi.Pack("convertToUSDC", receiver, usdqAmount, minOutput)
}

// PackDepositToETH encodes depositToETH(token, amount, receiver, minOutput).
func (v *VirtualWallet) PackDepositToETH(token common.Address, amount *big.Int, receiver common.Address, minOutput *big.Int) ([]byte, error) {
	return v.abi.Pack("depositToETH", token, amount, receiver, minOutput)
}

// PackDepositToUSDC encodes depositToUSDC(token, amount, receiver, minOutput).
func (v *VirtualWallet) PackDepositToUSDC(token common.Address, amount *big.Int, receiver common.Address, minOutput *big.Int) ([]byte, error) {
	return v.abi.Pack("depositToUSDC", token, amount, receiver, minOutput)
}

// PackWithdrawETH encodes withdrawETH(amount, minUsdqOutput).
func (v *VirtualWallet) PackWithdrawETH(amount, minUsdqOutput *big.Int) ([]byte, error) {
	return v.abi.Pack("withdrawETH", amount, minUsdqOutput)
}

// PackWithdrawUSDC encodes withdrawUSDC(amount, minUsdqOutput).
func (v *VirtualWallet) PackWithdrawUSDC(amount, minUsdqOutput *big.Int) ([]byte, error) {
	return v.abi.Pack("withdrawUSDC", amount, minUsdqOutput)
}
