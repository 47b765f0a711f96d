package provider

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Methods used by Client.
const (
	MethodAccounts        = "eth_accounts"
	MethodRequestAccounts = "eth_requestAccounts"
	MethodChainID         = "eth_chainId"
	MethodSendTransaction = "eth_sendTransaction"
	MethodSwitchChain     = "wallet_switchEthereumChain"
	MethodAddChain        = "wallet_addEthereumChain"
)

// ErrNoAccounts is returned when the provider authorized zero accounts.
var ErrNoAccounts = errors.New("provider returned no accounts")

// NativeCurrency describes a chain's gas token in wallet_addEthereumChain.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// AddChainParams is the wallet_addEthereumChain parameter object.
type AddChainParams struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
}

type switchChainParams struct {
	ChainID string `json:"chainId"`
}

// TxRequest is the eth_sendTransaction parameter object. The provider fills
// in gas, fees and nonce when they are omitted.
type TxRequest struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Gas   *hexutil.Uint64 `json:"gas,omitempty"`
}

// Client issues typed wallet requests over a Provider.
type Client struct {
	p Provider
}

// NewClient creates a typed client.
func NewClient(p Provider) *Client {
	return &Client{p: p}
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider { return c.p }

// Accounts returns the already-authorized accounts without prompting the user.
func (c *Client) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := c.p.Request(ctx, &accounts, MethodAccounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// RequestAccounts asks the user to authorize accounts. It may block until the
// user decides.
func (c *Client) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := c.p.Request(ctx, &accounts, MethodRequestAccounts); err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}
	return accounts, nil
}

// ChainID returns the chain the provider is currently on.
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	var id hexutil.Uint64
	if err := c.p.Request(ctx, &id, MethodChainID); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// SwitchChain asks the provider to move to chainIDHex.
func (c *Client) SwitchChain(ctx context.Context, chainIDHex string) error {
	return c.p.Request(ctx, nil, MethodSwitchChain, switchChainParams{ChainID: chainIDHex})
}

// AddChain asks the provider to register a chain.
func (c *Client) AddChain(ctx context.Context, params AddChainParams) error {
	return c.p.Request(ctx, nil, MethodAddChain, params)
}

// SendTransaction asks the provider to sign and broadcast tx.
func (c *Client) SendTransaction(ctx context.Context, tx TxRequest) (common.Hash, error) {
	var hash common.Hash
	if err := c.p.Request(ctx, &hash, MethodSendTransaction, tx); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// BigValue converts v for TxRequest.Value.
func BigValue(v *big.Int) *hexutil.Big {
	if v == nil || v.Sign() == 0 {
		return nil
	}
	return (*hexutil.Big)(v)
}
