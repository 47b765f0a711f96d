package rpc

import (
	"context"
	"encoding/json"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/definix-labs/definix/internal/chain"
	"github.com/definix-labs/definix/internal/web3"
	"github.com/definix-labs/definix/pkg/helpers"
)

// Version of the daemon
const Version = "0.1.0-dev"

// parseParams decodes params into v. Missing params leave v untouched.
func parseParams(params json.RawMessage, v interface{}) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return invalidParams("%v", err)
	}
	return nil
}

// parseAmount parses a base-10 integer string in base units.
func parseAmount(field, s string) (*big.Int, error) {
	if s == "" {
		return nil, invalidParams("%s is required", field)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, invalidParams("%s must be a non-negative base-10 integer", field)
	}
	return v, nil
}

// parseOptionalAmount is parseAmount with a fallback for empty input.
func parseOptionalAmount(field, s string, fallback func() *big.Int) (*big.Int, error) {
	if s == "" {
		return fallback(), nil
	}
	return parseAmount(field, s)
}

func parseAddress(field, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, invalidParams("%s must be a hex address", field)
	}
	return common.HexToAddress(s), nil
}

// accountOr returns the address in s, or the connected account when s is empty.
func (s *Server) accountOr(field, addr string) (common.Address, error) {
	if addr != "" {
		return parseAddress(field, addr)
	}
	account, ok := s.web3.Account()
	if !ok {
		return common.Address{}, web3.ErrNotConnected
	}
	return account, nil
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// ========================================
// Connection handlers
// ========================================

// StateResult is the response for state_get and the state_changed event.
type StateResult struct {
	Account         string   `json:"account"`
	ShortAccount    string   `json:"short_account,omitempty"`
	Connected       bool     `json:"connected"`
	Loading         bool     `json:"loading"`
	ErrorMessage    string   `json:"error_message"`
	ChainID         uint64   `json:"chain_id"`
	ChainName       string   `json:"chain_name"`
	ReadChainID     uint64   `json:"read_chain_id"`
	SupportedChains []uint64 `json:"supported_chains"`
	Phase           string   `json:"phase"`
}

func (s *Server) stateResult(st web3.State) *StateResult {
	supported := make([]uint64, 0, len(st.SupportedChains))
	for _, id := range st.SupportedChains {
		supported = append(supported, id.Uint64())
	}
	return &StateResult{
		Account:         st.Account,
		ShortAccount:    helpers.ShortAddress(st.Account),
		Connected:       st.Connected,
		Loading:         st.Loading,
		ErrorMessage:    st.ErrorMessage,
		ChainID:         st.ChainID.Uint64(),
		ChainName:       chain.Name(st.ChainID),
		ReadChainID:     s.web3.ReadChain().Uint64(),
		SupportedChains: supported,
		Phase:           string(st.Phase),
	}
}

func (s *Server) stateGet(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return s.stateResult(s.web3.State()), nil
}

// ConnectResult is the response for wallet_connect.
type ConnectResult struct {
	Account string `json:"account"`
	ChainID uint64 `json:"chain_id"`
}

func (s *Server) walletConnect(ctx context.Context, params json.RawMessage) (interface{}, error) {
	account, err := s.web3.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return &ConnectResult{
		Account: account.Hex(),
		ChainID: s.web3.ChainID().Uint64(),
	}, nil
}

func (s *Server) walletDisconnect(ctx context.Context, params json.RawMessage) (interface{}, error) {
	s.web3.Disconnect()
	return s.stateResult(s.web3.State()), nil
}

// ========================================
// Chain handlers
// ========================================

// ChainSwitchParams is the request for chain_switch.
type ChainSwitchParams struct {
	ChainID uint64 `json:"chain_id"`
}

func (s *Server) chainSwitch(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p ChainSwitchParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	if p.ChainID == 0 {
		return nil, invalidParams("chain_id is required")
	}
	if err := s.web3.SwitchChain(ctx, chain.ID(p.ChainID)); err != nil {
		return nil, err
	}
	return s.stateResult(s.web3.State()), nil
}

// ChainInfo describes one registered chain.
type ChainInfo struct {
	ChainID      uint64 `json:"chain_id"`
	ChainIDHex   string `json:"chain_id_hex"`
	Name         string `json:"name"`
	ExplorerURL  string `json:"explorer_url"`
	NativeSymbol string `json:"native_symbol"`
	Current      bool   `json:"current"`
}

func (s *Server) chainList(ctx context.Context, params json.RawMessage) (interface{}, error) {
	current := s.web3.ChainID()
	ids := s.web3.SupportedChains()
	result := make([]ChainInfo, 0, len(ids))
	for _, id := range ids {
		desc, err := chain.Get(id)
		if err != nil {
			continue
		}
		result = append(result, ChainInfo{
			ChainID:      desc.ID.Uint64(),
			ChainIDHex:   desc.ChainIDHex(),
			Name:         desc.Name,
			ExplorerURL:  desc.ExplorerURL,
			NativeSymbol: desc.NativeSymbol,
			Current:      id == current,
		})
	}
	return result, nil
}

// TokensListParams is the request for tokens_list.
type TokensListParams struct {
	ChainID uint64 `json:"chain_id,omitempty"`
}

// TokenInfo describes one registered token.
type TokenInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
	Address  string `json:"address"`
	ChainID  uint64 `json:"chain_id"`
}

func (s *Server) tokensList(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p TokensListParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	id := chain.ID(p.ChainID)
	if id == 0 {
		id = s.web3.ChainID()
	}
	if _, err := chain.Get(id); err != nil {
		return nil, err
	}

	tokens := s.web3.SupportedTokens(id)
	result := make([]TokenInfo, 0, len(tokens))
	for _, t := range tokens {
		result = append(result, TokenInfo{
			Symbol:   t.Symbol,
			Name:     t.Name,
			Decimals: t.Decimals,
			Address:  t.Address,
			ChainID:  t.ChainID.Uint64(),
		})
	}
	return result, nil
}

// ========================================
// Virtual wallet read handlers
// ========================================

// AccountParams selects an account; empty means the connected one.
type AccountParams struct {
	Account string `json:"account,omitempty"`
}

// BalancesResult is the response for vault_balances.
type BalancesResult struct {
	Account        string `json:"account"`
	USDCBalance    string `json:"usdc_balance"`
	ETHBalance     string `json:"eth_balance"`
	USDCFormatted  string `json:"usdc_formatted"`
	ETHFormatted   string `json:"eth_formatted"`
	USDqBalance    string `json:"usdq_balance,omitempty"`
	USDqFormatted  string `json:"usdq_formatted,omitempty"`
	StablecoinAddr string `json:"usdc_address,omitempty"`
}

// Display decimals of the virtual wallet balances.
const (
	stablecoinDecimals = 6
	nativeDecimals     = 18
)

func (s *Server) vaultBalances(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p AccountParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	account, err := s.accountOr("account", p.Account)
	if err != nil {
		return nil, err
	}

	b, err := s.web3.GetUserBalances(ctx, account)
	if err != nil {
		return nil, err
	}
	usdq, err := s.web3.GetUSDqBalance(ctx, account)
	if err != nil {
		return nil, err
	}

	result := &BalancesResult{
		Account:       account.Hex(),
		USDCBalance:   amountString(b.Stablecoin),
		ETHBalance:    amountString(b.Native),
		USDCFormatted: helpers.FormatUnits(b.Stablecoin, stablecoinDecimals),
		ETHFormatted:  helpers.FormatUnits(b.Native, nativeDecimals),
		USDqBalance:   amountString(usdq),
		USDqFormatted: helpers.FormatUnits(usdq, stablecoinDecimals),
	}
	if addr, ok := s.web3.StablecoinAddress(s.web3.ReadChain()); ok {
		result.StablecoinAddr = addr.Hex()
	}
	return result, nil
}

// QuoteParams is the request for vault_quote.
type QuoteParams struct {
	Amount string `json:"amount"`
}

// QuoteResult is the response for vault_quote.
type QuoteResult struct {
	USDCOutput    string `json:"usdc_output"`
	MinUSDCOutput string `json:"min_usdc_output"`
	ETHOutput     string `json:"eth_output"`
	MinETHOutput  string `json:"min_eth_output"`
}

func (s *Server) vaultQuote(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p QuoteParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	amount, err := parseAmount("amount", p.Amount)
	if err != nil {
		return nil, err
	}

	q, err := s.web3.GetConversionQuote(ctx, amount)
	if err != nil {
		return nil, err
	}
	return &QuoteResult{
		USDCOutput:    amountString(q.StablecoinOutput),
		MinUSDCOutput: amountString(q.MinStablecoinOutput),
		ETHOutput:     amountString(q.NativeOutput),
		MinETHOutput:  amountString(q.MinNativeOutput),
	}, nil
}

// ExistsResult is the response for vault_exists.
type ExistsResult struct {
	Account string `json:"account"`
	Exists  bool   `json:"exists"`
}

func (s *Server) vaultExists(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p AccountParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	account, err := s.accountOr("account", p.Account)
	if err != nil {
		return nil, err
	}
	exists, err := s.web3.WalletExists(ctx, account)
	if err != nil {
		return nil, err
	}
	return &ExistsResult{Account: account.Hex(), Exists: exists}, nil
}

// TotalWalletsResult is the response for vault_totalWallets.
type TotalWalletsResult struct {
	Total string `json:"total"`
}

func (s *Server) vaultTotalWallets(ctx context.Context, params json.RawMessage) (interface{}, error) {
	n, err := s.web3.GetTotalWallets(ctx)
	if err != nil {
		return nil, err
	}
	return &TotalWalletsResult{Total: amountString(n)}, nil
}

// DashboardResult is the payload of the dashboard event.
type DashboardResult struct {
	Account      string `json:"account"`
	ChainID      uint64 `json:"chain_id"`
	USDCBalance  string `json:"usdc_balance"`
	ETHBalance   string `json:"eth_balance"`
	USDqBalance  string `json:"usdq_balance"`
	WalletExists bool   `json:"wallet_exists"`
	TotalWallets string `json:"total_wallets"`
	UpdatedAt    int64  `json:"updated_at"`
}

func dashboardResult(d web3.Dashboard) *DashboardResult {
	return &DashboardResult{
		Account:      d.Account.Hex(),
		ChainID:      d.ChainID,
		USDCBalance:  amountString(d.Balances.Stablecoin),
		ETHBalance:   amountString(d.Balances.Native),
		USDqBalance:  amountString(d.USDqBalance),
		WalletExists: d.WalletExists,
		TotalWallets: amountString(d.TotalWallets),
		UpdatedAt:    d.UpdatedAt.Unix(),
	}
}

// ========================================
// Virtual wallet write handlers
// ========================================

// TxResultInfo is the response for every state-changing call.
type TxResultInfo struct {
	Op          string `json:"op"`
	TxHash      string `json:"tx_hash"`
	ChainID     uint64 `json:"chain_id"`
	BlockNumber uint64 `json:"block_number"`
	GasUsed     uint64 `json:"gas_used"`
	ExplorerURL string `json:"explorer_url,omitempty"`
	OpID        string `json:"op_id"`
	Duration    string `json:"duration"`
}

func txResultInfo(r *web3.TxResult) *TxResultInfo {
	return &TxResultInfo{
		Op:          r.Op,
		TxHash:      r.Hash.Hex(),
		ChainID:     r.ChainID.Uint64(),
		BlockNumber: r.BlockNumber,
		GasUsed:     r.GasUsed,
		ExplorerURL: r.ExplorerURL,
		OpID:        r.Status.ID.String(),
		Duration:    r.Status.Duration().Round(time.Millisecond).String(),
	}
}

func txResponse(r *web3.TxResult, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return txResultInfo(r), nil
}

func (s *Server) vaultCreate(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return txResponse(s.web3.CreateVirtualWallet(ctx))
}

// ConvertParams is the request for vault_convertToETH and vault_convertToUSDC.
// Receiver defaults to the connected account and MinOutput to the amount less
// the configured slippage.
type ConvertParams struct {
	Amount    string `json:"amount"`
	MinOutput string `json:"min_output,omitempty"`
	Receiver  string `json:"receiver,omitempty"`
}

func (s *Server) parseConvert(params json.RawMessage) (common.Address, *big.Int, *big.Int, error) {
	var p ConvertParams
	if err := parseParams(params, &p); err != nil {
		return common.Address{}, nil, nil, err
	}
	amount, err := parseAmount("amount", p.Amount)
	if err != nil {
		return common.Address{}, nil, nil, err
	}
	minOut, err := parseOptionalAmount("min_output", p.MinOutput, func() *big.Int { return s.web3.MinOutput(amount) })
	if err != nil {
		return common.Address{}, nil, nil, err
	}
	receiver, err := s.accountOr("receiver", p.Receiver)
	if err != nil {
		return common.Address{}, nil, nil, err
	}
	return receiver, amount, minOut, nil
}

func (s *Server) vaultConvertToETH(ctx context.Context, params json.RawMessage) (interface{}, error) {
	receiver, amount, minOut, err := s.parseConvert(params)
	if err != nil {
		return nil, err
	}
	return txResponse(s.web3.ConvertToETH(ctx, receiver, amount, minOut))
}

func (s *Server) vaultConvertToUSDC(ctx context.Context, params json.RawMessage) (interface{}, error) {
	receiver, amount, minOut, err := s.parseConvert(params)
	if err != nil {
		return nil, err
	}
	return txResponse(s.web3.ConvertToUSDC(ctx, receiver, amount, minOut))
}

// DepositParams is the request for vault_depositToETH and vault_depositToUSDC.
// MinOutput defaults to zero.
type DepositParams struct {
	Token     string `json:"token"`
	Amount    string `json:"amount"`
	MinOutput string `json:"min_output,omitempty"`
	Receiver  string `json:"receiver,omitempty"`
}

func (s *Server) parseDeposit(params json.RawMessage) (common.Address, *big.Int, common.Address, *big.Int, error) {
	var p DepositParams
	if err := parseParams(params, &p); err != nil {
		return common.Address{}, nil, common.Address{}, nil, err
	}
	token, err := parseAddress("token", p.Token)
	if err != nil {
		return common.Address{}, nil, common.Address{}, nil, err
	}
	amount, err := parseAmount("amount", p.Amount)
	if err != nil {
		return common.Address{}, nil, common.Address{}, nil, err
	}
	minOut, err := parseOptionalAmount("min_output", p.MinOutput, func() *big.Int { return new(big.Int) })
	if err != nil {
		return common.Address{}, nil, common.Address{}, nil, err
	}
	receiver, err := s.accountOr("receiver", p.Receiver)
	if err != nil {
		return common.Address{}, nil, common.Address{}, nil, err
	}
	return token, amount, receiver, minOut, nil
}

func (s *Server) vaultDepositToETH(ctx context.Context, params json.RawMessage) (interface{}, error) {
	token, amount, receiver, minOut, err := s.parseDeposit(params)
	if err != nil {
		return nil, err
	}
	return txResponse(s.web3.DepositToETH(ctx, token, amount, receiver, minOut))
}

func (s *Server) vaultDepositToUSDC(ctx context.Context, params json.RawMessage) (interface{}, error) {
	token, amount, receiver, minOut, err := s.parseDeposit(params)
	if err != nil {
		return nil, err
	}
	return txResponse(s.web3.DepositToUSDC(ctx, token, amount, receiver, minOut))
}

// WithdrawParams is the request for vault_withdrawETH and vault_withdrawUSDC.
// MinUSDqOutput defaults to zero.
type WithdrawParams struct {
	Amount        string `json:"amount"`
	MinUSDqOutput string `json:"min_usdq_output,omitempty"`
}

func parseWithdraw(params json.RawMessage) (*big.Int, *big.Int, error) {
	var p WithdrawParams
	if err := parseParams(params, &p); err != nil {
		return nil, nil, err
	}
	amount, err := parseAmount("amount", p.Amount)
	if err != nil {
		return nil, nil, err
	}
	minOut, err := parseOptionalAmount("min_usdq_output", p.MinUSDqOutput, func() *big.Int { return new(big.Int) })
	if err != nil {
		return nil, nil, err
	}
	return amount, minOut, nil
}

func (s *Server) vaultWithdrawETH(ctx context.Context, params json.RawMessage) (interface{}, error) {
	amount, minOut, err := parseWithdraw(params)
	if err != nil {
		return nil, err
	}
	return txResponse(s.web3.WithdrawETH(ctx, amount, minOut))
}

func (s *Server) vaultWithdrawUSDC(ctx context.Context, params json.RawMessage) (interface{}, error) {
	amount, minOut, err := parseWithdraw(params)
	if err != nil {
		return nil, err
	}
	return txResponse(s.web3.WithdrawUSDC(ctx, amount, minOut))
}

// ========================================
// ERC-20 handlers
// ========================================

// ApproveParams is the request for token_approve. Spender defaults to the
// virtual wallet contract. With IfNeeded, the approval is skipped when the
// current allowance already covers Amount.
type ApproveParams struct {
	Token    string `json:"token"`
	Spender  string `json:"spender,omitempty"`
	Amount   string `json:"amount"`
	IfNeeded bool   `json:"if_needed,omitempty"`
}

// ApproveResult is the response for token_approve.
type ApproveResult struct {
	Approved bool          `json:"approved"`
	Tx       *TxResultInfo `json:"tx,omitempty"`
}

func (s *Server) tokenApprove(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p ApproveParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	token, err := parseAddress("token", p.Token)
	if err != nil {
		return nil, err
	}
	spender := s.web3.Contract()
	if p.Spender != "" {
		if spender, err = parseAddress("spender", p.Spender); err != nil {
			return nil, err
		}
	}
	amount, err := parseAmount("amount", p.Amount)
	if err != nil {
		return nil, err
	}

	var res *web3.TxResult
	if p.IfNeeded {
		res, err = s.web3.EnsureAllowance(ctx, token, spender, amount)
	} else {
		res, err = s.web3.ApproveToken(ctx, token, spender, amount)
	}
	if err != nil {
		return nil, err
	}
	if res == nil {
		return &ApproveResult{Approved: false}, nil
	}
	return &ApproveResult{Approved: true, Tx: txResultInfo(res)}, nil
}

// AllowanceParams is the request for token_allowance. Owner defaults to the
// connected account and Spender to the virtual wallet contract.
type AllowanceParams struct {
	Token   string `json:"token"`
	Owner   string `json:"owner,omitempty"`
	Spender string `json:"spender,omitempty"`
}

// AllowanceResult is the response for token_allowance.
type AllowanceResult struct {
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
	Allowance string `json:"allowance"`
}

func (s *Server) tokenAllowance(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p AllowanceParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	token, err := parseAddress("token", p.Token)
	if err != nil {
		return nil, err
	}
	owner, err := s.accountOr("owner", p.Owner)
	if err != nil {
		return nil, err
	}
	spender := s.web3.Contract()
	if p.Spender != "" {
		if spender, err = parseAddress("spender", p.Spender); err != nil {
			return nil, err
		}
	}

	n, err := s.web3.CheckAllowance(ctx, token, owner, spender)
	if err != nil {
		return nil, err
	}
	return &AllowanceResult{
		Owner:     owner.Hex(),
		Spender:   spender.Hex(),
		Allowance: amountString(n),
	}, nil
}

// ========================================
// Unit handlers
// ========================================

// UnitsParams is the request for units_format and units_parse.
type UnitsParams struct {
	Amount   string `json:"amount,omitempty"`
	Value    string `json:"value,omitempty"`
	Decimals *uint8 `json:"decimals"`
}

// UnitsResult is the response for units_format and units_parse.
type UnitsResult struct {
	Amount   string `json:"amount"`
	Value    string `json:"value"`
	Decimals uint8  `json:"decimals"`
}

func parseUnitsParams(params json.RawMessage) (*UnitsParams, error) {
	var p UnitsParams
	if err := parseParams(params, &p); err != nil {
		return nil, err
	}
	if p.Decimals == nil {
		return nil, invalidParams("decimals is required")
	}
	return &p, nil
}

func (s *Server) unitsFormat(ctx context.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseUnitsParams(params)
	if err != nil {
		return nil, err
	}
	amount, ok := new(big.Int).SetString(p.Amount, 10)
	if !ok {
		return nil, invalidParams("amount must be a base-10 integer")
	}
	return &UnitsResult{
		Amount:   amount.String(),
		Value:    helpers.FormatUnits(amount, *p.Decimals),
		Decimals: *p.Decimals,
	}, nil
}

func (s *Server) unitsParse(ctx context.Context, params json.RawMessage) (interface{}, error) {
	p, err := parseUnitsParams(params)
	if err != nil {
		return nil, err
	}
	amount, err := helpers.ParseUnits(p.Value, *p.Decimals)
	if err != nil {
		return nil, err
	}
	return &UnitsResult{
		Amount:   amount.String(),
		Value:    helpers.FormatUnits(amount, *p.Decimals),
		Decimals: *p.Decimals,
	}, nil
}
