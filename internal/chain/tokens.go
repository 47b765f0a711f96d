package chain

import "sort"

// Token symbols known to the registry.
const (
	USDq = "USDq"
	YLP  = "YLP"
	YLD  = "YL$"
	USDC = "USDC"
)

// Token contains information about an ERC-20 token on a specific chain.
type Token struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
	Address  string `json:"address"`
	ChainID  ID     `json:"chainId"`
}

// tokenRegistry maps chainID -> symbol -> Token
var tokenRegistry = make(map[ID]map[string]Token)

func init() {
	// ==========================================================================
	// USDq - protocol stable token
	// ==========================================================================
	registerToken(Token{Symbol: USDq, Name: "USDq", Decimals: 6, ChainID: Optimism,
		Address: "0x4b2842f382bfc19f409b1874c0480db3b36199b3"})
	registerToken(Token{Symbol: USDq, Name: "USDq", Decimals: 6, ChainID: Base,
		Address: "0xbaf56ca7996e8398300d47f055f363882126f369"})

	// ==========================================================================
	// YLP - yield liquidity token
	// ==========================================================================
	registerToken(Token{Symbol: YLP, Name: "YLP Token", Decimals: 18, ChainID: Base,
		Address: "0xa2f42a3db5ff5d8ff45baff00dea8b67c36c6d1c"})
	registerToken(Token{Symbol: YLP, Name: "YLP Token", Decimals: 18, ChainID: Polygon,
		Address: "0x7332b6e5b80c9dd0cd165132434ffabdbd950612"})
	registerToken(Token{Symbol: YLP, Name: "YLP Token", Decimals: 18, ChainID: Optimism,
		Address: "0x25789bbc835a77bc4afa862f638f09b8b8fae201"})

	// ==========================================================================
	// YL$ - yield dollar
	// ==========================================================================
	registerToken(Token{Symbol: YLD, Name: "Yield Dollar Token", Decimals: 18, ChainID: Polygon,
		Address: "0x80df049656a6efa89327bbc2d159aa393c30e037"})
	registerToken(Token{Symbol: YLD, Name: "Yield Dollar Token", Decimals: 18, ChainID: Optimism,
		Address: "0xc618101ad5f3a5d924219f225148f8ac1ad74dba"})

	// ==========================================================================
	// USDC - stablecoin accepted by depositToETH / depositToUSDC
	// ==========================================================================
	registerToken(Token{Symbol: USDC, Name: "USD Coin", Decimals: 6, ChainID: Ethereum,
		Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"})
	registerToken(Token{Symbol: USDC, Name: "USD Coin", Decimals: 6, ChainID: Optimism,
		Address: "0x7F5c764cBc14f9669B88837ca1490cCa17c31607"})
	registerToken(Token{Symbol: USDC, Name: "USD Coin", Decimals: 6, ChainID: Base,
		Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"})
	registerToken(Token{Symbol: USDC, Name: "USD Coin", Decimals: 6, ChainID: Polygon,
		Address: "0x2791Bca1f2de4661ED88A30C99a7a9449Aa84174"})
}

func registerToken(token Token) {
	if tokenRegistry[token.ChainID] == nil {
		tokenRegistry[token.ChainID] = make(map[string]Token)
	}
	tokenRegistry[token.ChainID][token.Symbol] = token
}

// GetToken returns token info for a symbol on a specific chain.
func GetToken(id ID, symbol string) (Token, bool) {
	token, ok := tokenRegistry[id][symbol]
	return token, ok
}

// TokenAddress returns the contract address of symbol on chain id.
// A token that is not deployed there is reported with ok == false, never an error.
func TokenAddress(symbol string, id ID) (string, bool) {
	token, ok := GetToken(id, symbol)
	if !ok {
		return "", false
	}
	return token.Address, true
}

// Tokens returns the tokens deployed on chain id, sorted by symbol.
// Unknown chains yield an empty list.
func Tokens(id ID) []Token {
	tokens := tokenRegistry[id]
	result := make([]Token, 0, len(tokens))
	for _, token := range tokens {
		result = append(result, token)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Symbol < result[j].Symbol })
	return result
}

// StablecoinAddress returns the USDC address on chain id.
func StablecoinAddress(id ID) (string, bool) {
	return TokenAddress(USDC, id)
}
