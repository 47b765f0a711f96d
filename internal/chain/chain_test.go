package chain

import (
	"errors"
	"testing"
)

func TestAllChainsRegistered(t *testing.T) {
	expected := []ID{Optimism, Base, Polygon, Ethereum}

	got := Supported()
	if len(got) != len(expected) {
		t.Fatalf("Supported() = %v, want %v", got, expected)
	}
	for i, id := range expected {
		if got[i] != id {
			t.Errorf("Supported()[%d] = %d, want %d", i, got[i], id)
		}
		if !IsSupported(id) {
			t.Errorf("expected %d to be registered", id)
		}
	}
}

func TestSupportedReturnsCopy(t *testing.T) {
	ids := Supported()
	ids[0] = 999
	if Supported()[0] != Optimism {
		t.Error("mutating Supported() result changed the registry")
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id           ID
		name         string
		explorer     string
		nativeSymbol string
		hex          string
	}{
		{Ethereum, "Ethereum Mainnet", "https://etherscan.io", "ETH", "0x1"},
		{Optimism, "Optimism Mainnet", "https://optimistic.etherscan.io", "ETH", "0xa"},
		{Polygon, "Polygon Mainnet", "https://polygonscan.com", "MATIC", "0x89"},
		{Base, "Base Mainnet", "https://basescan.org", "ETH", "0x2105"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Get(tt.id)
			if err != nil {
				t.Fatalf("Get(%d) error: %v", tt.id, err)
			}
			if d.Name != tt.name {
				t.Errorf("Name = %s, want %s", d.Name, tt.name)
			}
			if d.ExplorerURL != tt.explorer {
				t.Errorf("ExplorerURL = %s, want %s", d.ExplorerURL, tt.explorer)
			}
			if d.NativeSymbol != tt.nativeSymbol {
				t.Errorf("NativeSymbol = %s, want %s", d.NativeSymbol, tt.nativeSymbol)
			}
			if d.NativeDecimals != 18 {
				t.Errorf("NativeDecimals = %d, want 18", d.NativeDecimals)
			}
			if d.ChainIDHex() != tt.hex {
				t.Errorf("ChainIDHex() = %s, want %s", d.ChainIDHex(), tt.hex)
			}
		})
	}
}

func TestGetUnknown(t *testing.T) {
	for _, id := range []ID{0, 56, 42161, 11155111} {
		d, err := Get(id)
		if !errors.Is(err, ErrUnsupportedChain) {
			t.Errorf("Get(%d) error = %v, want ErrUnsupportedChain", id, err)
		}
		if d != nil {
			t.Errorf("Get(%d) returned descriptor %+v", id, d)
		}
		if IsSupported(id) {
			t.Errorf("IsSupported(%d) = true", id)
		}
	}
}

func TestName(t *testing.T) {
	if got := Name(Base); got != "Base Mainnet" {
		t.Errorf("Name(Base) = %s, want Base Mainnet", got)
	}
	if got := Name(56); got != UnknownChainName {
		t.Errorf("Name(56) = %s, want %s", got, UnknownChainName)
	}
}

func TestRPCURL(t *testing.T) {
	d, _ := Get(Optimism)
	if got := d.RPCURL("KEY"); got != "https://opt-mainnet.g.alchemy.com/v2/KEY" {
		t.Errorf("RPCURL = %s", got)
	}
}

func TestExplorerLinks(t *testing.T) {
	d, _ := Get(Base)
	if got := d.TxURL("0xabc"); got != "https://basescan.org/tx/0xabc" {
		t.Errorf("TxURL = %s", got)
	}
	if got := d.AddressURL("0xdef"); got != "https://basescan.org/address/0xdef" {
		t.Errorf("AddressURL = %s", got)
	}
}

func TestTokenAddress(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		id     ID
		want   string
		ok     bool
	}{
		{"usdq on optimism", USDq, Optimism, "0x4b2842f382bfc19f409b1874c0480db3b36199b3", true},
		{"usdq on base", USDq, Base, "0xbaf56ca7996e8398300d47f055f363882126f369", true},
		{"usdq not on polygon", USDq, Polygon, "", false},
		{"ylp on polygon", YLP, Polygon, "0x7332b6e5b80c9dd0cd165132434ffabdbd950612", true},
		{"yl$ on optimism", YLD, Optimism, "0xc618101ad5f3a5d924219f225148f8ac1ad74dba", true},
		{"yl$ not on base", YLD, Base, "", false},
		{"unknown symbol", "DOGE", Optimism, "", false},
		{"unknown chain", USDC, 56, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TokenAddress(tt.symbol, tt.id)
			if ok != tt.ok {
				t.Errorf("TokenAddress ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("TokenAddress = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	tokens := Tokens(Optimism)
	want := []string{USDC, USDq, YLD, YLP}
	if len(tokens) != len(want) {
		t.Fatalf("Tokens(Optimism) has %d entries, want %d", len(tokens), len(want))
	}
	for i, sym := range want {
		if tokens[i].Symbol != sym {
			t.Errorf("Tokens(Optimism)[%d] = %s, want %s", i, tokens[i].Symbol, sym)
		}
		if tokens[i].ChainID != Optimism {
			t.Errorf("token %s ChainID = %d, want %d", sym, tokens[i].ChainID, Optimism)
		}
	}

	if got := Tokens(56); len(got) != 0 {
		t.Errorf("Tokens(56) = %v, want empty", got)
	}
}

func TestTokenDecimals(t *testing.T) {
	tests := []struct {
		symbol   string
		id       ID
		decimals uint8
	}{
		{USDq, Optimism, 6},
		{YLP, Base, 18},
		{YLD, Polygon, 18},
		{USDC, Ethereum, 6},
	}

	for _, tt := range tests {
		token, ok := GetToken(tt.id, tt.symbol)
		if !ok {
			t.Fatalf("GetToken(%d, %s) not found", tt.id, tt.symbol)
		}
		if token.Decimals != tt.decimals {
			t.Errorf("%s decimals = %d, want %d", tt.symbol, token.Decimals, tt.decimals)
		}
	}
}

func TestStablecoinOnEveryChain(t *testing.T) {
	for _, id := range Supported() {
		if _, ok := StablecoinAddress(id); !ok {
			t.Errorf("no USDC registered on chain %d", id)
		}
	}
}
