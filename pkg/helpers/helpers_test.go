package helpers

import (
	"errors"
	"math/big"
	"testing"
)

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad test integer %q", s)
	}
	return v
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals uint8
		want     string
	}{
		{"zero 18", "0", 18, "0"},
		{"zero 6", "0", 6, "0"},
		{"zero 0", "0", 0, "0"},
		{"one ether", "1000000000000000000", 18, "1"},
		{"one wei", "1", 18, "0.000000000000000001"},
		{"one and a half usdc", "1500000", 6, "1.5"},
		{"trailing zeros stripped", "1230000", 6, "1.23"},
		{"no decimals", "12345", 0, "12345"},
		{"fraction only", "500000", 6, "0.5"},
		{"large", "123456789012345678901234567890", 18, "123456789012.34567890123456789"},
		{"negative", "-1500000", 6, "-1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatUnits(mustBig(t, tt.amount), tt.decimals)
			if got != tt.want {
				t.Errorf("FormatUnits(%s, %d) = %q, want %q", tt.amount, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestFormatUnitsNil(t *testing.T) {
	if got := FormatUnits(nil, 18); got != "0" {
		t.Errorf("FormatUnits(nil) = %q, want %q", got, "0")
	}
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		decimals uint8
		want     string
	}{
		{"one and a half usdc", "1.5", 6, "1500000"},
		{"whole ether", "1", 18, "1000000000000000000"},
		{"smallest unit", "0.000000000000000001", 18, "1"},
		{"fraction truncated", "1.2345678", 6, "1234567"},
		{"leading dot", ".5", 6, "500000"},
		{"trailing dot", "2.", 6, "2000000"},
		{"zero", "0", 18, "0"},
		{"zero fraction", "0.000", 6, "0"},
		{"no decimals", "42", 0, "42"},
		{"no decimals fraction dropped", "42.9", 0, "42"},
		{"surrounding space", " 3.25 ", 2, "325"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUnits(tt.input, tt.decimals)
			if err != nil {
				t.Fatalf("ParseUnits(%q) error: %v", tt.input, err)
			}
			if got.Cmp(mustBig(t, tt.want)) != 0 {
				t.Errorf("ParseUnits(%q, %d) = %s, want %s", tt.input, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestParseUnitsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrEmptyAmount},
		{"blank", "   ", ErrEmptyAmount},
		{"dot only", ".", ErrInvalidAmount},
		{"two dots", "1.2.3", ErrInvalidAmount},
		{"letters", "1a", ErrInvalidAmount},
		{"negative", "-1", ErrInvalidAmount},
		{"plus sign", "+1", ErrInvalidAmount},
		{"exponent", "1e18", ErrInvalidAmount},
		{"comma", "1,5", ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUnits(tt.input, 6)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseUnits(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	amounts := []string{
		"0", "1", "9", "10", "999999", "1000000", "1500000",
		"1000000000000000000", "123456789012345678901234567890",
	}

	for d := uint8(0); d <= 18; d++ {
		for _, a := range amounts {
			want := mustBig(t, a)
			got, err := ParseUnits(FormatUnits(want, d), d)
			if err != nil {
				t.Fatalf("round trip %s at %d decimals: %v", a, d, err)
			}
			if got.Cmp(want) != 0 {
				t.Errorf("round trip %s at %d decimals = %s", a, d, got)
			}
		}
	}
}

func TestApplySlippage(t *testing.T) {
	tests := []struct {
		name   string
		amount *big.Int
		bps    uint64
		want   int64
	}{
		{"ten bps", big.NewInt(1000000), 10, 999000},
		{"zero bps", big.NewInt(1000000), 0, 1000000},
		{"rounds down", big.NewInt(999), 10, 998},
		{"full", big.NewInt(1000), BasisPoints, 0},
		{"nil", nil, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplySlippage(tt.amount, tt.bps)
			if got.Int64() != tt.want {
				t.Errorf("ApplySlippage = %s, want %d", got, tt.want)
			}
		})
	}
}

func TestShortAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0x797ADa8Bca5B5Da273C0bbD677EBaC447884B23D", "0x797A...B23D"},
		{"0x1234", "0x1234"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ShortAddress(tt.in); got != tt.want {
			t.Errorf("ShortAddress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHexConversions(t *testing.T) {
	if got := Uint64ToHex(10); got != "0xa" {
		t.Errorf("Uint64ToHex(10) = %q, want 0xa", got)
	}
	if got := Uint64ToHex(8453); got != "0x2105" {
		t.Errorf("Uint64ToHex(8453) = %q, want 0x2105", got)
	}
	if got := HexToUint64("0x89"); got != 137 {
		t.Errorf("HexToUint64(0x89) = %d, want 137", got)
	}
	if got := HexToUint64("zz"); got != 0 {
		t.Errorf("HexToUint64(zz) = %d, want 0", got)
	}
	if got := BigIntToHex(big.NewInt(255)); got != "0xff" {
		t.Errorf("BigIntToHex(255) = %q, want 0xff", got)
	}
	if got := HexToBigInt("0xff"); got.Int64() != 255 {
		t.Errorf("HexToBigInt(0xff) = %s, want 255", got)
	}
}
