// Package helpers provides common utility functions used across the codebase.
package helpers

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// BasisPoints is the denominator for slippage and fee percentages.
const BasisPoints = 10000

var (
	// ErrEmptyAmount is returned when parsing an empty amount string.
	ErrEmptyAmount = errors.New("empty amount string")
	// ErrInvalidAmount is returned when an amount string is not a non-negative decimal.
	ErrInvalidAmount = errors.New("invalid amount")
)

// pow10 returns 10^decimals.
func pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// FormatUnits formats an amount in base units as a human decimal string.
// Trailing fractional zeros are stripped and the dot is omitted when nothing
// remains, so FormatUnits(1500000, 6) returns "1.5" and FormatUnits(10^18, 18)
// returns "1". A nil amount formats as "0".
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}

	neg := amount.Sign() < 0
	abs := new(big.Int).Abs(amount)

	whole, frac := new(big.Int).QuoRem(abs, pow10(decimals), new(big.Int))

	sign := ""
	if neg {
		sign = "-"
	}

	if frac.Sign() == 0 {
		return sign + whole.String()
	}

	fracStr := strings.TrimRight(fmt.Sprintf("%0*d", int(decimals), frac), "0")
	return fmt.Sprintf("%s%s.%s", sign, whole.String(), fracStr)
}

// ParseUnits parses a human decimal string into base units.
// A fractional part longer than decimals is truncated, not rounded, so
// ParseUnits("1.2345678", 6) returns 1234567.
func ParseUnits(s string, decimals uint8) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyAmount
	}

	wholeStr, fracStr, hasDot := strings.Cut(s, ".")
	if hasDot && strings.Contains(fracStr, ".") {
		return nil, fmt.Errorf("%w: multiple decimal points in %q", ErrInvalidAmount, s)
	}
	if wholeStr == "" && fracStr == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	for _, c := range wholeStr + fracStr {
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("%w: invalid character in amount: %c", ErrInvalidAmount, c)
		}
	}

	// Pad or truncate fractional part
	if len(fracStr) > int(decimals) {
		fracStr = fracStr[:decimals]
	}
	fracStr += strings.Repeat("0", int(decimals)-len(fracStr))

	combined := strings.TrimLeft(wholeStr+fracStr, "0")
	if combined == "" {
		return new(big.Int), nil
	}

	amount, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return amount, nil
}

// ApplySlippage returns amount reduced by bps basis points, rounded down.
// ApplySlippage(1000000, 10) returns 999000.
func ApplySlippage(amount *big.Int, bps uint64) *big.Int {
	if amount == nil || amount.Sign() <= 0 {
		return new(big.Int)
	}
	if bps >= BasisPoints {
		return new(big.Int)
	}
	out := new(big.Int).Mul(amount, new(big.Int).SetUint64(BasisPoints-bps))
	return out.Quo(out, big.NewInt(BasisPoints))
}
