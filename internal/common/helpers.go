package common

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	TONDecimals = 9 // TON has 9 decimals (nanotons)

	// maxCoinBits is the widest value a VarUInteger 16 coin field can hold (15 bytes)
	maxCoinBits = 120

	// 10^28 TON = 10^37 nanotons > 2^120
	maxIntegerDigits = 28
)

var (
	ErrEmptyAmount    = errors.New("empty amount")
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// NanoToTON converts nanotons to TON string without float precision loss
func NanoToTON(nano *big.Int) string {
	if nano == nil {
		return "0"
	}
	return formatWithDecimals(nano, TONDecimals)
}

// TONToNano converts TON string to nanotons without float precision loss.
// Accepts plain ("1.5") and exponent ("15e-1") notation.
func TONToNano(ton string) (*big.Int, error) {
	return parseWithDecimals(ton, TONDecimals)
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(24981836, 9) = "0.024981836"
func formatWithDecimals(value *big.Int, decimals int32) string {
	return decimal.NewFromBigInt(value, -decimals).StringFixed(decimals)
}

// parseWithDecimals converts decimal string to integer by shifting the decimal point
// Example: parseWithDecimals("0.024981836", 9) = 24981836
func parseWithDecimals(s string, decimals int32) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal format: %w", err)
	}
	if d.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if d.IsZero() {
		return new(big.Int), nil
	}

	// Bound the exponent before Shift: BigInt and IsInteger cost grows with it.
	// d < 10^magnitude and d >= 10^(magnitude-1)
	magnitude := d.NumDigits() + int(d.Exponent())
	if magnitude > maxIntegerDigits {
		return nil, fmt.Errorf("amount exceeds %d-bit coin limit", maxCoinBits)
	}
	if magnitude <= -int(decimals) {
		return nil, fmt.Errorf("amount has more than %d fractional digits", decimals)
	}

	shifted := d.Shift(decimals)
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("amount has more than %d fractional digits", decimals)
	}

	n := shifted.BigInt()
	if n.BitLen() > maxCoinBits {
		return nil, fmt.Errorf("amount exceeds %d-bit coin limit", maxCoinBits)
	}
	return n, nil
}
