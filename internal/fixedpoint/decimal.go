package fixedpoint

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("amount is negative")
	ErrAmountTooLarge = errors.New("amount exceeds 256 bits")
)

// Parse converts human decimal text ("2000", "0.5") into a scaled value.
// Digits beyond 18 decimal places are truncated.
func Parse(input string) (*uint256.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return new(uint256.Int), nil
	}
	d, err := decimal.NewFromString(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %q", ErrNegativeAmount, input)
	}
	return fromBig(d.Shift(Decimals).BigInt())
}

// ParseRaw converts a base-10 integer string that is already scaled.
func ParseRaw(input string) (*uint256.Int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return new(uint256.Int), nil
	}
	b, ok := new(big.Int).SetString(input, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	if b.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNegativeAmount, input)
	}
	return fromBig(b)
}

// RawString renders a scaled value as its base-10 integer representation.
func RawString(value *uint256.Int) string {
	if value == nil {
		return "0"
	}
	return value.ToBig().String()
}

// Format renders a scaled value as decimal text with the given number of places,
// truncating toward zero.
func Format(value *uint256.Int, places int32) string {
	if value == nil {
		return decimal.Zero.StringFixed(places)
	}
	d := decimal.NewFromBigInt(value.ToBig(), -Decimals)
	return d.Truncate(places).StringFixed(places)
}

// FormatPercent renders a scaled fraction as a percentage, e.g. 0.5 -> "50.00".
func FormatPercent(fraction *uint256.Int, places int32) string {
	if fraction == nil {
		return decimal.Zero.StringFixed(places)
	}
	d := decimal.NewFromBigInt(fraction.ToBig(), -Decimals).Shift(2)
	return d.Truncate(places).StringFixed(places)
}

func fromBig(b *big.Int) (*uint256.Int, error) {
	z, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("%w: %s", ErrAmountTooLarge, b.String())
	}
	return z, nil
}
