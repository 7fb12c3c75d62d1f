package fixedpoint

import (
	"github.com/holiman/uint256"
)

// Decimals is the number of implied decimal digits carried by every scaled value.
const Decimals = 18

// BpsDenominator is 100% expressed in basis points.
const BpsDenominator = 10_000

var (
	scale   = uint256.NewInt(1_000_000_000_000_000_000)
	bpsUnit = uint256.NewInt(1_000_000_000_000_000_000 / BpsDenominator)
	maxWord = new(uint256.Int).SetAllOne()
)

// Scale returns a fresh copy of SCALE (10^18), the scaled representation of 1.0.
func Scale() *uint256.Int {
	return new(uint256.Int).Set(scale)
}

// Max returns the saturation ceiling for scaled values.
func Max() *uint256.Int {
	return new(uint256.Int).Set(maxWord)
}

// MulDivOverflow computes floor(a*b/denom) with a 512-bit intermediate product.
// A zero denominator yields zero. When the quotient does not fit in 256 bits the
// result saturates to Max and the second return value is true.
func MulDivOverflow(a, b, denom *uint256.Int) (*uint256.Int, bool) {
	if denom.IsZero() {
		return new(uint256.Int), false
	}
	z, overflow := new(uint256.Int).MulDivOverflow(a, b, denom)
	if overflow {
		return Max(), true
	}
	return z, false
}

// MulDiv is MulDivOverflow without the saturation flag.
func MulDiv(a, b, denom *uint256.Int) *uint256.Int {
	z, _ := MulDivOverflow(a, b, denom)
	return z
}

// AddOverflow returns a+b, saturating to Max on overflow.
func AddOverflow(a, b *uint256.Int) (*uint256.Int, bool) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return Max(), true
	}
	return z, false
}

// FromBps converts basis points into a scaled fraction: bps * (SCALE / 10000).
func FromBps(bps uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(bps), bpsUnit)
}

// ToBps converts a scaled fraction back to whole basis points, rounding down.
func ToBps(fraction *uint256.Int) uint64 {
	bps := new(uint256.Int).Div(fraction, bpsUnit)
	if !bps.IsUint64() {
		return ^uint64(0)
	}
	return bps.Uint64()
}

// FromUnits scales a whole-unit integer, e.g. FromUnits(2000) is 2000.0.
func FromUnits(units uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(units), scale)
}

// Min returns a copy of the smaller of a and b.
func Min(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return new(uint256.Int).Set(a)
	}
	return new(uint256.Int).Set(b)
}
