package amm

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"ilInsurance/internal/fixedpoint"
)

// NormalizeAmount rescales a raw token amount with the given decimals to the
// 18-decimal fixed point. Extra precision beyond 18 decimals is floored.
func NormalizeAmount(raw *big.Int, decimals uint8) (*uint256.Int, error) {
	if raw == nil {
		return new(uint256.Int), nil
	}
	if raw.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %s", raw.String())
	}

	v := new(big.Int).Set(raw)
	switch {
	case decimals < fixedpoint.Decimals:
		v.Mul(v, pow10(fixedpoint.Decimals-uint(decimals)))
	case decimals > fixedpoint.Decimals:
		v.Quo(v, pow10(uint(decimals)-fixedpoint.Decimals))
	}

	out, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("amount %s with %d decimals overflows 256 bits", raw.String(), decimals)
	}
	return out, nil
}

func pow10(n uint) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
