package fixedpoint

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
)

func TestMulDivBasic(t *testing.T) {
	got := MulDiv(uint256.NewInt(100), uint256.NewInt(50), uint256.NewInt(10))
	if got.Uint64() != 500 {
		t.Fatalf("mul div mismatch: %d", got.Uint64())
	}

	pct := new(uint256.Int).Div(FromUnits(15), uint256.NewInt(100))
	got = MulDiv(FromUnits(1000), pct, Scale())
	if !got.Eq(FromUnits(150)) {
		t.Fatalf("15%% of 1000 mismatch: %s", RawString(got))
	}
}

func TestMulDivZeroDenominator(t *testing.T) {
	got, saturated := MulDivOverflow(FromUnits(7), FromUnits(9), new(uint256.Int))
	if !got.IsZero() || saturated {
		t.Fatalf("expected zero without saturation, got %s %v", RawString(got), saturated)
	}
}

func TestMulDivWideIntermediate(t *testing.T) {
	// Product exceeds 256 bits, quotient does not.
	half := new(uint256.Int).Rsh(Max(), 1)
	got, saturated := MulDivOverflow(Max(), uint256.NewInt(2), uint256.NewInt(4))
	if saturated {
		t.Fatalf("unexpected saturation")
	}
	if !got.Eq(half) {
		t.Fatalf("wide mul div mismatch: %s != %s", RawString(got), RawString(half))
	}
}

func TestMulDivSaturates(t *testing.T) {
	got, saturated := MulDivOverflow(Max(), Max(), uint256.NewInt(1))
	if !saturated {
		t.Fatalf("expected saturation")
	}
	if !got.Eq(Max()) {
		t.Fatalf("expected max, got %s", RawString(got))
	}
}

func TestMulDivFloorBounds(t *testing.T) {
	cases := []struct {
		a, b, d *uint256.Int
	}{
		{uint256.NewInt(7), uint256.NewInt(3), uint256.NewInt(2)},
		{FromUnits(1000), Scale(), FromUnits(1_000_000)},
		{FromUnits(2000), Scale(), FromUnits(3)},
		{uint256.NewInt(1), uint256.NewInt(1), FromUnits(1)},
		{FromUnits(1_000_000), FromUnits(2000), uint256.NewInt(7)},
		{new(uint256.Int).Rsh(Max(), 3), uint256.NewInt(5), uint256.NewInt(6)},
	}

	for _, tc := range cases {
		q, saturated := MulDivOverflow(tc.a, tc.b, tc.d)
		if saturated {
			t.Fatalf("unexpected saturation for %s*%s/%s", RawString(tc.a), RawString(tc.b), RawString(tc.d))
		}
		product := new(big.Int).Mul(tc.a.ToBig(), tc.b.ToBig())
		lower := new(big.Int).Mul(q.ToBig(), tc.d.ToBig())
		upper := new(big.Int).Mul(new(big.Int).Add(q.ToBig(), big.NewInt(1)), tc.d.ToBig())
		if lower.Cmp(product) > 0 || product.Cmp(upper) >= 0 {
			t.Fatalf("floor bound violated for %s*%s/%s = %s", RawString(tc.a), RawString(tc.b), RawString(tc.d), RawString(q))
		}
	}
}

func TestAddOverflowSaturates(t *testing.T) {
	got, saturated := AddOverflow(Max(), uint256.NewInt(1))
	if !saturated || !got.Eq(Max()) {
		t.Fatalf("expected saturated max, got %s %v", RawString(got), saturated)
	}
	got, saturated = AddOverflow(FromUnits(1), FromUnits(2))
	if saturated || !got.Eq(FromUnits(3)) {
		t.Fatalf("add mismatch: %s", RawString(got))
	}
}

func TestBpsConversion(t *testing.T) {
	if !FromBps(10_000).Eq(Scale()) {
		t.Fatalf("10000 bps should equal scale")
	}
	tenPct := new(uint256.Int).Div(Scale(), uint256.NewInt(10))
	if !FromBps(1000).Eq(tenPct) {
		t.Fatalf("1000 bps mismatch: %s", RawString(FromBps(1000)))
	}
	if ToBps(FromBps(8000)) != 8000 {
		t.Fatalf("round trip bps mismatch")
	}
	if ToBps(new(uint256.Int).Sub(FromBps(1), uint256.NewInt(1))) != 0 {
		t.Fatalf("ToBps should round down")
	}
}

func TestMin(t *testing.T) {
	a, b := FromUnits(1), FromUnits(2)
	if !Min(a, b).Eq(a) || !Min(b, a).Eq(a) {
		t.Fatalf("min mismatch")
	}
}
