package model

import (
	"fmt"

	"github.com/holiman/uint256"

	"ilInsurance/internal/fixedpoint"
)

// Policy is the banded coverage policy in scaled fractions:
// no payout up to Threshold, coverage of the slice between Threshold and Cap,
// and PayoutRatio of that covered loss actually paid.
type Policy struct {
	Threshold   uint256.Int
	Cap         uint256.Int
	PayoutRatio uint256.Int
}

// PolicyBps is the externally configured policy in basis points (10000 = 100%).
type PolicyBps struct {
	ThresholdBps   uint64 `json:"threshold_bps"`
	CapBps         uint64 `json:"cap_bps"`
	PayoutRatioBps uint64 `json:"payout_ratio_bps"`
}

// Validate enforces threshold < cap <= 10000 and ratio <= 10000.
func (p PolicyBps) Validate() error {
	if p.ThresholdBps >= p.CapBps {
		return fmt.Errorf("%w: threshold %d bps must be below cap %d bps", ErrInvalidPolicy, p.ThresholdBps, p.CapBps)
	}
	if p.CapBps > fixedpoint.BpsDenominator {
		return fmt.Errorf("%w: cap %d bps exceeds %d", ErrInvalidPolicy, p.CapBps, fixedpoint.BpsDenominator)
	}
	if p.PayoutRatioBps > fixedpoint.BpsDenominator {
		return fmt.Errorf("%w: payout ratio %d bps exceeds %d", ErrInvalidPolicy, p.PayoutRatioBps, fixedpoint.BpsDenominator)
	}
	return nil
}

// Scaled converts basis points to the 1e18-scaled fractions the engine consumes.
func (p PolicyBps) Scaled() Policy {
	return Policy{
		Threshold:   *fixedpoint.FromBps(p.ThresholdBps),
		Cap:         *fixedpoint.FromBps(p.CapBps),
		PayoutRatio: *fixedpoint.FromBps(p.PayoutRatioBps),
	}
}
