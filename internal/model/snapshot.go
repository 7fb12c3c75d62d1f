package model

import (
	"fmt"

	"ilInsurance/internal/fixedpoint"
)

// Snapshot is one atomically consistent view of every input the engine reads.
// Version increases with each applied write.
type Snapshot struct {
	Version  uint64
	Pool     Pool
	Position Position
	Prices   Prices
	Policy   Policy
}

// CheckConsistency reports a position that claims more LP tokens than the pool
// has issued. A pool with zero supply is treated as not yet synced and accepted.
func (s Snapshot) CheckConsistency() error {
	if s.Pool.TotalSupply.IsZero() {
		return nil
	}
	if s.Position.LPAmount.Gt(&s.Pool.TotalSupply) {
		return fmt.Errorf("%w: lp amount %s exceeds total supply %s",
			ErrInconsistentSnapshot,
			fixedpoint.RawString(&s.Position.LPAmount),
			fixedpoint.RawString(&s.Pool.TotalSupply),
		)
	}
	return nil
}
