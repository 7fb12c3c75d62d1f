package insurance

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"ilInsurance/internal/fixedpoint"
	"ilInsurance/internal/model"
)

// Export returns the contract in its persisted form.
func (c *Contract) Export() model.ContractState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.state.snapshot
	out := model.ContractState{
		Initialized: c.initialized,
		Version:     s.Version,
		Policy:      c.state.policyBps,
		ReserveA:    fixedpoint.RawString(&s.Pool.ReserveA),
		ReserveB:    fixedpoint.RawString(&s.Pool.ReserveB),
		TotalSupply: fixedpoint.RawString(&s.Pool.TotalSupply),
		LPAmount:    fixedpoint.RawString(&s.Position.LPAmount),
		OriginalA:   fixedpoint.RawString(&s.Position.OriginalA),
		OriginalB:   fixedpoint.RawString(&s.Position.OriginalB),
		PriceA:      fixedpoint.RawString(&s.Prices.PriceA),
		PriceB:      fixedpoint.RawString(&s.Prices.PriceB),
	}
	if c.initialized {
		out.Owner = c.owner.Hex()
	}
	return out
}

// Restore replaces the contract with a persisted state. The state is
// validated the same way the individual writes are.
func (c *Contract) Restore(st model.ContractState) error {
	if !st.Initialized {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.initialized = false
		c.owner = common.Address{}
		c.state = state{}
		return nil
	}

	if !common.IsHexAddress(st.Owner) {
		return fmt.Errorf("restore owner: invalid address %q", st.Owner)
	}
	if err := st.Policy.Validate(); err != nil {
		return fmt.Errorf("restore policy: %w", err)
	}

	var snap model.Snapshot
	fields := []struct {
		name string
		raw  string
		dst  *uint256.Int
	}{
		{"reserve_a", st.ReserveA, &snap.Pool.ReserveA},
		{"reserve_b", st.ReserveB, &snap.Pool.ReserveB},
		{"total_supply", st.TotalSupply, &snap.Pool.TotalSupply},
		{"lp_amount", st.LPAmount, &snap.Position.LPAmount},
		{"original_a", st.OriginalA, &snap.Position.OriginalA},
		{"original_b", st.OriginalB, &snap.Position.OriginalB},
		{"price_a", st.PriceA, &snap.Prices.PriceA},
		{"price_b", st.PriceB, &snap.Prices.PriceB},
	}
	for _, f := range fields {
		v, err := fixedpoint.ParseRaw(f.raw)
		if err != nil {
			return fmt.Errorf("restore %s: %w", f.name, err)
		}
		f.dst.Set(v)
	}
	snap.Policy = st.Policy.Scaled()
	snap.Version = st.Version
	if err := snap.CheckConsistency(); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.initialized = true
	c.owner = common.HexToAddress(st.Owner)
	c.state = state{policyBps: st.Policy, snapshot: snap}
	return nil
}
