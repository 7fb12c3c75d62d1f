package insurance

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"ilInsurance/internal/model"
	"ilInsurance/internal/policy"
)

// IsInitialized reports whether Initialize has succeeded.
func (c *Contract) IsInitialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// Owner is the address that initialized the contract.
func (c *Contract) Owner() common.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.owner
}

// Policy returns the policy in basis points as configured.
func (c *Contract) Policy() model.PolicyBps {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.policyBps
}

// PoolState returns the current reserves and LP supply.
func (c *Contract) PoolState() model.Pool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.snapshot.Pool
}

// Prices returns the injected USD prices.
func (c *Contract) Prices() model.Prices {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.snapshot.Prices
}

// Position returns the insured position.
func (c *Contract) Position() model.Position {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.snapshot.Position
}

// Snapshot returns a copy of the current inputs.
func (c *Contract) Snapshot() model.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.snapshot
}

// PolicySnapshot returns the snapshot together with the basis-point policy it
// was scaled from, both read under one lock.
func (c *Contract) PolicySnapshot() (model.Snapshot, model.PolicyBps) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.snapshot, c.state.policyBps
}

// Quote values the position and prices its claim against one snapshot.
func (c *Contract) Quote() policy.Quote {
	return c.engine.Quote(c.Snapshot())
}

// UserShare is the position's fraction of the pool, scaled.
func (c *Contract) UserShare() *uint256.Int {
	q := c.Quote()
	return &q.Share
}

// LPValue is the USD value of the position if withdrawn now.
func (c *Contract) LPValue() *uint256.Int {
	q := c.Quote()
	return &q.CurrentValue
}

// HoldingValue is the USD value of the original deposit at current prices.
func (c *Contract) HoldingValue() *uint256.Int {
	q := c.Quote()
	return &q.HoldingValue
}

// IL is the scaled impermanent-loss fraction.
func (c *Contract) IL() *uint256.Int {
	q := c.Quote()
	return &q.IL
}

// Payout is what a claim would pay right now, in scaled USD.
func (c *Contract) Payout() *uint256.Int {
	q := c.Quote()
	return &q.Payout
}
