package insurance

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"ilInsurance/internal/model"
	"ilInsurance/internal/policy"
	"ilInsurance/internal/storage"
)

var (
	ErrNotInitialized     = errors.New("contract not initialized")
	ErrAlreadyInitialized = errors.New("contract already initialized")
	ErrUnauthorized       = errors.New("caller is not the owner")
)

// state is everything an owner write may replace.
type state struct {
	policyBps model.PolicyBps
	snapshot  model.Snapshot
}

// Options configures a Contract. Every field is optional.
type Options struct {
	Logger *zap.Logger
	// Sink receives claims with a non-zero payout.
	Sink storage.ClaimSink
	Now  func() time.Time
}

// Contract is the stateful insurance surface: one owner, one policy and one
// insured position. Writes are serialized; every computation runs against a
// copied snapshot taken under the read lock.
type Contract struct {
	mu          sync.RWMutex
	initialized bool
	owner       common.Address
	state       state

	engine *policy.Engine
	sink   storage.ClaimSink
	logger *zap.Logger
	now    func() time.Time
}

func New(opts Options) *Contract {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Contract{
		engine: policy.NewEngine(logger),
		sink:   opts.Sink,
		logger: logger,
		now:    now,
	}
}

// Initialize stores the policy and makes caller the owner. It succeeds once.
func (c *Contract) Initialize(caller common.Address, bps model.PolicyBps) error {
	if err := bps.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return ErrAlreadyInitialized
	}
	c.initialized = true
	c.owner = caller
	c.state.policyBps = bps
	c.state.snapshot.Policy = bps.Scaled()
	c.state.snapshot.Version++

	c.logger.Info("contract initialized",
		zap.String("owner", caller.Hex()),
		zap.Uint64("threshold_bps", bps.ThresholdBps),
		zap.Uint64("cap_bps", bps.CapBps),
		zap.Uint64("payout_ratio_bps", bps.PayoutRatioBps),
	)
	return nil
}

// UpdatePolicy replaces the coverage policy.
func (c *Contract) UpdatePolicy(caller common.Address, bps model.PolicyBps) error {
	if err := bps.Validate(); err != nil {
		return err
	}
	return c.onlyOwner(caller, "update_policy", func(next *state) {
		next.policyBps = bps
		next.snapshot.Policy = bps.Scaled()
	})
}

// UpdatePoolState replaces the pool reserves and LP supply.
func (c *Contract) UpdatePoolState(caller common.Address, pool model.Pool) error {
	return c.onlyOwner(caller, "update_pool_state", func(next *state) {
		next.snapshot.Pool = pool
	})
}

// UpdatePrices replaces the injected USD prices.
func (c *Contract) UpdatePrices(caller common.Address, prices model.Prices) error {
	return c.onlyOwner(caller, "update_prices", func(next *state) {
		next.snapshot.Prices = prices
	})
}

// UpdatePosition replaces the insured position.
func (c *Contract) UpdatePosition(caller common.Address, position model.Position) error {
	return c.onlyOwner(caller, "update_position", func(next *state) {
		next.snapshot.Position = position
	})
}

// SetupDemo loads a 500 ETH / 1M USDC pool with a 1000 LP position
// that originally deposited 1 ETH and 2000 USDC, at ETH $2000 and USDC $1.
func (c *Contract) SetupDemo(caller common.Address) error {
	pool, position, prices := DemoState()
	return c.onlyOwner(caller, "setup_demo", func(next *state) {
		next.snapshot.Pool = pool
		next.snapshot.Position = position
		next.snapshot.Prices = prices
	})
}

// onlyOwner applies a write to a copy of the state and commits it only if
// the caller owns the contract and the resulting snapshot is consistent.
func (c *Contract) onlyOwner(caller common.Address, op string, apply func(next *state)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return ErrNotInitialized
	}
	if caller != c.owner {
		c.logger.Warn("unauthorized write", zap.String("op", op), zap.String("caller", caller.Hex()))
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	next := c.state
	apply(&next)
	if err := next.snapshot.CheckConsistency(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	next.snapshot.Version++
	c.state = next

	c.logger.Info("state updated", zap.String("op", op), zap.Uint64("version", next.snapshot.Version))
	return nil
}
