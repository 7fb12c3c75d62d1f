package valuation

import (
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"ilInsurance/internal/fixedpoint"
	"ilInsurance/internal/model"
)

// Valuation is the full set of position metrics derived from one snapshot.
type Valuation struct {
	Share        uint256.Int
	CurrentValue uint256.Int
	HoldingValue uint256.Int
	IL           uint256.Int
	// Saturated is set when any intermediate step hit the 256-bit ceiling.
	Saturated bool
}

// Valuator derives share, current value, holding value and IL from snapshots.
// It holds no state besides its logger and is safe for concurrent use.
type Valuator struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Valuator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Valuator{logger: logger}
}

// ComputeShare returns lpAmount / totalSupply as a scaled fraction, 0 for an empty pool.
func (v *Valuator) ComputeShare(position model.Position, pool model.Pool) *uint256.Int {
	return v.calc().share(position, pool)
}

// ComputeCurrentValue returns the USD value the position would realize if withdrawn now.
func (v *Valuator) ComputeCurrentValue(position model.Position, pool model.Pool, prices model.Prices) *uint256.Int {
	c := v.calc()
	return c.currentValue(c.share(position, pool), pool, prices)
}

// ComputeHoldingValue values the originally deposited amounts at current prices.
func (v *Valuator) ComputeHoldingValue(position model.Position, prices model.Prices) *uint256.Int {
	return v.calc().holdingValue(position, prices)
}

// ComputeIL returns the fractional shortfall of current value against holding value.
// Gains clamp to zero, as does a zero holding value.
func (v *Valuator) ComputeIL(position model.Position, pool model.Pool, prices model.Prices) *uint256.Int {
	c := v.calc()
	holding := c.holdingValue(position, prices)
	if holding.IsZero() {
		return new(uint256.Int)
	}
	current := c.currentValue(c.share(position, pool), pool, prices)
	return c.il(current, holding)
}

// Evaluate computes every metric once against a single snapshot.
func (v *Valuator) Evaluate(snapshot model.Snapshot) Valuation {
	c := v.calc()
	share := c.share(snapshot.Position, snapshot.Pool)
	current := c.currentValue(share, snapshot.Pool, snapshot.Prices)
	holding := c.holdingValue(snapshot.Position, snapshot.Prices)

	out := Valuation{
		Share:        *share,
		CurrentValue: *current,
		HoldingValue: *holding,
	}
	if !holding.IsZero() {
		out.IL = *c.il(current, holding)
	}
	out.Saturated = c.saturated
	if c.saturated {
		v.logger.Error("valuation saturated", zap.Uint64("snapshot_version", snapshot.Version))
	}
	return out
}

func (v *Valuator) calc() *calc {
	return &calc{logger: v.logger}
}

// calc tracks saturation across the steps of a single computation.
type calc struct {
	logger    *zap.Logger
	saturated bool
}

func (c *calc) mulDiv(op string, a, b, denom *uint256.Int) *uint256.Int {
	z, saturated := fixedpoint.MulDivOverflow(a, b, denom)
	if saturated {
		c.saturated = true
		c.logger.Error("scaled mul-div saturated",
			zap.String("op", op),
			zap.String("a", fixedpoint.RawString(a)),
			zap.String("b", fixedpoint.RawString(b)),
			zap.String("denom", fixedpoint.RawString(denom)),
		)
	}
	return z
}

func (c *calc) add(op string, a, b *uint256.Int) *uint256.Int {
	z, saturated := fixedpoint.AddOverflow(a, b)
	if saturated {
		c.saturated = true
		c.logger.Error("scaled add saturated",
			zap.String("op", op),
			zap.String("a", fixedpoint.RawString(a)),
			zap.String("b", fixedpoint.RawString(b)),
		)
	}
	return z
}

func (c *calc) share(position model.Position, pool model.Pool) *uint256.Int {
	return c.mulDiv("share", &position.LPAmount, fixedpoint.Scale(), &pool.TotalSupply)
}

func (c *calc) currentValue(share *uint256.Int, pool model.Pool, prices model.Prices) *uint256.Int {
	amountA := c.mulDiv("current_amount_a", &pool.ReserveA, share, fixedpoint.Scale())
	amountB := c.mulDiv("current_amount_b", &pool.ReserveB, share, fixedpoint.Scale())
	valueA := c.mulDiv("current_value_a", amountA, &prices.PriceA, fixedpoint.Scale())
	valueB := c.mulDiv("current_value_b", amountB, &prices.PriceB, fixedpoint.Scale())
	return c.add("current_value", valueA, valueB)
}

func (c *calc) holdingValue(position model.Position, prices model.Prices) *uint256.Int {
	valueA := c.mulDiv("holding_value_a", &position.OriginalA, &prices.PriceA, fixedpoint.Scale())
	valueB := c.mulDiv("holding_value_b", &position.OriginalB, &prices.PriceB, fixedpoint.Scale())
	return c.add("holding_value", valueA, valueB)
}

func (c *calc) il(current, holding *uint256.Int) *uint256.Int {
	if holding.IsZero() || !current.Lt(holding) {
		return new(uint256.Int)
	}
	shortfall := new(uint256.Int).Sub(holding, current)
	return c.mulDiv("il", shortfall, fixedpoint.Scale(), holding)
}
