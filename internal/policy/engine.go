package policy

import (
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"ilInsurance/internal/fixedpoint"
	"ilInsurance/internal/model"
	"ilInsurance/internal/valuation"
)

// Quote is a valuation plus the payout it earns under the snapshot's policy.
type Quote struct {
	valuation.Valuation
	Payout uint256.Int
}

// Engine turns IL fractions into USD payouts under a banded coverage policy.
// Policy fields are scaled fractions; basis points are converted before reaching here.
type Engine struct {
	logger   *zap.Logger
	valuator *valuation.Valuator
}

func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger:   logger,
		valuator: valuation.New(logger),
	}
}

// ComputePayout pays PayoutRatio of the holding value lost between Threshold and Cap.
// Losses at or below Threshold pay nothing; losses beyond Cap pay as if at Cap.
func (e *Engine) ComputePayout(ilFraction, holdingValue *uint256.Int, p model.Policy) *uint256.Int {
	payout, _ := e.payout(ilFraction, holdingValue, p)
	return payout
}

// payout also reports whether either step saturated.
func (e *Engine) payout(ilFraction, holdingValue *uint256.Int, p model.Policy) (*uint256.Int, bool) {
	ilCapped := fixedpoint.Min(ilFraction, &p.Cap)
	if !ilCapped.Gt(&p.Threshold) {
		return new(uint256.Int), false
	}
	covered := new(uint256.Int).Sub(ilCapped, &p.Threshold)

	loss, lossSaturated := e.mulDiv("loss_amount", holdingValue, covered, fixedpoint.Scale())
	payout, payoutSaturated := e.mulDiv("payout", loss, &p.PayoutRatio, fixedpoint.Scale())
	return payout, lossSaturated || payoutSaturated
}

// MaxPayout is the payout for any IL at or above Cap.
func (e *Engine) MaxPayout(holdingValue *uint256.Int, p model.Policy) *uint256.Int {
	return e.ComputePayout(&p.Cap, holdingValue, p)
}

// Quote values the snapshot's position and prices its claim.
func (e *Engine) Quote(snapshot model.Snapshot) Quote {
	v := e.valuator.Evaluate(snapshot)
	payout, saturated := e.payout(&v.IL, &v.HoldingValue, snapshot.Policy)
	q := Quote{Valuation: v, Payout: *payout}
	q.Saturated = v.Saturated || saturated
	return q
}

func (e *Engine) mulDiv(op string, a, b, denom *uint256.Int) (*uint256.Int, bool) {
	z, saturated := fixedpoint.MulDivOverflow(a, b, denom)
	if saturated {
		e.logger.Error("scaled mul-div saturated",
			zap.String("op", op),
			zap.String("a", fixedpoint.RawString(a)),
			zap.String("b", fixedpoint.RawString(b)),
		)
	}
	return z, saturated
}

var defaultEngine = NewEngine(nil)

// ComputePayout is Engine.ComputePayout without anomaly logging.
func ComputePayout(ilFraction, holdingValue *uint256.Int, p model.Policy) *uint256.Int {
	return defaultEngine.ComputePayout(ilFraction, holdingValue, p)
}
