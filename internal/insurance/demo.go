package insurance

import (
	"ilInsurance/internal/fixedpoint"
	"ilInsurance/internal/model"
)

// DemoPolicy is the 10% threshold / 20% cap / 80% payout policy used with the demo state.
var DemoPolicy = model.PolicyBps{ThresholdBps: 1000, CapBps: 2000, PayoutRatioBps: 8000}

// DemoState returns the ETH/USDC demo pool, position and prices.
func DemoState() (model.Pool, model.Position, model.Prices) {
	pool := model.Pool{
		ReserveA:    *fixedpoint.FromUnits(500),
		ReserveB:    *fixedpoint.FromUnits(1_000_000),
		TotalSupply: *fixedpoint.FromUnits(1_000_000),
	}
	position := model.Position{
		LPAmount:  *fixedpoint.FromUnits(1000),
		OriginalA: *fixedpoint.FromUnits(1),
		OriginalB: *fixedpoint.FromUnits(2000),
	}
	prices := model.Prices{
		PriceA: *fixedpoint.FromUnits(2000),
		PriceB: *fixedpoint.FromUnits(1),
	}
	return pool, position, prices
}
