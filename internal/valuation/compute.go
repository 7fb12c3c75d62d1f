package valuation

import (
	"github.com/holiman/uint256"

	"ilInsurance/internal/model"
)

var defaultValuator = New(nil)

// ComputeShare is Valuator.ComputeShare without anomaly logging.
func ComputeShare(position model.Position, pool model.Pool) *uint256.Int {
	return defaultValuator.ComputeShare(position, pool)
}

// ComputeCurrentValue is Valuator.ComputeCurrentValue without anomaly logging.
func ComputeCurrentValue(position model.Position, pool model.Pool, prices model.Prices) *uint256.Int {
	return defaultValuator.ComputeCurrentValue(position, pool, prices)
}

// ComputeHoldingValue is Valuator.ComputeHoldingValue without anomaly logging.
func ComputeHoldingValue(position model.Position, prices model.Prices) *uint256.Int {
	return defaultValuator.ComputeHoldingValue(position, prices)
}

// ComputeIL is Valuator.ComputeIL without anomaly logging.
func ComputeIL(position model.Position, pool model.Pool, prices model.Prices) *uint256.Int {
	return defaultValuator.ComputeIL(position, pool, prices)
}

// Evaluate is Valuator.Evaluate without anomaly logging.
func Evaluate(snapshot model.Snapshot) Valuation {
	return defaultValuator.Evaluate(snapshot)
}
