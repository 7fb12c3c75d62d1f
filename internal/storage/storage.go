package storage

import (
	"context"

	"ilInsurance/internal/model"
)

// ClaimSink records evaluated claims for settlement.
type ClaimSink interface {
	PutClaims(ctx context.Context, claims []model.ClaimRecord) error
}
