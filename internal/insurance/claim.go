package insurance

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ilInsurance/internal/fixedpoint"
	"ilInsurance/internal/model"
)

// Claim prices the insured position for caller. Claims with a payout are
// forwarded to the sink; a zero payout is returned but not recorded.
func (c *Contract) Claim(ctx context.Context, caller common.Address) (model.ClaimRecord, error) {
	if !c.IsInitialized() {
		return model.ClaimRecord{}, ErrNotInitialized
	}

	snapshot := c.Snapshot()
	q := c.engine.Quote(snapshot)

	rec := model.ClaimRecord{
		ID:              uuid.NewString(),
		Claimant:        caller.Hex(),
		SnapshotVersion: snapshot.Version,
		ILFraction:      fixedpoint.RawString(&q.IL),
		CurrentValueUSD: fixedpoint.RawString(&q.CurrentValue),
		HoldingValueUSD: fixedpoint.RawString(&q.HoldingValue),
		PayoutUSD:       fixedpoint.RawString(&q.Payout),
		CreatedAt:       c.now().UTC().Format(time.RFC3339),
	}

	if q.Payout.IsZero() || c.sink == nil {
		c.logger.Info("claim evaluated",
			zap.String("claim_id", rec.ID),
			zap.String("claimant", rec.Claimant),
			zap.String("il_pct", fixedpoint.FormatPercent(&q.IL, 2)),
			zap.String("payout_usd", fixedpoint.Format(&q.Payout, 6)),
		)
		return rec, nil
	}

	if err := c.sink.PutClaims(ctx, []model.ClaimRecord{rec}); err != nil {
		return model.ClaimRecord{}, fmt.Errorf("record claim: %w", err)
	}
	c.logger.Info("claim recorded",
		zap.String("claim_id", rec.ID),
		zap.String("claimant", rec.Claimant),
		zap.Uint64("snapshot_version", rec.SnapshotVersion),
		zap.String("payout_usd", fixedpoint.Format(&q.Payout, 6)),
	)
	return rec, nil
}
