package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ilInsurance/internal/model"
)

// Store provides Postgres persistence for contract state and claims.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS contract_state (
		name         TEXT PRIMARY KEY,
		initialized  BOOLEAN NOT NULL,
		owner        TEXT NOT NULL,
		version      BIGINT NOT NULL,
		threshold_bps BIGINT NOT NULL,
		cap_bps      BIGINT NOT NULL,
		payout_ratio_bps BIGINT NOT NULL,
		reserve_a    NUMERIC(78,0) NOT NULL,
		reserve_b    NUMERIC(78,0) NOT NULL,
		total_supply NUMERIC(78,0) NOT NULL,
		lp_amount    NUMERIC(78,0) NOT NULL,
		original_a   NUMERIC(78,0) NOT NULL,
		original_b   NUMERIC(78,0) NOT NULL,
		price_a      NUMERIC(78,0) NOT NULL,
		price_b      NUMERIC(78,0) NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS claims (
		id                TEXT PRIMARY KEY,
		claimant          TEXT NOT NULL,
		snapshot_version  BIGINT NOT NULL,
		il_fraction       NUMERIC(78,0) NOT NULL,
		current_value_usd NUMERIC(78,0) NOT NULL,
		holding_value_usd NUMERIC(78,0) NOT NULL,
		payout_usd        NUMERIC(78,0) NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS claims_created_at_idx ON claims (created_at)`,
}

// EnsureSchema creates the tables used by the store if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// LoadContractState returns the persisted contract for a name.
func (s *Store) LoadContractState(ctx context.Context, name string) (model.ContractState, bool, error) {
	if name == "" {
		return model.ContractState{}, false, fmt.Errorf("state name required")
	}
	var st model.ContractState
	row := s.pool.QueryRow(ctx, `
		SELECT initialized, owner, version, threshold_bps, cap_bps, payout_ratio_bps,
			reserve_a::text, reserve_b::text, total_supply::text, lp_amount::text,
			original_a::text, original_b::text, price_a::text, price_b::text,
			to_char(updated_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		FROM contract_state WHERE name=$1
	`, name)
	var version, threshold, capBps, ratio int64
	if err := row.Scan(
		&st.Initialized, &st.Owner, &version, &threshold, &capBps, &ratio,
		&st.ReserveA, &st.ReserveB, &st.TotalSupply, &st.LPAmount,
		&st.OriginalA, &st.OriginalB, &st.PriceA, &st.PriceB,
		&st.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ContractState{}, false, nil
		}
		return model.ContractState{}, false, err
	}
	st.Version = uint64(version)
	st.Policy = model.PolicyBps{
		ThresholdBps:   uint64(threshold),
		CapBps:         uint64(capBps),
		PayoutRatioBps: uint64(ratio),
	}
	return st, true, nil
}

// SaveContractState upserts the contract for a name.
func (s *Store) SaveContractState(ctx context.Context, name string, st model.ContractState) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO contract_state (
			name, initialized, owner, version, threshold_bps, cap_bps, payout_ratio_bps,
			reserve_a, reserve_b, total_supply, lp_amount, original_a, original_b, price_a, price_b, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8::text::numeric, $9::text::numeric, $10::text::numeric, $11::text::numeric,
			$12::text::numeric, $13::text::numeric, $14::text::numeric, $15::text::numeric, now()
		)
		ON CONFLICT (name) DO UPDATE SET
			initialized = EXCLUDED.initialized,
			owner = EXCLUDED.owner,
			version = EXCLUDED.version,
			threshold_bps = EXCLUDED.threshold_bps,
			cap_bps = EXCLUDED.cap_bps,
			payout_ratio_bps = EXCLUDED.payout_ratio_bps,
			reserve_a = EXCLUDED.reserve_a,
			reserve_b = EXCLUDED.reserve_b,
			total_supply = EXCLUDED.total_supply,
			lp_amount = EXCLUDED.lp_amount,
			original_a = EXCLUDED.original_a,
			original_b = EXCLUDED.original_b,
			price_a = EXCLUDED.price_a,
			price_b = EXCLUDED.price_b,
			updated_at = now()
	`,
		name,
		st.Initialized,
		st.Owner,
		int64(st.Version),
		int64(st.Policy.ThresholdBps),
		int64(st.Policy.CapBps),
		int64(st.Policy.PayoutRatioBps),
		numeric(st.ReserveA),
		numeric(st.ReserveB),
		numeric(st.TotalSupply),
		numeric(st.LPAmount),
		numeric(st.OriginalA),
		numeric(st.OriginalB),
		numeric(st.PriceA),
		numeric(st.PriceB),
	)
	return err
}

// PutClaims inserts claim records; an existing id is left untouched.
func (s *Store) PutClaims(ctx context.Context, claims []model.ClaimRecord) error {
	if len(claims) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, c := range claims {
		batch.Queue(`
			INSERT INTO claims (
				id, claimant, snapshot_version, il_fraction, current_value_usd, holding_value_usd, payout_usd, created_at
			) VALUES (
				$1, $2, $3, $4::text::numeric, $5::text::numeric, $6::text::numeric, $7::text::numeric, $8::text::timestamptz
			)
			ON CONFLICT (id) DO NOTHING
		`,
			c.ID,
			c.Claimant,
			int64(c.SnapshotVersion),
			numeric(c.ILFraction),
			numeric(c.CurrentValueUSD),
			numeric(c.HoldingValueUSD),
			numeric(c.PayoutUSD),
			c.CreatedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range claims {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ListClaims returns the most recent claims, newest last.
func (s *Store) ListClaims(ctx context.Context, limit int) ([]model.ClaimRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, claimant, snapshot_version, il_fraction::text, current_value_usd::text,
			holding_value_usd::text, payout_usd::text,
			to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		FROM (
			SELECT * FROM claims ORDER BY created_at DESC LIMIT $1
		) recent
		ORDER BY created_at ASC
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []model.ClaimRecord
	for rows.Next() {
		var c model.ClaimRecord
		var version int64
		if err := rows.Scan(
			&c.ID, &c.Claimant, &version, &c.ILFraction, &c.CurrentValueUSD,
			&c.HoldingValueUSD, &c.PayoutUSD, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		c.SnapshotVersion = uint64(version)
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// numeric maps an empty amount to zero so NOT NULL columns accept it.
func numeric(v string) string {
	if v == "" {
		return "0"
	}
	return v
}
