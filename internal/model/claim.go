package model

// ClaimRecord is the outcome of one claim evaluation, handed to the settlement sink.
// Amounts are base-10 strings of 1e18-scaled integers.
type ClaimRecord struct {
	ID              string `json:"id"`
	Claimant        string `json:"claimant"`
	SnapshotVersion uint64 `json:"snapshot_version"`
	ILFraction      string `json:"il_fraction"`
	CurrentValueUSD string `json:"current_value_usd"`
	HoldingValueUSD string `json:"holding_value_usd"`
	PayoutUSD       string `json:"payout_usd"`
	CreatedAt       string `json:"created_at"`
}
