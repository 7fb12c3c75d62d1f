package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/olekukonko/tablewriter"

	"ilInsurance/internal/fixedpoint"
	"ilInsurance/internal/model"
	"ilInsurance/internal/policy"
)

const reportPlaces = 6

type quoteReport struct {
	Version         uint64          `json:"version"`
	Policy          model.PolicyBps `json:"policy"`
	SharePct        string          `json:"share_pct"`
	CurrentValueUSD string          `json:"current_value_usd"`
	HoldingValueUSD string          `json:"holding_value_usd"`
	ILPct           string          `json:"il_pct"`
	PayoutUSD       string          `json:"payout_usd"`
	MaxPayoutUSD    string          `json:"max_payout_usd"`
	Saturated       bool            `json:"saturated"`
}

func newQuoteReport(version uint64, bps model.PolicyBps, q policy.Quote, maxPayout *uint256.Int) quoteReport {
	return quoteReport{
		Version:         version,
		Policy:          bps,
		SharePct:        fixedpoint.FormatPercent(&q.Share, reportPlaces),
		CurrentValueUSD: fixedpoint.Format(&q.CurrentValue, reportPlaces),
		HoldingValueUSD: fixedpoint.Format(&q.HoldingValue, reportPlaces),
		ILPct:           fixedpoint.FormatPercent(&q.IL, reportPlaces),
		PayoutUSD:       fixedpoint.Format(&q.Payout, reportPlaces),
		MaxPayoutUSD:    fixedpoint.Format(maxPayout, reportPlaces),
		Saturated:       q.Saturated,
	}
}

func renderQuote(w io.Writer, format string, r quoteReport) error {
	if format == "json" {
		return writeJSON(w, r)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Value")
	table.Append("Snapshot version", strconv.FormatUint(r.Version, 10))
	table.Append("Policy", fmt.Sprintf("%d / %d / %d bps", r.Policy.ThresholdBps, r.Policy.CapBps, r.Policy.PayoutRatioBps))
	table.Append("Pool share", r.SharePct+"%")
	table.Append("LP value", "$"+r.CurrentValueUSD)
	table.Append("Holding value", "$"+r.HoldingValueUSD)
	table.Append("Impermanent loss", r.ILPct+"%")
	table.Append("Payout", "$"+r.PayoutUSD)
	table.Append("Max payout", "$"+r.MaxPayoutUSD)
	if r.Saturated {
		table.Append("Warning", "arithmetic saturated")
	}
	return table.Render()
}

func renderClaims(w io.Writer, format string, claims []model.ClaimRecord) error {
	if format == "json" {
		return writeJSON(w, claims)
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Claimant", "Version", "IL %", "Holding $", "Payout $", "Created")
	for _, c := range claims {
		table.Append(
			c.ID,
			c.Claimant,
			strconv.FormatUint(c.SnapshotVersion, 10),
			rawPercent(c.ILFraction),
			rawAmount(c.HoldingValueUSD),
			rawAmount(c.PayoutUSD),
			c.CreatedAt,
		)
	}
	return table.Render()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// rawAmount formats a stored scaled integer, falling back to the raw text.
func rawAmount(raw string) string {
	v, err := fixedpoint.ParseRaw(raw)
	if err != nil {
		return raw
	}
	return fixedpoint.Format(v, reportPlaces)
}

func rawPercent(raw string) string {
	v, err := fixedpoint.ParseRaw(raw)
	if err != nil {
		return raw
	}
	return fixedpoint.FormatPercent(v, 2)
}
