package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ilInsurance/internal/model"
)

func newClaimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim",
		Short: "File a claim for the insured position",
		RunE:  runClaim,
	}
	addCommonFlags(cmd)
	cmd.Flags().String("caller", "", "claimant address")
	return cmd
}

func runClaim(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	caller, err := parseCaller(cfg.Caller)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	e, err := openEnv(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer e.close()

	rec, err := e.contract.Claim(ctx, caller)
	if err != nil {
		return err
	}
	if rec.PayoutUSD == "0" {
		logger.Info("no payout due", zap.String("claim_id", rec.ID))
	}
	return renderClaims(cmd.OutOrStdout(), cfg.Format, []model.ClaimRecord{rec})
}
