package main

import (
	"github.com/spf13/cobra"
)

func newClaimsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claims",
		Short: "List recorded claims",
		RunE:  runClaims,
	}
	addCommonFlags(cmd)
	cmd.Flags().Int("limit", 50, "most recent claims to show")
	return cmd
}

func runClaims(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	limit, _ := cmd.Flags().GetInt("limit")

	ctx, stop := signalContext()
	defer stop()

	e, err := openEnv(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer e.close()

	claims, err := e.claims.ListClaims(ctx, limit)
	if err != nil {
		return err
	}
	return renderClaims(cmd.OutOrStdout(), cfg.Format, claims)
}
