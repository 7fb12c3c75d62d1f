package main

import (
	"github.com/spf13/cobra"

	"ilInsurance/internal/insurance"
	"ilInsurance/internal/policy"
)

func newQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Value the insured position and price its claim",
		RunE:  runQuote,
	}
	addCommonFlags(cmd)
	return cmd
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signalContext()
	defer stop()

	e, err := openEnv(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer e.close()

	if !e.contract.IsInitialized() {
		return insurance.ErrNotInitialized
	}
	return renderQuote(cmd.OutOrStdout(), cfg.Format, quoteFor(e.contract, policy.NewEngine(logger)))
}

func quoteFor(c *insurance.Contract, engine *policy.Engine) quoteReport {
	snapshot, bps := c.PolicySnapshot()
	q := engine.Quote(snapshot)
	return newQuoteReport(snapshot.Version, bps, q, engine.MaxPayout(&q.HoldingValue, snapshot.Policy))
}
