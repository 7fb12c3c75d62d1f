package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"ilInsurance/internal/insurance"
	"ilInsurance/internal/model"
	"ilInsurance/internal/policy"
)

var demoOwner = common.HexToAddress("0x00000000000000000000000000000000000000A1")

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the ETH/USDC demo scenario in memory",
		RunE:  runDemo,
	}
	cmd.Flags().String("format", "table", "output format (table, json)")
	cmd.Flags().String("log-level", "warn", "log level (debug, info, warn, error)")
	return cmd
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	c := insurance.New(insurance.Options{Logger: logger})
	if err := c.Initialize(demoOwner, insurance.DemoPolicy); err != nil {
		return err
	}
	if err := c.SetupDemo(demoOwner); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := renderQuote(out, cfg.Format, quoteFor(c, policy.NewEngine(logger))); err != nil {
		return err
	}
	rec, err := c.Claim(context.Background(), demoOwner)
	if err != nil {
		return err
	}
	if cfg.Format != "json" {
		fmt.Fprintln(out)
	}
	return renderClaims(out, cfg.Format, []model.ClaimRecord{rec})
}
