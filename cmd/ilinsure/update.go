package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"ilInsurance/internal/fixedpoint"
	"ilInsurance/internal/insurance"
	"ilInsurance/internal/model"
)

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Owner-only writes to policy, pool, prices or position",
	}

	policyCmd := &cobra.Command{
		Use:   "policy",
		Short: "Replace the coverage policy",
		RunE: ownerWrite(func(cmd *cobra.Command, c *insurance.Contract, caller common.Address) error {
			return c.UpdatePolicy(caller, policyFromFlags(cmd))
		}),
	}
	addPolicyFlags(policyCmd)

	poolCmd := &cobra.Command{
		Use:   "pool",
		Short: "Replace pool reserves and LP supply (decimal amounts)",
		RunE: ownerWrite(func(cmd *cobra.Command, c *insurance.Contract, caller common.Address) error {
			vals, err := amountFlags(cmd, "reserve-a", "reserve-b", "total-supply")
			if err != nil {
				return err
			}
			return c.UpdatePoolState(caller, model.Pool{ReserveA: vals[0], ReserveB: vals[1], TotalSupply: vals[2]})
		}),
	}
	poolCmd.Flags().String("reserve-a", "0", "reserve of token A")
	poolCmd.Flags().String("reserve-b", "0", "reserve of token B")
	poolCmd.Flags().String("total-supply", "0", "LP token total supply")

	pricesCmd := &cobra.Command{
		Use:   "prices",
		Short: "Replace USD prices (decimal amounts)",
		RunE: ownerWrite(func(cmd *cobra.Command, c *insurance.Contract, caller common.Address) error {
			vals, err := amountFlags(cmd, "price-a", "price-b")
			if err != nil {
				return err
			}
			return c.UpdatePrices(caller, model.Prices{PriceA: vals[0], PriceB: vals[1]})
		}),
	}
	pricesCmd.Flags().String("price-a", "0", "USD price of token A")
	pricesCmd.Flags().String("price-b", "0", "USD price of token B")

	positionCmd := &cobra.Command{
		Use:   "position",
		Short: "Replace the insured position (decimal amounts)",
		RunE: ownerWrite(func(cmd *cobra.Command, c *insurance.Contract, caller common.Address) error {
			vals, err := amountFlags(cmd, "lp-amount", "original-a", "original-b")
			if err != nil {
				return err
			}
			return c.UpdatePosition(caller, model.Position{LPAmount: vals[0], OriginalA: vals[1], OriginalB: vals[2]})
		}),
	}
	positionCmd.Flags().String("lp-amount", "0", "LP tokens held")
	positionCmd.Flags().String("original-a", "0", "token A deposited at entry")
	positionCmd.Flags().String("original-b", "0", "token B deposited at entry")

	for _, sub := range []*cobra.Command{policyCmd, poolCmd, pricesCmd, positionCmd} {
		addCommonFlags(sub)
		sub.Flags().String("caller", "", "caller address (must be the owner)")
		cmd.AddCommand(sub)
	}
	return cmd
}

// ownerWrite loads the contract, applies one write and persists the result.
func ownerWrite(apply func(cmd *cobra.Command, c *insurance.Contract, caller common.Address) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
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

		if err := apply(cmd, e.contract, caller); err != nil {
			return err
		}
		return e.save(ctx)
	}
}

func amountFlags(cmd *cobra.Command, names ...string) ([]uint256.Int, error) {
	out := make([]uint256.Int, len(names))
	for i, name := range names {
		raw, _ := cmd.Flags().GetString(name)
		v, err := fixedpoint.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
		out[i] = *v
	}
	return out, nil
}
