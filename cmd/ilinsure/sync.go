package main

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ilInsurance/internal/amm"
	"ilInsurance/internal/chain"
	"ilInsurance/internal/config"
	"ilInsurance/internal/fixedpoint"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Read pool reserves and LP supply from a V2 pair and store them",
		RunE:  runSync,
	}
	addCommonFlags(cmd)
	cmd.Flags().String("caller", "", "caller address (must be the owner)")
	cmd.Flags().String("rpc", "", "RPC URL")
	cmd.Flags().String("pair", "", "Uniswap V2 style pair address")
	cmd.Flags().String("token-a", "", "pair token treated as token A (default token0)")
	cmd.Flags().Uint64("block", 0, "block to read at, 0 means latest")
	cmd.Flags().Int("max-retries", 5, "maximum retry attempts per call")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSync(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	caller, err := parseCaller(cfg.Caller)
	if err != nil {
		return err
	}
	if !common.IsHexAddress(cfg.Pair) {
		return fmt.Errorf("invalid pair address %q", cfg.Pair)
	}
	var tokenA common.Address
	if cfg.TokenA != "" {
		if !common.IsHexAddress(cfg.TokenA) {
			return fmt.Errorf("invalid token-a address %q", cfg.TokenA)
		}
		tokenA = common.HexToAddress(cfg.TokenA)
	}

	ctx, stop := signalContext()
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	chainID, err := chainClient.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("chain id: %w", err)
	}

	block := cfg.Block
	if block == 0 {
		if block, err = chainClient.LatestBlockNumber(ctx); err != nil {
			return fmt.Errorf("latest block: %w", err)
		}
	}

	e, err := openEnv(ctx, cfg.Config, logger)
	if err != nil {
		return err
	}
	defer e.close()

	syncer := amm.NewSyncer(chainClient, amm.RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBackoff,
	}, logger)
	pair, err := syncer.Sync(ctx, common.HexToAddress(cfg.Pair), tokenA, block)
	if err != nil {
		return fmt.Errorf("sync pair: %w", err)
	}

	if err := e.contract.UpdatePoolState(caller, pair.Pool); err != nil {
		return err
	}
	if err := e.save(ctx); err != nil {
		return err
	}

	logger.Info("pool state stored",
		zap.String("chain_id", chainID.String()),
		zap.String("pair", pair.Pair.Hex()),
		zap.Uint64("block", pair.Block),
		zap.String("reserve_a", fixedpoint.Format(&pair.Pool.ReserveA, reportPlaces)),
		zap.String("reserve_b", fixedpoint.Format(&pair.Pool.ReserveB, reportPlaces)),
		zap.String("total_supply", fixedpoint.Format(&pair.Pool.TotalSupply, reportPlaces)),
	)
	return nil
}
