package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ilInsurance/internal/config"
	"ilInsurance/internal/model"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the contract with a policy; the caller becomes owner",
		RunE:  runInit,
	}
	addCommonFlags(cmd)
	addPolicyFlags(cmd)
	cmd.Flags().String("caller", "", "caller address")
	return cmd
}

func addPolicyFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("threshold-bps", 1000, "IL threshold below which nothing is paid (bps)")
	cmd.Flags().Uint64("cap-bps", 2000, "IL cap above which coverage stops growing (bps)")
	cmd.Flags().Uint64("ratio-bps", 8000, "share of the covered loss paid out (bps)")
}

func policyFromFlags(cmd *cobra.Command) model.PolicyBps {
	threshold, _ := cmd.Flags().GetUint64("threshold-bps")
	capBps, _ := cmd.Flags().GetUint64("cap-bps")
	ratio, _ := cmd.Flags().GetUint64("ratio-bps")
	return model.PolicyBps{ThresholdBps: threshold, CapBps: capBps, PayoutRatioBps: ratio}
}

// setup loads configuration and builds the logger for a command run.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runInit(cmd *cobra.Command, _ []string) error {
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

	if err := e.contract.Initialize(caller, policyFromFlags(cmd)); err != nil {
		return err
	}
	return e.save(ctx)
}
