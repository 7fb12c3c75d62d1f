package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ilinsure",
		Short:        "Impermanent-loss insurance engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	root.AddCommand(
		newInitCmd(),
		newUpdateCmd(),
		newQuoteCmd(),
		newClaimCmd(),
		newClaimsCmd(),
		newDemoCmd(),
		newSyncCmd(),
	)
	return root
}

// addCommonFlags registers the storage and output flags every command shares.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("state-file", "./data/contract.json", "contract state file (ignored when pg-dsn is set)")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN for contract state and claims")
	cmd.Flags().String("state-name", "default", "contract name in Postgres")
	cmd.Flags().String("claims-out", "./data/claims.jsonl", "claims JSONL path (ignored when pg-dsn is set)")
	cmd.Flags().String("format", "table", "output format (table, json)")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
