package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "ILINS"

// Config holds the settings shared by every command.
type Config struct {
	StateFile string
	PGDSN     string
	StateName string
	ClaimsOut string
	Caller    string
	Format    string
	LogLevel  string
}

// SyncConfig adds the chain settings used to read pool state from a pair.
type SyncConfig struct {
	Config
	RPCURL       string
	Pair         string
	TokenA       string
	Block        uint64
	MaxRetries   int
	RetryBackoff time.Duration
}

// Load merges .env, config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return Config{}, err
	}
	return readBase(v), nil
}

// LoadSync is Load plus the chain settings.
func LoadSync(cfgFile string, flags *pflag.FlagSet) (SyncConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return SyncConfig{}, err
	}

	cfg := SyncConfig{
		Config:       readBase(v),
		RPCURL:       v.GetString("rpc"),
		Pair:         strings.TrimSpace(v.GetString("pair")),
		TokenA:       strings.TrimSpace(v.GetString("token-a")),
		Block:        v.GetUint64("block"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
	}
	if cfg.RPCURL == "" {
		return SyncConfig{}, fmt.Errorf("rpc url is required")
	}
	if cfg.Pair == "" {
		return SyncConfig{}, fmt.Errorf("pair address is required")
	}
	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("state-file", "./data/contract.json")
	v.SetDefault("state-name", "default")
	v.SetDefault("claims-out", "./data/claims.jsonl")
	v.SetDefault("format", "table")
	v.SetDefault("log-level", "info")
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func readBase(v *viper.Viper) Config {
	return Config{
		StateFile: v.GetString("state-file"),
		PGDSN:     v.GetString("pg-dsn"),
		StateName: v.GetString("state-name"),
		ClaimsOut: v.GetString("claims-out"),
		Caller:    strings.TrimSpace(v.GetString("caller")),
		Format:    strings.ToLower(strings.TrimSpace(v.GetString("format"))),
		LogLevel:  v.GetString("log-level"),
	}
}
