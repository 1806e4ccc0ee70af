package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	AlchemyAPIKey           string
	In                      string
	Out                     string
	WindowWidth             uint64
	MaxWindowRetries        int
	ScanPause               time.Duration
	ItemDelay               time.Duration
	RPCTimeout              time.Duration
	RPCAttempts             uint
	RPCRetryDelay           time.Duration
	SuppressNegativeLatency bool
	LogLevel                string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CCTP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// The provider key follows the conventional variable name rather than
	// the CCTP_ prefix.
	if err := v.BindEnv("alchemy-api-key", "ALCHEMY_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	v.SetDefault("out", "./data/correlations.jsonl")
	v.SetDefault("window-width", uint64(0))
	v.SetDefault("max-window-retries", 20)
	v.SetDefault("scan-pause", 500*time.Millisecond)
	v.SetDefault("item-delay", time.Second)
	v.SetDefault("rpc-timeout", 10*time.Second)
	v.SetDefault("rpc-attempts", 3)
	v.SetDefault("rpc-retry-delay", 200*time.Millisecond)
	v.SetDefault("suppress-negative-latency", true)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		AlchemyAPIKey:           v.GetString("alchemy-api-key"),
		In:                      v.GetString("in"),
		Out:                     v.GetString("out"),
		WindowWidth:             v.GetUint64("window-width"),
		MaxWindowRetries:        v.GetInt("max-window-retries"),
		ScanPause:               v.GetDuration("scan-pause"),
		ItemDelay:               v.GetDuration("item-delay"),
		RPCTimeout:              v.GetDuration("rpc-timeout"),
		RPCAttempts:             v.GetUint("rpc-attempts"),
		RPCRetryDelay:           v.GetDuration("rpc-retry-delay"),
		SuppressNegativeLatency: v.GetBool("suppress-negative-latency"),
		LogLevel:                v.GetString("log-level"),
	}

	return cfg, nil
}
