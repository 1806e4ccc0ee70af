package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Umiiii/CCTP-Analytics/internal/chain"
	"github.com/Umiiii/CCTP-Analytics/internal/config"
	"github.com/Umiiii/CCTP-Analytics/internal/fee"
	"github.com/Umiiii/CCTP-Analytics/internal/pipeline"
	"github.com/Umiiii/CCTP-Analytics/internal/registry"
	"github.com/Umiiii/CCTP-Analytics/internal/report"
	"github.com/Umiiii/CCTP-Analytics/internal/resolve"
	"github.com/Umiiii/CCTP-Analytics/internal/scan"
	"github.com/Umiiii/CCTP-Analytics/internal/source"
)

func main() {
	root := &cobra.Command{
		Use:          "cctp",
		Short:        "CCTP burn/mint correlation analytics",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	correlateCmd := &cobra.Command{
		Use:   "correlate",
		Short: "Correlate decoded burn events with their destination mints",
		RunE:  runCorrelate,
	}
	addSharedFlags(correlateCmd)
	correlateCmd.Flags().String("in", "", "burn events JSONL path")
	correlateCmd.Flags().String("out", "./data/correlations.jsonl", "output records JSONL path")
	correlateCmd.Flags().Duration("item-delay", time.Second, "pause between burn events")
	correlateCmd.Flags().Bool("suppress-negative-latency", true, "withhold records with negative latency")

	root.AddCommand(correlateCmd)

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Find and resolve one destination mint",
		RunE:  runScan,
	}
	addSharedFlags(scanCmd)
	scanCmd.Flags().Uint32("domain", 0, "destination domain identifier")
	scanCmd.Flags().String("recipient", "", "destination recipient address")
	scanCmd.Flags().Uint64("amount", 0, "transfer amount in base units")
	scanCmd.Flags().Int64("origin-timestamp", 0, "burn timestamp (unix seconds)")

	root.AddCommand(scanCmd)

	feeCmd := &cobra.Command{
		Use:   "fee",
		Short: "Fetch the normalized fee of a destination transaction",
		RunE:  runFee,
	}
	addSharedFlags(feeCmd)
	feeCmd.Flags().Uint32("domain", 0, "destination domain identifier")
	feeCmd.Flags().String("tx", "", "destination transaction hash")

	root.AddCommand(feeCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSharedFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("window-width", 0, "log-scan window width in blocks (0 = per-chain default)")
	cmd.Flags().Int("max-window-retries", 20, "backward window shifts before giving up")
	cmd.Flags().Duration("scan-pause", 500*time.Millisecond, "pause between window queries")
	cmd.Flags().Duration("rpc-timeout", 10*time.Second, "per-call RPC timeout")
	cmd.Flags().Uint("rpc-attempts", 3, "attempts per RPC call")
	cmd.Flags().Duration("rpc-retry-delay", 200*time.Millisecond, "initial delay between RPC attempts")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

type deps struct {
	cfg      config.Config
	logger   *zap.Logger
	reg      *registry.Registry
	pool     *chain.Pool
	scanner  *scan.Scanner
	oracle   *fee.Oracle
	resolver *resolve.Resolver
}

func buildDeps(cmd *cobra.Command) (*deps, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	reg, err := registry.Mainnet(cfg.AlchemyAPIKey)
	if err != nil {
		return nil, err
	}

	oracle := fee.NewOracle(reg, fee.Config{
		Timeout:       cfg.RPCTimeout,
		RPCAttempts:   cfg.RPCAttempts,
		RPCRetryDelay: cfg.RPCRetryDelay,
	}, logger)

	scanner := scan.NewScanner(scan.Config{
		WindowWidth:   cfg.WindowWidth,
		MaxRetries:    cfg.MaxWindowRetries,
		RPCAttempts:   cfg.RPCAttempts,
		RPCRetryDelay: cfg.RPCRetryDelay,
	}, scan.FixedPacer{Interval: cfg.ScanPause}, logger)

	resolver := resolve.NewResolver(oracle, resolve.Config{
		RPCAttempts:   cfg.RPCAttempts,
		RPCRetryDelay: cfg.RPCRetryDelay,
	}, logger)

	return &deps{
		cfg:      cfg,
		logger:   logger,
		reg:      reg,
		pool:     chain.NewPool(nil),
		scanner:  scanner,
		oracle:   oracle,
		resolver: resolver,
	}, nil
}

func runCorrelate(cmd *cobra.Command, _ []string) error {
	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer d.logger.Sync()
	defer d.pool.Close()

	if d.cfg.In == "" {
		return fmt.Errorf("input path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feed, err := source.OpenJSONLFeed(d.cfg.In)
	if err != nil {
		return err
	}
	defer feed.Close()

	sink := report.NewJSONLSink(d.cfg.Out)

	pipe := pipeline.New(d.reg, d.pool, d.scanner, d.resolver, pipeline.Config{
		SuppressNegativeLatency: d.cfg.SuppressNegativeLatency,
	}, d.logger)

	runner := pipeline.NewRunner(pipe, feed, sink, scan.FixedPacer{Interval: d.cfg.ItemDelay}, d.logger)

	d.logger.Info("correlate start",
		zap.String("in", d.cfg.In),
		zap.String("out", d.cfg.Out),
		zap.Int("chains", d.reg.Size()),
		zap.Duration("item_delay", d.cfg.ItemDelay),
		zap.Bool("suppress_negative_latency", d.cfg.SuppressNegativeLatency),
	)

	return runner.Run(ctx)
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
