package scan

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/Umiiii/CCTP-Analytics/internal/registry"
)

const (
	// DefaultWindowWidth is the block span of one log query.
	DefaultWindowWidth uint64 = 10_000
	// ShortIntervalWindowWidth replaces DefaultWindowWidth on chains with
	// sub-second blocks, where providers cap log-query ranges.
	ShortIntervalWindowWidth uint64 = 2_000

	shortIntervalCutoff = 1.0
)

// LogReader is the chain surface the scanner queries.
type LogReader interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, fromBlock, toBlock uint64, topics [][]common.Hash) ([]types.Log, error)
}

// Config holds scanner tunables.
type Config struct {
	// WindowWidth overrides the per-chain window width when non-zero.
	WindowWidth uint64
	// MaxRetries is how many times the window shifts backward after the
	// initial query before the search gives up.
	MaxRetries int
	// RPCAttempts bounds retries of an individual failed RPC call.
	RPCAttempts uint
	// RPCRetryDelay is the initial delay between RPC retry attempts.
	RPCRetryDelay time.Duration
}

// DefaultConfig returns the production scanner settings.
func DefaultConfig() Config {
	return Config{
		MaxRetries:    20,
		RPCAttempts:   3,
		RPCRetryDelay: 200 * time.Millisecond,
	}
}

// Scanner performs the backward windowed search for a mint transfer log.
// Destination chains expose no amount- or recipient-indexed lookup, so the
// scanner filters by topics server-side and matches the amount payload
// client-side, exact-equality only.
type Scanner struct {
	cfg    Config
	pacer  Pacer
	logger *zap.Logger
	now    func() time.Time
}

// NewScanner builds a Scanner with its dependencies.
func NewScanner(cfg Config, pacer Pacer, logger *zap.Logger) *Scanner {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 20
	}
	if cfg.RPCAttempts == 0 {
		cfg.RPCAttempts = 3
	}
	if cfg.RPCRetryDelay <= 0 {
		cfg.RPCRetryDelay = 200 * time.Millisecond
	}
	if pacer == nil {
		pacer = FixedPacer{Interval: 500 * time.Millisecond}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		cfg:    cfg,
		pacer:  pacer,
		logger: logger,
		now:    time.Now,
	}
}

// FindMintLog searches backward from an estimated start block for the
// transfer log minting exactly amount base units to recipient. The second
// return value reports whether a match was found; exhausting the search
// horizon is a normal outcome, not an error. A non-nil error means an RPC
// call failed past its retry budget.
func (s *Scanner) FindMintLog(
	ctx context.Context,
	client LogReader,
	chainCfg registry.ChainConfig,
	recipient common.Address,
	amount uint64,
	originTimestamp int64,
) (common.Hash, bool, error) {
	var head uint64
	err := retry.Do(
		func() error {
			var err error
			head, err = client.LatestBlockNumber(ctx)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(s.cfg.RPCAttempts),
		retry.Delay(s.cfg.RPCRetryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return common.Hash{}, false, fmt.Errorf("get head block: %w", err)
	}

	topics := [][]common.Hash{
		{TransferTopic},
		{ZeroAddressTopic},
		{AddressTopic(recipient)},
	}
	payload := AmountPayload(amount)
	width := s.widthFor(chainCfg)
	window := initialWindow(startBlock(head, s.now().Unix(), originTimestamp, chainCfg.BlockIntervalSeconds), width)

	for attempt := 0; ; attempt++ {
		s.logger.Debug("scan window",
			zap.Uint32("chain_id", chainCfg.ChainID),
			zap.Uint64("from", window.From),
			zap.Uint64("to", window.To),
			zap.Int("attempt", attempt),
		)

		logs, err := s.filterWithRetry(ctx, client, window, topics)
		if err != nil {
			return common.Hash{}, false, fmt.Errorf("filter logs [%d, %d]: %w", window.From, window.To, err)
		}

		if match, ok := selectMatch(logs, payload); ok {
			s.logger.Info("mint log found",
				zap.Uint32("chain_id", chainCfg.ChainID),
				zap.String("tx_hash", match.TxHash.Hex()),
				zap.Uint64("block_number", match.BlockNumber),
				zap.Int("attempt", attempt),
			)
			return match.TxHash, true, nil
		}

		if attempt >= s.cfg.MaxRetries || window.From == 0 {
			break
		}
		if err := s.pacer.Pause(ctx); err != nil {
			return common.Hash{}, false, err
		}
		window = window.Prev(width)
	}

	s.logger.Info("search horizon exhausted",
		zap.Uint32("chain_id", chainCfg.ChainID),
		zap.String("recipient", recipient.Hex()),
		zap.Uint64("amount", amount),
	)
	return common.Hash{}, false, nil
}

func (s *Scanner) filterWithRetry(ctx context.Context, client LogReader, window Window, topics [][]common.Hash) ([]types.Log, error) {
	var logs []types.Log
	err := retry.Do(
		func() error {
			var err error
			logs, err = client.FilterLogs(ctx, window.From, window.To, topics)
			if err != nil {
				s.logger.Warn("filter logs failed", zap.Error(err), zap.Uint64("from", window.From), zap.Uint64("to", window.To))
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(s.cfg.RPCAttempts),
		retry.Delay(s.cfg.RPCRetryDelay),
		retry.LastErrorOnly(true),
	)
	return logs, err
}

func (s *Scanner) widthFor(chainCfg registry.ChainConfig) uint64 {
	if s.cfg.WindowWidth > 0 {
		return s.cfg.WindowWidth
	}
	if chainCfg.BlockIntervalSeconds < shortIntervalCutoff {
		return ShortIntervalWindowWidth
	}
	return DefaultWindowWidth
}

// selectMatch picks the log whose data payload equals the amount encoding.
// Ties resolve to the earliest block, then the lowest log index, never
// provider order.
func selectMatch(logs []types.Log, payload []byte) (types.Log, bool) {
	var best types.Log
	found := false
	for _, entry := range logs {
		if entry.Removed || !bytes.Equal(entry.Data, payload) {
			continue
		}
		if !found ||
			entry.BlockNumber < best.BlockNumber ||
			(entry.BlockNumber == best.BlockNumber && entry.Index < best.Index) {
			best = entry
			found = true
		}
	}
	return best, found
}
