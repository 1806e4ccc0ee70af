package resolve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Umiiii/CCTP-Analytics/internal/model"
)

// ErrReceiptUnavailable marks a matched transaction that could not be
// located on its chain, usually a transient RPC condition.
var ErrReceiptUnavailable = errors.New("receipt unavailable")

// ReceiptReader is the chain surface the resolver reads.
type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockTimestamp(ctx context.Context, number uint64) (int64, error)
}

// FeeFetcher returns the normalized fee of a destination transaction.
type FeeFetcher interface {
	FetchFee(ctx context.Context, chainID uint32, txID string) (decimal.Decimal, error)
}

// Config holds resolver tunables.
type Config struct {
	RPCAttempts   uint
	RPCRetryDelay time.Duration
}

// Resolver turns a matched transaction hash into a full MintMatch: block
// number from the receipt, timestamp from the block, fee from the oracle.
type Resolver struct {
	fees   FeeFetcher
	cfg    Config
	logger *zap.Logger
}

// NewResolver builds a Resolver.
func NewResolver(fees FeeFetcher, cfg Config, logger *zap.Logger) *Resolver {
	if cfg.RPCAttempts == 0 {
		cfg.RPCAttempts = 3
	}
	if cfg.RPCRetryDelay <= 0 {
		cfg.RPCRetryDelay = 200 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{fees: fees, cfg: cfg, logger: logger}
}

// Resolve assembles the MintMatch for a destination transaction. The block
// timestamp and the fee are independent once the receipt is known, so they
// are fetched concurrently. A missing fee degrades to zero; a missing
// receipt or timestamp fails the resolution.
func (r *Resolver) Resolve(
	ctx context.Context,
	client ReceiptReader,
	chainID uint32,
	txHash common.Hash,
	originTimestamp int64,
) (model.MintMatch, error) {
	var receipt *types.Receipt
	err := retry.Do(
		func() error {
			var err error
			receipt, err = client.TransactionReceipt(ctx, txHash)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(r.cfg.RPCAttempts),
		retry.Delay(r.cfg.RPCRetryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil || receipt == nil {
		return model.MintMatch{}, fmt.Errorf("%w: tx %s: %v", ErrReceiptUnavailable, txHash.Hex(), err)
	}

	blockNumber := receipt.BlockNumber.Uint64()

	var blockTimestamp int64
	feeAmount := decimal.Zero

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		blockTimestamp, err = client.BlockTimestamp(groupCtx, blockNumber)
		if err != nil {
			return fmt.Errorf("block timestamp %d: %w", blockNumber, err)
		}
		return nil
	})
	group.Go(func() error {
		amount, err := r.fees.FetchFee(groupCtx, chainID, txHash.Hex())
		if err != nil {
			r.logger.Warn("destination fee unavailable",
				zap.Uint32("chain_id", chainID),
				zap.String("tx_hash", txHash.Hex()),
				zap.Error(err),
			)
			return nil
		}
		feeAmount = amount
		return nil
	})
	if err := group.Wait(); err != nil {
		return model.MintMatch{}, err
	}

	return model.MintMatch{
		TxHash:         txHash.Hex(),
		BlockNumber:    blockNumber,
		BlockTimestamp: blockTimestamp,
		LatencySeconds: blockTimestamp - originTimestamp,
		Fee:            feeAmount,
	}, nil
}
