package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Umiiii/CCTP-Analytics/internal/model"
	"github.com/Umiiii/CCTP-Analytics/internal/scan"
)

// Feed yields burn events one at a time. The second return value reports
// whether an event was produced; false means the feed is exhausted.
type Feed interface {
	Next(ctx context.Context) (model.BurnEvent, bool, error)
}

// Sink consumes correlation records.
type Sink interface {
	Put(record model.CorrelationRecord) error
}

// Runner drains a burn-event feed through the pipeline, one event at a
// time with a fixed pace between items. Per-event failures are logged and
// the loop continues; only feed, sink, or context failures stop it.
type Runner struct {
	pipeline *Pipeline
	feed     Feed
	sink     Sink
	pacer    scan.Pacer
	logger   *zap.Logger
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(pipeline *Pipeline, feed Feed, sink Sink, pacer scan.Pacer, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		pipeline: pipeline,
		feed:     feed,
		sink:     sink,
		pacer:    pacer,
		logger:   logger,
	}
}

// Run processes the feed until it is exhausted or the context ends.
func (r *Runner) Run(ctx context.Context) error {
	first := true
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !first && r.pacer != nil {
			if err := r.pacer.Pause(ctx); err != nil {
				return err
			}
		}
		first = false

		event, ok, err := r.feed.Next(ctx)
		if err != nil {
			return fmt.Errorf("read burn event: %w", err)
		}
		if !ok {
			return nil
		}

		record, outcome, err := r.pipeline.Correlate(ctx, event)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			r.logger.Error("correlation failed",
				zap.String("source_tx_id", event.SourceTxID),
				zap.Error(err),
			)
			continue
		}

		switch outcome {
		case OutcomeCorrelated, OutcomeUnsettled:
			r.logger.Info("correlation",
				zap.String("outcome", outcome.String()),
				zap.String("source_tx_id", record.SourceTxID),
				zap.String("destination_chain", record.DestinationChain),
				zap.String("destination_tx_hash", record.DestinationTxHash),
				zap.Int64("latency_seconds", record.LatencySeconds),
				zap.String("amount", record.Amount.String()),
				zap.String("destination_fee", record.DestinationFee.String()),
			)
			if r.sink != nil {
				if err := r.sink.Put(record); err != nil {
					return fmt.Errorf("store record: %w", err)
				}
			}
		case OutcomeSkipped:
			r.logger.Debug("burn event skipped",
				zap.String("source_tx_id", event.SourceTxID),
				zap.Uint32("domain", event.DestinationDomain),
			)
		case OutcomeSuppressed:
			// Already logged with the offending hashes by the pipeline.
		}
	}
}
