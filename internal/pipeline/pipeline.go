package pipeline

import (
	"context"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Umiiii/CCTP-Analytics/internal/chain"
	"github.com/Umiiii/CCTP-Analytics/internal/model"
	"github.com/Umiiii/CCTP-Analytics/internal/registry"
	"github.com/Umiiii/CCTP-Analytics/internal/resolve"
	"github.com/Umiiii/CCTP-Analytics/internal/scan"
)

const (
	// sourceTokenDecimals scales burn amounts from base units into display
	// units.
	sourceTokenDecimals = 6
	// sourceFeeDecimals scales the source-chain fee from its base units.
	sourceFeeDecimals = 9
)

// Outcome tags the result of one correlation so callers cannot mistake a
// benign miss for a failure.
type Outcome int

const (
	// OutcomeCorrelated means the mint was found and the record is complete.
	OutcomeCorrelated Outcome = iota
	// OutcomeSkipped means the destination domain is not configured; no
	// network call was made.
	OutcomeSkipped
	// OutcomeUnsettled means the search horizon was exhausted; the record
	// carries zeroed destination fields.
	OutcomeUnsettled
	// OutcomeSuppressed means the match had negative latency and the
	// suppression policy withheld it.
	OutcomeSuppressed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrelated:
		return "correlated"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeUnsettled:
		return "unsettled"
	case OutcomeSuppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// ClientPool yields a chain client for a destination chain.
type ClientPool interface {
	Get(ctx context.Context, cfg registry.ChainConfig) (chain.RPC, error)
}

// Config holds pipeline policy knobs.
type Config struct {
	// SuppressNegativeLatency withholds records whose destination timestamp
	// precedes the origin timestamp, which implies a false match or clock
	// skew.
	SuppressNegativeLatency bool
}

// Pipeline correlates one decoded burn event with its destination mint.
type Pipeline struct {
	reg      *registry.Registry
	pool     ClientPool
	scanner  *scan.Scanner
	resolver *resolve.Resolver
	cfg      Config
	logger   *zap.Logger
}

// New builds a Pipeline with its dependencies.
func New(
	reg *registry.Registry,
	pool ClientPool,
	scanner *scan.Scanner,
	resolver *resolve.Resolver,
	cfg Config,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		reg:      reg,
		pool:     pool,
		scanner:  scanner,
		resolver: resolver,
		cfg:      cfg,
		logger:   logger,
	}
}

// Correlate locates the destination mint for a burn event and assembles the
// correlation record. An unsupported domain skips before any network call.
// A non-nil error means a transient failure local to this event; the caller
// decides whether to move on.
func (p *Pipeline) Correlate(ctx context.Context, event model.BurnEvent) (model.CorrelationRecord, Outcome, error) {
	chainCfg, ok := p.reg.Lookup(event.DestinationDomain)
	if !ok {
		p.logger.Debug("destination domain not configured",
			zap.Uint32("domain", event.DestinationDomain),
			zap.String("source_tx_id", event.SourceTxID),
		)
		return model.CorrelationRecord{}, OutcomeSkipped, nil
	}

	recipient := RecipientToAddress(event.MintRecipient)
	record := model.CorrelationRecord{
		SourceTxID:         event.SourceTxID,
		SourceTimestamp:    event.SourceTimestamp,
		Amount:             displayAmount(event.SourceAmount),
		DestinationChain:   chainCfg.DisplayName,
		DestinationAddress: strings.ToLower(recipient.Hex()),
		SourceFee:          decimal.New(event.SourceFeeBaseUnits, -sourceFeeDecimals),
	}

	client, err := p.pool.Get(ctx, chainCfg)
	if err != nil {
		return model.CorrelationRecord{}, OutcomeSkipped, err
	}

	txHash, found, err := p.scanner.FindMintLog(ctx, client, chainCfg, recipient, event.SourceAmount, event.SourceTimestamp)
	if err != nil {
		return model.CorrelationRecord{}, OutcomeSkipped, err
	}
	if !found {
		return record, OutcomeUnsettled, nil
	}

	match, err := p.resolver.Resolve(ctx, client, chainCfg.ChainID, txHash, event.SourceTimestamp)
	if err != nil {
		return model.CorrelationRecord{}, OutcomeSkipped, err
	}

	if match.LatencySeconds < 0 {
		p.logger.Warn("negative latency",
			zap.String("source_tx_id", event.SourceTxID),
			zap.String("destination_tx_hash", match.TxHash),
			zap.Int64("latency_seconds", match.LatencySeconds),
		)
		if p.cfg.SuppressNegativeLatency {
			return model.CorrelationRecord{}, OutcomeSuppressed, nil
		}
	}

	record.DestinationTxHash = match.TxHash
	record.DestinationTimestamp = match.BlockTimestamp
	record.LatencySeconds = match.LatencySeconds
	record.DestinationFee = match.Fee
	record.Settled = true
	return record, OutcomeCorrelated, nil
}

func displayAmount(baseUnits uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(baseUnits), -sourceTokenDecimals)
}
