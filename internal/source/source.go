package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/Umiiii/CCTP-Analytics/internal/model"
)

// Decoder turns one raw source-chain transaction into a burn event. The
// second return value reports whether the transaction carried a
// deposit-for-burn message at all; implementations live outside this
// module.
type Decoder interface {
	DecodeBurn(ctx context.Context, signature string) (model.BurnEvent, bool, error)
}

// Lister pages transaction signatures of the source-chain program, newest
// first.
type Lister interface {
	Signatures(ctx context.Context, limit int) ([]string, error)
}

// DecoderFeed composes a Lister and a Decoder into a burn-event feed. One
// page of signatures is fetched up front; decode failures are logged and
// skipped so a single bad transaction cannot stall the batch.
type DecoderFeed struct {
	lister  Lister
	decoder Decoder
	limit   int
	logger  *zap.Logger

	queue   []string
	fetched bool
}

// NewDecoderFeed builds a feed over one page of up to limit signatures.
func NewDecoderFeed(lister Lister, decoder Decoder, limit int, logger *zap.Logger) *DecoderFeed {
	if limit <= 0 {
		limit = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DecoderFeed{
		lister:  lister,
		decoder: decoder,
		limit:   limit,
		logger:  logger,
	}
}

// Next yields the next decoded burn event, skipping transactions that are
// not deposit-for-burn messages or fail to decode.
func (f *DecoderFeed) Next(ctx context.Context) (model.BurnEvent, bool, error) {
	if !f.fetched {
		signatures, err := f.lister.Signatures(ctx, f.limit)
		if err != nil {
			return model.BurnEvent{}, false, err
		}
		f.queue = signatures
		f.fetched = true
	}

	for len(f.queue) > 0 {
		signature := f.queue[0]
		f.queue = f.queue[1:]

		event, ok, err := f.decoder.DecodeBurn(ctx, signature)
		if err != nil {
			if ctx.Err() != nil {
				return model.BurnEvent{}, false, ctx.Err()
			}
			f.logger.Warn("decode failed", zap.String("signature", signature), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		return event, true, nil
	}
	return model.BurnEvent{}, false, nil
}
