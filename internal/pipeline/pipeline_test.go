package pipeline

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"github.com/Umiiii/CCTP-Analytics/internal/chain"
	"github.com/Umiiii/CCTP-Analytics/internal/model"
	"github.com/Umiiii/CCTP-Analytics/internal/registry"
	"github.com/Umiiii/CCTP-Analytics/internal/resolve"
	"github.com/Umiiii/CCTP-Analytics/internal/scan"
)

type fakeRPC struct {
	head         uint64
	logs         []types.Log
	receiptBlock int64
	blockTS      int64

	calls int
}

func (f *fakeRPC) LatestBlockNumber(_ context.Context) (uint64, error) {
	f.calls++
	return f.head, nil
}

func (f *fakeRPC) FilterLogs(_ context.Context, fromBlock, toBlock uint64, _ [][]common.Hash) ([]types.Log, error) {
	f.calls++
	var out []types.Log
	for _, entry := range f.logs {
		if entry.BlockNumber >= fromBlock && entry.BlockNumber <= toBlock {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeRPC) TransactionReceipt(_ context.Context, _ common.Hash) (*types.Receipt, error) {
	f.calls++
	return &types.Receipt{BlockNumber: big.NewInt(f.receiptBlock)}, nil
}

func (f *fakeRPC) BlockTimestamp(_ context.Context, _ uint64) (int64, error) {
	f.calls++
	return f.blockTS, nil
}

type fakePool struct {
	client  chain.RPC
	dialErr error
	dials   int
}

func (p *fakePool) Get(_ context.Context, _ registry.ChainConfig) (chain.RPC, error) {
	p.dials++
	if p.dialErr != nil {
		return nil, p.dialErr
	}
	return p.client, nil
}

type fakeFees struct {
	fee decimal.Decimal
}

func (f *fakeFees) FetchFee(_ context.Context, _ uint32, _ string) (decimal.Decimal, error) {
	return f.fee, nil
}

type nopPacer struct{}

func (nopPacer) Pause(_ context.Context) error { return nil }

func testRecipient(t *testing.T) model.Recipient {
	t.Helper()
	raw, err := hex.DecodeString("000000000000000000000000bcb13e595cfe2c06024d4157e9d290bcbb6cf739")
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	var recipient model.Recipient
	copy(recipient[:], raw)
	return recipient
}

func testPipeline(t *testing.T, pool ClientPool, fee decimal.Decimal, cfg Config) *Pipeline {
	t.Helper()
	reg, err := registry.Mainnet("test-key")
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	scanCfg := scan.DefaultConfig()
	scanCfg.RPCRetryDelay = time.Millisecond
	scanner := scan.NewScanner(scanCfg, nopPacer{}, nil)

	resolver := resolve.NewResolver(&fakeFees{fee: fee}, resolve.Config{RPCAttempts: 1, RPCRetryDelay: time.Millisecond}, nil)

	return New(reg, pool, scanner, resolver, cfg, nil)
}

func burnEvent(t *testing.T, domain uint32) model.BurnEvent {
	t.Helper()
	return model.BurnEvent{
		SourceTxID:         "sig-1",
		SourceAmount:       2_586_326_050,
		DestinationDomain:  domain,
		MintRecipient:      testRecipient(t),
		SourceFeeBaseUnits: 5_000,
		SourceTimestamp:    1_727_169_616,
	}
}

func TestCorrelateEndToEnd(t *testing.T) {
	client := &fakeRPC{
		head: 1_000,
		logs: []types.Log{{
			BlockNumber: 1_000,
			Data:        scan.AmountPayload(2_586_326_050),
			TxHash:      common.Hash{0xaa},
		}},
		receiptBlock: 1_000,
		blockTS:      1_727_169_700,
	}
	pool := &fakePool{client: client}
	p := testPipeline(t, pool, decimal.RequireFromString("0.000021"), Config{})

	record, outcome, err := p.Correlate(context.Background(), burnEvent(t, registry.DomainArbitrum))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeCorrelated {
		t.Fatalf("outcome mismatch: %s", outcome)
	}

	if record.Amount.String() != "2586.32605" {
		t.Fatalf("amount mismatch: %s", record.Amount.String())
	}
	if record.LatencySeconds != 84 {
		t.Fatalf("latency mismatch: %d != 84", record.LatencySeconds)
	}
	if record.DestinationChain != "Arbitrum" {
		t.Fatalf("chain name mismatch: %s", record.DestinationChain)
	}
	if record.DestinationAddress != "0xbcb13e595cfe2c06024d4157e9d290bcbb6cf739" {
		t.Fatalf("address mismatch: %s", record.DestinationAddress)
	}
	if record.DestinationTxHash != (common.Hash{0xaa}).Hex() {
		t.Fatalf("tx hash mismatch: %s", record.DestinationTxHash)
	}
	if record.SourceFee.String() != "0.000005" {
		t.Fatalf("source fee mismatch: %s", record.SourceFee.String())
	}
	if !record.Settled {
		t.Fatalf("record should be settled")
	}
}

func TestCorrelateUnsupportedDomainNoNetworkCalls(t *testing.T) {
	client := &fakeRPC{}
	pool := &fakePool{client: client}
	p := testPipeline(t, pool, decimal.Zero, Config{})

	_, outcome, err := p.Correlate(context.Background(), burnEvent(t, 99))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeSkipped {
		t.Fatalf("outcome mismatch: %s", outcome)
	}
	if pool.dials != 0 {
		t.Fatalf("expected zero dials, got %d", pool.dials)
	}
	if client.calls != 0 {
		t.Fatalf("expected zero RPC calls, got %d", client.calls)
	}
}

func TestCorrelateExhaustedSearch(t *testing.T) {
	client := &fakeRPC{head: 1_000}
	pool := &fakePool{client: client}
	p := testPipeline(t, pool, decimal.Zero, Config{})

	record, outcome, err := p.Correlate(context.Background(), burnEvent(t, registry.DomainArbitrum))
	if err != nil {
		t.Fatalf("exhausted search must not error: %v", err)
	}
	if outcome != OutcomeUnsettled {
		t.Fatalf("outcome mismatch: %s", outcome)
	}

	if record.Settled {
		t.Fatalf("record must not be settled")
	}
	if record.DestinationTxHash != "" || record.DestinationTimestamp != 0 || record.LatencySeconds != 0 {
		t.Fatalf("destination fields must be zeroed: %+v", record)
	}
	// Source-side fields still populate the record.
	if record.SourceTxID != "sig-1" || record.DestinationChain != "Arbitrum" {
		t.Fatalf("source fields missing: %+v", record)
	}
}

func TestCorrelateNegativeLatencySuppressed(t *testing.T) {
	client := &fakeRPC{
		head: 1_000,
		logs: []types.Log{{
			BlockNumber: 1_000,
			Data:        scan.AmountPayload(2_586_326_050),
			TxHash:      common.Hash{0xaa},
		}},
		receiptBlock: 1_000,
		blockTS:      1_727_169_616 - 60, // destination before origin
	}
	pool := &fakePool{client: client}

	p := testPipeline(t, pool, decimal.Zero, Config{SuppressNegativeLatency: true})
	_, outcome, err := p.Correlate(context.Background(), burnEvent(t, registry.DomainArbitrum))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeSuppressed {
		t.Fatalf("outcome mismatch: %s", outcome)
	}

	// With suppression off the record is reported, negative latency intact.
	p = testPipeline(t, pool, decimal.Zero, Config{SuppressNegativeLatency: false})
	record, outcome, err := p.Correlate(context.Background(), burnEvent(t, registry.DomainArbitrum))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeCorrelated {
		t.Fatalf("outcome mismatch: %s", outcome)
	}
	if record.LatencySeconds != -60 {
		t.Fatalf("latency mismatch: %d != -60", record.LatencySeconds)
	}
}

func TestCorrelateDialFailure(t *testing.T) {
	pool := &fakePool{dialErr: errors.New("endpoint down")}
	p := testPipeline(t, pool, decimal.Zero, Config{})

	_, _, err := p.Correlate(context.Background(), burnEvent(t, registry.DomainArbitrum))
	if err == nil {
		t.Fatalf("expected error when dialing fails")
	}
}
