package resolve

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
)

type fakeReceiptReader struct {
	receipt    *types.Receipt
	receiptErr error
	timestamp  int64
	tsErr      error

	receiptCalls int
}

func (f *fakeReceiptReader) TransactionReceipt(_ context.Context, _ common.Hash) (*types.Receipt, error) {
	f.receiptCalls++
	if f.receiptErr != nil {
		return nil, f.receiptErr
	}
	return f.receipt, nil
}

func (f *fakeReceiptReader) BlockTimestamp(_ context.Context, _ uint64) (int64, error) {
	if f.tsErr != nil {
		return 0, f.tsErr
	}
	return f.timestamp, nil
}

type fakeFees struct {
	fee decimal.Decimal
	err error
}

func (f *fakeFees) FetchFee(_ context.Context, _ uint32, _ string) (decimal.Decimal, error) {
	return f.fee, f.err
}

func testResolverConfig() Config {
	return Config{RPCAttempts: 3, RPCRetryDelay: time.Millisecond}
}

func TestResolve(t *testing.T) {
	client := &fakeReceiptReader{
		receipt:   &types.Receipt{BlockNumber: big.NewInt(1000)},
		timestamp: 1_727_169_700,
	}
	fees := &fakeFees{fee: decimal.RequireFromString("0.000021")}
	resolver := NewResolver(fees, testResolverConfig(), nil)

	match, err := resolver.Resolve(context.Background(), client, 3, common.Hash{0xaa}, 1_727_169_616)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if match.BlockNumber != 1000 {
		t.Fatalf("block number mismatch: %d", match.BlockNumber)
	}
	if match.BlockTimestamp != 1_727_169_700 {
		t.Fatalf("timestamp mismatch: %d", match.BlockTimestamp)
	}
	if match.LatencySeconds != 84 {
		t.Fatalf("latency mismatch: %d != 84", match.LatencySeconds)
	}
	if match.Fee.String() != "0.000021" {
		t.Fatalf("fee mismatch: %s", match.Fee.String())
	}
}

func TestResolveReceiptUnavailable(t *testing.T) {
	client := &fakeReceiptReader{receiptErr: errors.New("not found")}
	resolver := NewResolver(&fakeFees{}, testResolverConfig(), nil)

	_, err := resolver.Resolve(context.Background(), client, 3, common.Hash{0xaa}, 0)
	if !errors.Is(err, ErrReceiptUnavailable) {
		t.Fatalf("expected ErrReceiptUnavailable, got %v", err)
	}
	if client.receiptCalls != 3 {
		t.Fatalf("expected 3 receipt attempts, got %d", client.receiptCalls)
	}
}

func TestResolveFeeFailureDegrades(t *testing.T) {
	client := &fakeReceiptReader{
		receipt:   &types.Receipt{BlockNumber: big.NewInt(42)},
		timestamp: 100,
	}
	fees := &fakeFees{err: errors.New("rpc down")}
	resolver := NewResolver(fees, testResolverConfig(), nil)

	match, err := resolver.Resolve(context.Background(), client, 3, common.Hash{0xaa}, 10)
	if err != nil {
		t.Fatalf("fee failure must not fail resolution: %v", err)
	}
	if !match.Fee.IsZero() {
		t.Fatalf("expected zero fee, got %s", match.Fee)
	}
	if match.LatencySeconds != 90 {
		t.Fatalf("latency mismatch: %d", match.LatencySeconds)
	}
}

func TestResolveTimestampFailureFails(t *testing.T) {
	client := &fakeReceiptReader{
		receipt: &types.Receipt{BlockNumber: big.NewInt(42)},
		tsErr:   errors.New("rpc down"),
	}
	resolver := NewResolver(&fakeFees{}, testResolverConfig(), nil)

	if _, err := resolver.Resolve(context.Background(), client, 3, common.Hash{0xaa}, 0); err == nil {
		t.Fatalf("expected error when block timestamp is unavailable")
	}
}
