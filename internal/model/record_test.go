package model

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCorrelationRecordJSONRoundTrip(t *testing.T) {
	original := CorrelationRecord{
		SourceTxID:           "3Z4rGEUzpcDMaTzvDdkCX54noMmE7G1gDawKY4KU56eLnof2XBufsDJhXRWZsUUxmHpnNtZiRyWER44sT46mNcmu",
		SourceTimestamp:      1727169616,
		Amount:               decimal.RequireFromString("2586.32605"),
		DestinationChain:     "Arbitrum",
		DestinationAddress:   "0xbcb13e595cfe2c06024d4157e9d290bcbb6cf739",
		SourceFee:            decimal.RequireFromString("0.000005"),
		DestinationTxHash:    "0xea2cccc2ed46cdc0d3355a88a133460d1fc5b707f249043c85b86e289d96a06a",
		DestinationTimestamp: 1727169700,
		LatencySeconds:       84,
		DestinationFee:       decimal.RequireFromString("0.000021"),
		Settled:              true,
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded CorrelationRecord
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}

func TestRecipientJSONHex(t *testing.T) {
	var r Recipient
	r[12] = 0xbc
	r[31] = 0x39

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Recipient
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded != r {
		t.Fatalf("round-trip mismatch: %x != %x", decoded, r)
	}

	if err := json.Unmarshal([]byte(`"0xabcd"`), &decoded); err == nil {
		t.Fatalf("expected error for short recipient")
	}
}
