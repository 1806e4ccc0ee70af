package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CorrelationRecord is the reported outcome of one burn/mint correlation.
// Destination fields are zeroed when no settlement was observed within the
// search horizon.
type CorrelationRecord struct {
	SourceTxID           string          `json:"source_tx_id"`
	SourceTimestamp      int64           `json:"source_timestamp"`
	Amount               decimal.Decimal `json:"amount"`
	DestinationChain     string          `json:"destination_chain"`
	DestinationAddress   string          `json:"destination_address"`
	SourceFee            decimal.Decimal `json:"source_fee"`
	DestinationTxHash    string          `json:"destination_tx_hash"`
	DestinationTimestamp int64           `json:"destination_timestamp"`
	LatencySeconds       int64           `json:"latency_seconds"`
	DestinationFee       decimal.Decimal `json:"destination_fee"`
	Settled              bool            `json:"settled"`
}

// MarshalJSON ensures CorrelationRecord is encoded with stable field names.
func (cr CorrelationRecord) MarshalJSON() ([]byte, error) {
	type Alias CorrelationRecord
	return json.Marshal(Alias(cr))
}

// UnmarshalJSON decodes a CorrelationRecord from JSON.
func (cr *CorrelationRecord) UnmarshalJSON(data []byte) error {
	type Alias CorrelationRecord
	var a Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*cr = CorrelationRecord(a)
	return nil
}
