package model

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Recipient is the raw 32-byte mint recipient field carried by a
// deposit-for-burn message. The destination address is derived from it by
// reinterpretation, not stored here.
type Recipient [32]byte

// MarshalJSON encodes the recipient as 0x-prefixed hex.
func (r Recipient) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + hex.EncodeToString(r[:]))
}

// UnmarshalJSON decodes a 0x-prefixed 32-byte hex string.
func (r *Recipient) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("decode recipient: %w", err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("recipient must be 32 bytes, got %d", len(raw))
	}
	copy(r[:], raw)
	return nil
}

// BurnEvent is one decoded deposit-for-burn message from the source chain.
// It is produced by an external decoder and consumed by the pipeline; the
// pipeline never mutates it.
type BurnEvent struct {
	SourceTxID         string    `json:"source_tx_id"`
	SourceAmount       uint64    `json:"source_amount"`
	DestinationDomain  uint32    `json:"destination_domain"`
	MintRecipient      Recipient `json:"mint_recipient"`
	SourceFeeBaseUnits int64     `json:"source_fee_base_units"`
	SourceTimestamp    int64     `json:"source_timestamp"`
}
