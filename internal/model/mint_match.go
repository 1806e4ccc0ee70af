package model

import "github.com/shopspring/decimal"

// MintMatch describes the destination-chain transaction that settled a burn.
// It is derived per correlation and never persisted.
type MintMatch struct {
	TxHash         string          `json:"tx_hash"`
	BlockNumber    uint64          `json:"block_number"`
	BlockTimestamp int64           `json:"block_timestamp"`
	LatencySeconds int64           `json:"latency_seconds"`
	Fee            decimal.Decimal `json:"fee"`
}
