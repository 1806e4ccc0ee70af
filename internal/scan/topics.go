package scan

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TransferTopic is the event signature of the ERC-20 Transfer event,
// keccak256("Transfer(address,address,uint256)").
var TransferTopic = common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")

// ZeroAddressTopic filters on the zero address as the transfer source,
// which marks the transfer as a mint.
var ZeroAddressTopic = common.Hash{}

// AddressTopic encodes an address as an event topic: right-aligned in a
// 32-byte field, zero-padded.
func AddressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

// AmountPayload encodes an amount as the 32-byte big-endian data payload of
// a Transfer event.
func AmountPayload(amount uint64) []byte {
	return common.BigToHash(new(big.Int).SetUint64(amount)).Bytes()
}
