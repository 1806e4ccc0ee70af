package pipeline

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Umiiii/CCTP-Analytics/internal/model"
)

// RecipientToAddress reinterprets the 32-byte source-chain mint recipient as
// a 20-byte destination address by taking its low-order bytes. The message
// layout right-aligns the destination address in the field, so this is a
// lossy numeric reinterpretation, not a key derivation: the twelve
// high-order bytes are discarded.
func RecipientToAddress(recipient model.Recipient) common.Address {
	return common.BytesToAddress(recipient[:])
}
