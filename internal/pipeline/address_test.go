package pipeline

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Umiiii/CCTP-Analytics/internal/model"
)

// The conversion is a lossy reinterpretation of the observed key layout:
// the destination address sits right-aligned in the 32-byte field and the
// twelve high-order bytes are dropped. Validated against a known pair.
func TestRecipientToAddressKnownPair(t *testing.T) {
	raw, err := hex.DecodeString("000000000000000000000000bcb13e595cfe2c06024d4157e9d290bcbb6cf739")
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	var recipient model.Recipient
	copy(recipient[:], raw)

	got := RecipientToAddress(recipient)
	want := common.HexToAddress("0xbcb13e595cfe2c06024d4157e9d290bcbb6cf739")
	if got != want {
		t.Fatalf("address mismatch: %s != %s", got.Hex(), want.Hex())
	}
}

func TestRecipientToAddressDropsHighBytes(t *testing.T) {
	var recipient model.Recipient
	for i := range recipient {
		recipient[i] = byte(i)
	}

	got := RecipientToAddress(recipient)
	if got != common.BytesToAddress(recipient[12:]) {
		t.Fatalf("expected low-order 20 bytes, got %s", got.Hex())
	}
}
