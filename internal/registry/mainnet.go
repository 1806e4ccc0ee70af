package registry

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Mainnet destination domains. Domain numbering follows the upstream
// protocol and is intentionally non-contiguous.
const (
	DomainEthereum  uint32 = 0
	DomainAvalanche uint32 = 1
	DomainOPMainnet uint32 = 2
	DomainArbitrum  uint32 = 3
	DomainBase      uint32 = 6
	DomainPolygon   uint32 = 7
)

// Mainnet returns the registry of the six production destination chains.
// Alchemy-backed endpoints require the caller's API key; the returned
// configs carry fully resolved URLs.
func Mainnet(alchemyAPIKey string) (*Registry, error) {
	alchemy := func(subdomain string) string {
		return fmt.Sprintf("https://%s.g.alchemy.com/v2/%s", subdomain, alchemyAPIKey)
	}

	return New([]ChainConfig{
		{
			ChainID:              DomainEthereum,
			ContractAddress:      common.HexToAddress("0x0a992d191deec32afe36203ad87d7d289a738f81"),
			RPCEndpoint:          alchemy("eth-mainnet"),
			DisplayName:          "Ethereum",
			BlockIntervalSeconds: 12,
		},
		{
			ChainID:              DomainAvalanche,
			ContractAddress:      common.HexToAddress("0x8186359af5f57fbb40c6b14a588d2a59c0c29880"),
			RPCEndpoint:          "https://api.avax.network/ext/bc/C/rpc",
			DisplayName:          "Avalanche",
			BlockIntervalSeconds: 2,
		},
		{
			ChainID:              DomainOPMainnet,
			ContractAddress:      common.HexToAddress("0x4d41f22c5a0e5c74090899e5a8fb597a8842b3e8"),
			RPCEndpoint:          alchemy("opt-mainnet"),
			DisplayName:          "OP Mainnet",
			BlockIntervalSeconds: 2,
		},
		{
			ChainID:              DomainArbitrum,
			ContractAddress:      common.HexToAddress("0xC30362313FBBA5cf9163F0bb16a0e01f01A896ca"),
			RPCEndpoint:          alchemy("arb-mainnet"),
			DisplayName:          "Arbitrum",
			BlockIntervalSeconds: 0.25,
		},
		{
			ChainID:              DomainBase,
			ContractAddress:      common.HexToAddress("0xAD09780d193884d503182aD4588450C416D6F9D4"),
			RPCEndpoint:          alchemy("base-mainnet"),
			DisplayName:          "Base",
			BlockIntervalSeconds: 2,
		},
		{
			ChainID:              DomainPolygon,
			ContractAddress:      common.HexToAddress("0xF3be9355363857F3e001be68856A2f96b4C39Ba9"),
			RPCEndpoint:          alchemy("polygon-mainnet"),
			DisplayName:          "Polygon",
			BlockIntervalSeconds: 2,
		},
	})
}
