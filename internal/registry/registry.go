package registry

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ChainConfig describes one supported destination chain. Instances are
// immutable after registry construction.
type ChainConfig struct {
	// ChainID is the protocol-level domain identifier, not the chain's own
	// network id. The set is small and non-contiguous.
	ChainID uint32
	// ContractAddress is the token contract that emits the mint transfer.
	ContractAddress common.Address
	// RPCEndpoint is a fully resolved URL, any provider key already applied.
	RPCEndpoint string
	DisplayName string
	// BlockIntervalSeconds is the chain's average block interval, used to
	// estimate how far behind head a mint is likely to sit.
	BlockIntervalSeconds float64
}

// Registry is a read-only lookup table of destination chains keyed by
// domain identifier. Safe for concurrent use.
type Registry struct {
	chains map[uint32]ChainConfig
}

// New builds a registry from the given chain configs. Domain identifiers
// must be unique.
func New(chains []ChainConfig) (*Registry, error) {
	byID := make(map[uint32]ChainConfig, len(chains))
	for _, chain := range chains {
		if _, ok := byID[chain.ChainID]; ok {
			return nil, fmt.Errorf("duplicate chain id %d", chain.ChainID)
		}
		if chain.BlockIntervalSeconds <= 0 {
			return nil, fmt.Errorf("chain %d: block interval must be positive", chain.ChainID)
		}
		byID[chain.ChainID] = chain
	}
	return &Registry{chains: byID}, nil
}

// Lookup returns the config for a domain identifier. The second return
// value reports whether the domain is supported; an unsupported domain is a
// normal outcome, not an error.
func (r *Registry) Lookup(chainID uint32) (ChainConfig, bool) {
	cfg, ok := r.chains[chainID]
	return cfg, ok
}

// IsSupported reports whether the domain identifier is configured.
func (r *Registry) IsSupported(chainID uint32) bool {
	_, ok := r.chains[chainID]
	return ok
}

// DisplayName returns the human-readable chain name, or "" when the domain
// is not configured.
func (r *Registry) DisplayName(chainID uint32) string {
	cfg, ok := r.chains[chainID]
	if !ok {
		return ""
	}
	return cfg.DisplayName
}

// Size returns the number of configured chains.
func (r *Registry) Size() int {
	return len(r.chains)
}
