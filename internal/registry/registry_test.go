package registry

import "testing"

func TestMainnetRegistry(t *testing.T) {
	reg, err := Mainnet("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reg.Size() != 6 {
		t.Fatalf("expected 6 chains, got %d", reg.Size())
	}

	cases := []struct {
		chainID uint32
		name    string
	}{
		{DomainEthereum, "Ethereum"},
		{DomainAvalanche, "Avalanche"},
		{DomainOPMainnet, "OP Mainnet"},
		{DomainArbitrum, "Arbitrum"},
		{DomainBase, "Base"},
		{DomainPolygon, "Polygon"},
	}
	for _, tc := range cases {
		if !reg.IsSupported(tc.chainID) {
			t.Fatalf("chain %d should be supported", tc.chainID)
		}
		if got := reg.DisplayName(tc.chainID); got != tc.name {
			t.Fatalf("chain %d name mismatch: %q != %q", tc.chainID, got, tc.name)
		}
	}

	cfg, ok := reg.Lookup(DomainEthereum)
	if !ok {
		t.Fatalf("lookup failed for ethereum")
	}
	if cfg.RPCEndpoint != "https://eth-mainnet.g.alchemy.com/v2/test-key" {
		t.Fatalf("api key not applied: %s", cfg.RPCEndpoint)
	}
}

func TestUnsupportedDomain(t *testing.T) {
	reg, err := Mainnet("k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Domains 4 and 5 are intentionally absent from the upstream numbering.
	for _, chainID := range []uint32{4, 5, 99} {
		if reg.IsSupported(chainID) {
			t.Fatalf("chain %d should not be supported", chainID)
		}
		if _, ok := reg.Lookup(chainID); ok {
			t.Fatalf("lookup should miss for chain %d", chainID)
		}
		if name := reg.DisplayName(chainID); name != "" {
			t.Fatalf("expected empty name for chain %d, got %q", chainID, name)
		}
	}
}

func TestDuplicateChainID(t *testing.T) {
	_, err := New([]ChainConfig{
		{ChainID: 1, BlockIntervalSeconds: 2},
		{ChainID: 1, BlockIntervalSeconds: 2},
	})
	if err == nil {
		t.Fatalf("expected error for duplicate chain id")
	}
}

func TestNonPositiveBlockInterval(t *testing.T) {
	_, err := New([]ChainConfig{{ChainID: 1}})
	if err == nil {
		t.Fatalf("expected error for zero block interval")
	}
}
