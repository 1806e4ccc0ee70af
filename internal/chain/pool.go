package chain

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Umiiii/CCTP-Analytics/internal/registry"
)

// RPC is the destination-chain surface used by the scanner and resolver.
// *Client implements it; tests substitute fakes.
type RPC interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockTimestamp(ctx context.Context, number uint64) (int64, error)
	FilterLogs(ctx context.Context, fromBlock, toBlock uint64, topics [][]common.Hash) ([]types.Log, error)
}

// DialFunc opens an RPC connection to an endpoint.
type DialFunc func(ctx context.Context, rpcURL string) (RPC, error)

// Pool caches one RPC client per destination domain, dialing lazily on
// first use. Safe for concurrent use.
type Pool struct {
	dial DialFunc

	mu      sync.Mutex
	clients map[uint32]RPC
}

// NewPool builds a pool. A nil dial function uses the real client.
func NewPool(dial DialFunc) *Pool {
	if dial == nil {
		dial = func(ctx context.Context, rpcURL string) (RPC, error) {
			return NewClient(ctx, rpcURL)
		}
	}
	return &Pool{
		dial:    dial,
		clients: make(map[uint32]RPC),
	}
}

// Get returns the client for a chain, dialing its endpoint if needed.
func (p *Pool) Get(ctx context.Context, cfg registry.ChainConfig) (RPC, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[cfg.ChainID]; ok {
		return client, nil
	}

	client, err := p.dial(ctx, cfg.RPCEndpoint)
	if err != nil {
		return nil, fmt.Errorf("dial chain %d: %w", cfg.ChainID, err)
	}
	p.clients[cfg.ChainID] = client
	return client, nil
}

// Close closes every cached client that supports closing.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, client := range p.clients {
		if closer, ok := client.(interface{ Close() }); ok {
			closer.Close()
		}
		delete(p.clients, id)
	}
}
