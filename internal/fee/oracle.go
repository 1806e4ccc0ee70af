package fee

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/Umiiii/CCTP-Analytics/internal/registry"
)

// ErrFeeUnavailable marks a fee that could not be retrieved. Callers report
// the correlation without a destination fee rather than aborting it.
var ErrFeeUnavailable = errors.New("fee unavailable")

// tokenDecimals is the smallest-unit scale of the destination chains' native
// token: fees normalize from wei into whole-token units.
const tokenDecimals = 18

// Config holds oracle tunables.
type Config struct {
	Timeout       time.Duration
	RPCAttempts   uint
	RPCRetryDelay time.Duration
}

// DefaultConfig returns the production oracle settings.
func DefaultConfig() Config {
	return Config{
		Timeout:       10 * time.Second,
		RPCAttempts:   3,
		RPCRetryDelay: 200 * time.Millisecond,
	}
}

// Oracle retrieves transaction receipts over raw JSON-RPC and normalizes
// the total fee into whole-token units. The rollup base-layer fee field is
// not part of the typed receipt go-ethereum exposes, so the oracle reads
// the raw response body.
type Oracle struct {
	reg    *registry.Registry
	cfg    Config
	logger *zap.Logger

	mu      sync.Mutex
	clients map[uint32]*resty.Client
}

// NewOracle builds an Oracle over the given registry.
func NewOracle(reg *registry.Registry, cfg Config, logger *zap.Logger) *Oracle {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RPCAttempts == 0 {
		cfg.RPCAttempts = 3
	}
	if cfg.RPCRetryDelay <= 0 {
		cfg.RPCRetryDelay = 200 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Oracle{
		reg:     reg,
		cfg:     cfg,
		logger:  logger,
		clients: make(map[uint32]*resty.Client),
	}
}

// FetchFee returns the normalized total fee of a destination transaction:
// base-layer fee (zero when the chain has none) plus gas used times
// effective gas price, divided by 10^18. The result renders in plain
// decimal digits, never scientific notation.
func (o *Oracle) FetchFee(ctx context.Context, chainID uint32, txID string) (decimal.Decimal, error) {
	cfg, ok := o.reg.Lookup(chainID)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unsupported chain %d", ErrFeeUnavailable, chainID)
	}

	request := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "eth_getTransactionReceipt",
		"params":  []string{txID},
		"id":      1,
	}

	var body []byte
	err := retry.Do(
		func() error {
			resp, err := o.client(cfg).R().
				SetContext(ctx).
				SetBody(request).
				Post("")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("rpc status %s", resp.Status())
			}
			body = resp.Body()
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(o.cfg.RPCAttempts),
		retry.Delay(o.cfg.RPCRetryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		o.logger.Warn("receipt fetch failed", zap.Uint32("chain_id", chainID), zap.String("tx_id", txID), zap.Error(err))
		return decimal.Zero, fmt.Errorf("%w: %s", ErrFeeUnavailable, err)
	}

	total, err := totalFeeWei(body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrFeeUnavailable, err)
	}
	return decimal.NewFromBigInt(total, -tokenDecimals), nil
}

func (o *Oracle) client(cfg registry.ChainConfig) *resty.Client {
	o.mu.Lock()
	defer o.mu.Unlock()

	if client, ok := o.clients[cfg.ChainID]; ok {
		return client
	}
	client := resty.New().
		SetBaseURL(cfg.RPCEndpoint).
		SetTimeout(o.cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	o.clients[cfg.ChainID] = client
	return client
}

// totalFeeWei extracts the fee components from a raw receipt response.
// gasUsed and effectiveGasPrice are required; l1Fee is present only on
// rollup-style chains and reads as zero when absent or non-numeric.
func totalFeeWei(body []byte) (*big.Int, error) {
	result := gjson.GetBytes(body, "result")
	if !result.Exists() || result.Type == gjson.Null {
		return nil, errors.New("receipt missing from response")
	}

	gasUsed, err := hexQuantity(result.Get("gasUsed"))
	if err != nil {
		return nil, fmt.Errorf("gasUsed: %s", err)
	}
	gasPrice, err := hexQuantity(result.Get("effectiveGasPrice"))
	if err != nil {
		return nil, fmt.Errorf("effectiveGasPrice: %s", err)
	}

	total := new(big.Int).Mul(gasUsed, gasPrice)
	if l1Fee, err := hexQuantity(result.Get("l1Fee")); err == nil {
		total.Add(total, l1Fee)
	}
	return total, nil
}

func hexQuantity(value gjson.Result) (*big.Int, error) {
	if !value.Exists() || value.Type != gjson.String {
		return nil, errors.New("not a quantity")
	}
	quantity, ok := new(big.Int).SetString(value.String(), 0)
	if !ok || quantity.Sign() < 0 {
		return nil, fmt.Errorf("malformed quantity %q", value.String())
	}
	return quantity, nil
}
