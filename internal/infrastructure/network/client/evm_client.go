package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"pnl_checker/internal/app/port"
	"pnl_checker/internal/domain/entity"
)

// EVMClient implements the port.BlockchainClient interface on top of the go-ethereum RPC client.
type EVMClient struct {
	rpcClient      *rpc.Client
	chain          entity.ChainConfig
	decimals       DecimalsResolver
	rpcCallTimeout time.Duration
	loggerDebug    func(msg string, args ...any)
}

// NewEVMClient creates a new EVM client for the given chain. Dialing an HTTP endpoint does not
// touch the network; an unreachable endpoint surfaces as per-call failures.
func NewEVMClient(
	chain entity.ChainConfig,
	httpClient *http.Client,
	rpcCallTimeout time.Duration,
	decimals DecimalsResolver,
	loggerDebug func(msg string, args ...any),
) (port.BlockchainClient, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if decimals == nil {
		decimals = defaultDecimals
	}

	c, err := rpc.DialOptions(context.Background(), chain.RPCURL, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", chain.RPCURL, err)
	}
	return &EVMClient{
		rpcClient:      c,
		chain:          chain,
		decimals:       decimals,
		rpcCallTimeout: rpcCallTimeout,
		loggerDebug:    loggerDebug,
	}, nil
}

// BalanceOf implements port.BlockchainClient.
func (c *EVMClient) BalanceOf(ctx context.Context, tokenAddress string, walletAddress string) (entity.QueryResult, bool) {
	params, err := balanceOfParams(tokenAddress, walletAddress)
	if err != nil {
		c.debug("Skipping pair with malformed wallet address", "wallet", walletAddress, "error", err)
		return noValue(c.chain.Name)
	}

	callCtx, cancel := withCallTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	started := time.Now()
	var raw jsonRaw
	err = c.rpcClient.CallContext(callCtx, &raw, ethCallMethod, params...)
	observeDuration(c.chain.Name, started)
	if err != nil {
		c.debug("eth_call failed", "token", tokenAddress, "wallet", walletAddress, "error", err)
		return noValue(c.chain.Name)
	}

	hexResult, ok := resultString(raw)
	if !ok {
		c.debug("eth_call returned a non-string result", "token", tokenAddress, "wallet", walletAddress, "result", string(raw))
		return noValue(c.chain.Name)
	}
	return decodeResult(c.chain.Name, hexResult, c.decimals(tokenAddress)), true
}

// Chain returns the chain configuration for this client.
func (c *EVMClient) Chain() entity.ChainConfig {
	return c.chain
}

// Close releases the underlying RPC client.
func (c *EVMClient) Close() {
	c.rpcClient.Close()
}

func (c *EVMClient) debug(msg string, args ...any) {
	if c.loggerDebug != nil {
		c.loggerDebug(msg, append([]any{"chain", c.chain.Name}, args...)...)
	}
}
