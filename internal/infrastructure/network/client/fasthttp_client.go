package client

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"pnl_checker/internal/app/port"
	"pnl_checker/internal/domain/entity"
)

const defaultFastHTTPTimeout = 15 * time.Second

// fastHTTPClient talks JSON-RPC to a chain endpoint with fasthttp and jsoniter.
type fastHTTPClient struct {
	client   *fasthttp.Client
	chain    entity.ChainConfig
	timeout  time.Duration
	decimals DecimalsResolver
	logger   *zap.Logger
	nextID   atomic.Int64
}

// NewFastHTTPClient creates a port.BlockchainClient backed by fasthttp.
func NewFastHTTPClient(chain entity.ChainConfig, timeout time.Duration, decimals DecimalsResolver, logger *zap.Logger) port.BlockchainClient {
	if timeout <= 0 {
		timeout = defaultFastHTTPTimeout
	}
	if decimals == nil {
		decimals = defaultDecimals
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fastHTTPClient{
		client:   &fasthttp.Client{},
		chain:    chain,
		timeout:  timeout,
		decimals: decimals,
		logger:   logger.Named("FastHTTPClient").With(zap.String("chain", chain.Name)),
	}
}

// BalanceOf implements port.BlockchainClient.
func (c *fastHTTPClient) BalanceOf(ctx context.Context, tokenAddress string, walletAddress string) (entity.QueryResult, bool) {
	params, err := balanceOfParams(tokenAddress, walletAddress)
	if err != nil {
		c.logger.Debug("Skipping pair with malformed wallet address", zap.String("wallet", walletAddress), zap.Error(err))
		return noValue(c.chain.Name)
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      int(c.nextID.Add(1)),
		Method:  ethCallMethod,
		Params:  params,
	})
	if err != nil {
		c.logger.Debug("Failed to marshal eth_call request", zap.Error(err))
		return noValue(c.chain.Name)
	}

	started := time.Now()
	status, respBody, err := c.post(ctx, body)
	observeDuration(c.chain.Name, started)
	if err != nil {
		c.logger.Debug("eth_call request failed", zap.String("token", tokenAddress), zap.String("wallet", walletAddress), zap.Error(err))
		return noValue(c.chain.Name)
	}

	if status < 200 || status > 299 {
		c.logger.Debug("eth_call returned non-2xx status",
			zap.String("token", tokenAddress),
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", respBody))
		return noValue(c.chain.Name)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		c.logger.Debug("Failed to unmarshal eth_call response", zap.ByteString("responseBody", respBody), zap.Error(err))
		return noValue(c.chain.Name)
	}
	if rpcResp.Error != nil {
		c.logger.Debug("eth_call returned JSON-RPC error",
			zap.String("token", tokenAddress),
			zap.Int("code", rpcResp.Error.Code),
			zap.String("message", rpcResp.Error.Message))
		return noValue(c.chain.Name)
	}

	hexResult, ok := resultString(rpcResp.Result)
	if !ok {
		c.logger.Debug("eth_call returned a non-string result", zap.String("result", strings.TrimSpace(string(rpcResp.Result))))
		return noValue(c.chain.Name)
	}
	return decodeResult(c.chain.Name, hexResult, c.decimals(tokenAddress)), true
}

// post sends body to the chain endpoint. The call is bounded by the earlier of the ctx deadline
// and the client timeout, and returns as soon as ctx is cancelled.
func (c *fastHTTPClient) post(ctx context.Context, body []byte) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	req := fasthttp.AcquireRequest()
	req.SetRequestURI(c.chain.RPCURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(body)
	resp := fasthttp.AcquireResponse()

	done := make(chan error, 1)
	go func() { done <- c.client.DoDeadline(req, resp, deadline) }()

	select {
	case err := <-done:
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)
		if err != nil {
			return 0, nil, err
		}
		return resp.StatusCode(), append([]byte(nil), resp.Body()...), nil
	case <-ctx.Done():
		// req and resp stay owned by the in-flight call until it returns
		go func() {
			<-done
			fasthttp.ReleaseRequest(req)
			fasthttp.ReleaseResponse(resp)
		}()
		return 0, nil, ctx.Err()
	}
}

// Chain implements port.BlockchainClient.
func (c *fastHTTPClient) Chain() entity.ChainConfig {
	return c.chain
}
