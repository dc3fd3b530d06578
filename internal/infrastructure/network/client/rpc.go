package client

import (
	"context"
	stdjson "encoding/json"
	"time"

	jsoniter "github.com/json-iterator/go"

	"pnl_checker/internal/domain/entity"
	"pnl_checker/internal/infrastructure/network/codec"
	"pnl_checker/internal/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonRaw holds an undecoded JSON value. Both go-ethereum and jsoniter honour it.
type jsonRaw = stdjson.RawMessage

const (
	ethCallMethod = "eth_call"
	blockTag      = "latest"
)

// DecimalsResolver returns the decimals used to scale the raw balance of a token.
type DecimalsResolver func(tokenAddress string) uint8

func defaultDecimals(string) uint8 { return entity.DefaultTokenDecimals }

// callObject is the transaction object of an eth_call.
type callObject struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

// rpcRequest is a JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// rpcResponse keeps result raw so that a non-string result can be told apart from a string one.
type rpcResponse struct {
	Result jsonRaw   `json:"result"`
	Error  *rpcError `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func balanceOfParams(tokenAddress, walletAddress string) ([]any, error) {
	data, err := codec.EncodeBalanceCallHex(walletAddress)
	if err != nil {
		return nil, err
	}
	return []any{callObject{To: tokenAddress, Data: data}, blockTag}, nil
}

// resultString extracts a JSON string result. Absent, null and non-string results yield false.
func resultString(raw []byte) (string, bool) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// decodeResult turns the hex result into a QueryResult and records the call outcome.
func decodeResult(chain, hexResult string, decimals uint8) entity.QueryResult {
	raw, qty, ok := codec.Decode(hexResult, decimals)
	if ok {
		metrics.RPCCalls.WithLabelValues(chain, metrics.OutcomeOK).Inc()
	} else {
		metrics.RPCCalls.WithLabelValues(chain, metrics.OutcomeUndecodable).Inc()
	}
	return entity.QueryResult{Raw: raw, Quantity: qty, Decoded: ok}
}

func noValue(chain string) (entity.QueryResult, bool) {
	metrics.RPCCalls.WithLabelValues(chain, metrics.OutcomeNoValue).Inc()
	return entity.QueryResult{}, false
}

func observeDuration(chain string, started time.Time) {
	metrics.RPCDuration.WithLabelValues(chain).Observe(time.Since(started).Seconds())
}

// withCallTimeout bounds ctx by timeout when it is positive.
func withCallTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}
