package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnl_checker/internal/infrastructure/network/codec"
	networkdefinition "pnl_checker/internal/infrastructure/network/definition"
)

const (
	walletA = "0xAAA0000000000000000000000000000000000001"
	tokenB  = "0xBBB0000000000000000000000000000000000002"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_JSONConfig(t *testing.T) {
	path := writeFile(t, "config.json", `{
	"chains": [{"name": "eth", "rpc": "http://localhost:8545", "multicall": "0x5BA1e12693Dc8F9c48aAD8770482f4739bEeD696"}],
	"wallets": ["`+walletA+`"],
	"tokens": ["`+tokenB+`"]
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Chains, 1)
	assert.Equal(t, "eth", cfg.Chains[0].Name)
	assert.Equal(t, "http://localhost:8545", cfg.Chains[0].RPCURL)
	assert.Equal(t, "0x5BA1e12693Dc8F9c48aAD8770482f4739bEeD696", cfg.Chains[0].MulticallAddress)
	assert.Equal(t, []string{walletA}, cfg.Wallets)
	assert.Equal(t, []string{tokenB}, cfg.Tokens)

	assert.Equal(t, TransportGeth, cfg.RPCClient.Transport)
	assert.Equal(t, DecodeFailureZero, cfg.Policy.DecodeFailure)
	assert.Equal(t, "pnl.json", cfg.Report.JSONPath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, uint8(18), cfg.DecimalsFor(tokenB))
}

func TestLoad_YAMLConfig(t *testing.T) {
	path := writeFile(t, "config.yml", `
chains:
  - name: eth
  - name: devnet
    rpc: http://127.0.0.1:8545
wallets:
  - `+walletA+`
tokens:
  - `+tokenB+`
tokenDecimals:
  "`+tokenB+`": 6
performance:
  maxConcurrentChains: 2
  rpcCallTimeoutMillis: 1500
rpcClient:
  transport: FastHTTP
policy:
  decodeFailure: skip
report:
  sortRecords: true
  sqlitePath: pnl.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Chains, 2)
	assert.Equal(t, networkdefinition.Ethereum.RPCURL, cfg.Chains[0].RPCURL)
	assert.Equal(t, networkdefinition.Multicall3Address, cfg.Chains[0].MulticallAddress)
	assert.Equal(t, "", cfg.Chains[1].MulticallAddress)
	assert.Equal(t, uint8(6), cfg.DecimalsFor(tokenB))
	assert.Equal(t, uint8(18), cfg.DecimalsFor(walletA))
	assert.Equal(t, 2, cfg.Performance.MaxConcurrentChains)
	assert.Equal(t, int64(1500), cfg.Performance.RPCCallTimeoutMillis)
	assert.Equal(t, TransportFastHTTP, cfg.RPCClient.Transport)
	assert.Equal(t, DecodeFailureSkip, cfg.Policy.DecodeFailure)
	assert.True(t, cfg.Report.SortRecords)
	assert.Equal(t, "pnl.db", cfg.Report.SQLitePath)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.json", `{"chains": [`))
		assert.Error(t, err)
	})

	t.Run("no chains", func(t *testing.T) {
		_, err := Parse([]byte(`{"wallets": [], "tokens": []}`))
		assert.ErrorIs(t, err, ErrNoChains)
	})

	t.Run("duplicate chain", func(t *testing.T) {
		_, err := Parse([]byte(`{"chains": [{"name": "x", "rpc": "http://a"}, {"name": "x", "rpc": "http://b"}]}`))
		assert.ErrorIs(t, err, ErrDuplicateChain)
	})

	t.Run("unknown chain without rpc", func(t *testing.T) {
		_, err := Parse([]byte(`{"chains": [{"name": "devnet"}]}`))
		assert.ErrorIs(t, err, ErrMissingRPC)
	})

	t.Run("malformed wallet", func(t *testing.T) {
		_, err := Parse([]byte(`{"chains": [{"name": "eth"}], "wallets": ["0xAAA1"]}`))
		assert.ErrorIs(t, err, codec.ErrInvalidAddress)
	})

	t.Run("unknown transport", func(t *testing.T) {
		_, err := Parse([]byte(`{"chains": [{"name": "eth"}], "rpcClient": {"transport": "grpc"}}`))
		assert.Error(t, err)
	})

	t.Run("unknown decode policy", func(t *testing.T) {
		_, err := Parse([]byte(`{"chains": [{"name": "eth"}], "policy": {"decodeFailure": "panic"}}`))
		assert.Error(t, err)
	})
}
