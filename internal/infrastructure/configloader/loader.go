package configloader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"pnl_checker/internal/domain/entity"
	"pnl_checker/internal/infrastructure/network/codec"
	networkdefinition "pnl_checker/internal/infrastructure/network/definition"
)

// Transports of the chain query client.
const (
	TransportGeth     = "geth"
	TransportFastHTTP = "fasthttp"
)

// Policies for hex results that cannot be decoded.
const (
	DecodeFailureZero = "zero"
	DecodeFailureSkip = "skip"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrNoChains       = errors.New("no chains configured")
	ErrDuplicateChain = errors.New("duplicate chain name")
	ErrMissingRPC     = errors.New("chain rpc url is required")
)

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	MaxConcurrentChains  int   `json:"maxConcurrentChains" yaml:"maxConcurrentChains"`   // 0: без ограничения, по горутине на сеть
	RPCCallTimeoutMillis int64 `json:"rpcCallTimeoutMillis" yaml:"rpcCallTimeoutMillis"` // 0: таймаут транспорта по умолчанию
}

// RPCClientConfig selects the JSON-RPC transport.
type RPCClientConfig struct {
	Transport string `json:"transport" yaml:"transport"`
}

// PolicyConfig holds the fallbacks applied to partial results.
type PolicyConfig struct {
	DecodeFailure string `json:"decodeFailure" yaml:"decodeFailure"`
}

// ReportConfig holds the report artifact settings. The CSV path comes from the CLI.
type ReportConfig struct {
	JSONPath    string `json:"jsonPath" yaml:"jsonPath"`
	SQLitePath  string `json:"sqlitePath" yaml:"sqlitePath"`
	SortRecords bool   `json:"sortRecords" yaml:"sortRecords"`
}

// MetricsConfig holds metrics export settings.
type MetricsConfig struct {
	TextfilePath string `json:"textfilePath" yaml:"textfilePath"`
}

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port string `json:"port" yaml:"port"`
}

// SnapshotConfig holds the snapshot store settings.
type SnapshotConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

// Config is the top-level configuration structure.
type Config struct {
	Chains        []entity.ChainConfig `json:"chains" yaml:"chains"`
	Wallets       []string             `json:"wallets" yaml:"wallets"`
	Tokens        []string             `json:"tokens" yaml:"tokens"`
	TokenDecimals map[string]uint8     `json:"tokenDecimals" yaml:"tokenDecimals"`
	Logging       LoggingConfig        `json:"logging" yaml:"logging"`
	Performance   PerformanceConfig    `json:"performance" yaml:"performance"`
	RPCClient     RPCClientConfig      `json:"rpcClient" yaml:"rpcClient"`
	Policy        PolicyConfig         `json:"policy" yaml:"policy"`
	Report        ReportConfig         `json:"report" yaml:"report"`
	Metrics       MetricsConfig        `json:"metrics" yaml:"metrics"`
	Server        ServerConfig         `json:"server" yaml:"server"`
	Snapshots     SnapshotConfig       `json:"snapshots" yaml:"snapshots"`
}

// DecimalsFor returns the configured decimals of token, or the 18-decimals default.
func (c *Config) DecimalsFor(token string) uint8 {
	if d, ok := c.TokenDecimals[token]; ok {
		return d
	}
	return entity.DefaultTokenDecimals
}

// Load reads the YAML (or JSON) configuration file from the given path, applies defaults and validates it.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	logrus.Info("Configuration loaded successfully.")
	return cfg, nil
}

// Parse unmarshals raw config data, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if isJSON(data) {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON config data: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// isJSON reports whether data looks like a JSON object. YAML rejects tab indentation,
// so pretty-printed JSON files are decoded with the JSON decoder instead.
func isJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Performance.MaxConcurrentChains < 0 {
		cfg.Performance.MaxConcurrentChains = 0
	}
	if cfg.Performance.RPCCallTimeoutMillis < 0 {
		cfg.Performance.RPCCallTimeoutMillis = 0
	}
	if cfg.RPCClient.Transport == "" {
		cfg.RPCClient.Transport = TransportGeth
	}
	cfg.RPCClient.Transport = strings.ToLower(cfg.RPCClient.Transport)
	if cfg.Policy.DecodeFailure == "" {
		cfg.Policy.DecodeFailure = DecodeFailureZero
	}
	cfg.Policy.DecodeFailure = strings.ToLower(cfg.Policy.DecodeFailure)
	if cfg.Report.JSONPath == "" {
		cfg.Report.JSONPath = "pnl.json"
	}

	for i, chain := range cfg.Chains {
		chain.Name = strings.TrimSpace(chain.Name)
		chain.RPCURL = strings.TrimSpace(chain.RPCURL)
		resolved, applied := networkdefinition.ApplyDefaults(chain)
		if applied {
			logrus.Infof("Chain '%s' inherits predefined defaults (rpc: %s, multicall: %s)", resolved.Name, resolved.RPCURL, resolved.MulticallAddress)
		}
		cfg.Chains[i] = resolved
	}
}

func validate(cfg *Config) error {
	if len(cfg.Chains) == 0 {
		return ErrNoChains
	}
	seen := make(map[string]struct{}, len(cfg.Chains))
	for i, chain := range cfg.Chains {
		if chain.Name == "" {
			return fmt.Errorf("chain #%d: name is required", i)
		}
		if _, dup := seen[chain.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateChain, chain.Name)
		}
		seen[chain.Name] = struct{}{}
		if chain.RPCURL == "" {
			return fmt.Errorf("%w: %s", ErrMissingRPC, chain.Name)
		}
	}

	if len(cfg.Wallets) == 0 {
		logrus.Warn("No wallets configured; the report will be empty.")
	}
	if len(cfg.Tokens) == 0 {
		logrus.Warn("No tokens configured; the report will be empty.")
	}
	for _, w := range cfg.Wallets {
		if err := codec.ValidateAddress(w); err != nil {
			return fmt.Errorf("wallet: %w", err)
		}
	}
	for _, t := range cfg.Tokens {
		if err := codec.ValidateAddress(t); err != nil {
			return fmt.Errorf("token: %w", err)
		}
	}
	for t := range cfg.TokenDecimals {
		if err := codec.ValidateAddress(t); err != nil {
			return fmt.Errorf("tokenDecimals: %w", err)
		}
	}

	switch cfg.RPCClient.Transport {
	case TransportGeth, TransportFastHTTP:
	default:
		return fmt.Errorf("unknown rpcClient.transport %q (expected %q or %q)", cfg.RPCClient.Transport, TransportGeth, TransportFastHTTP)
	}
	switch cfg.Policy.DecodeFailure {
	case DecodeFailureZero, DecodeFailureSkip:
	default:
		return fmt.Errorf("unknown policy.decodeFailure %q (expected %q or %q)", cfg.Policy.DecodeFailure, DecodeFailureZero, DecodeFailureSkip)
	}
	return nil
}
