package networkdefinition

import (
	"fmt"
	"strings"

	"pnl_checker/internal/app/port"
	"pnl_checker/internal/domain/entity"
)

// Multicall3Address is deployed at the same address on every supported network.
const Multicall3Address = "0xcA11bde05977b3631167028862bE2a173976CA11"

// Predefined chain defaults. A configured chain whose name matches one of these
// inherits its public RPC endpoint and multicall address when left empty.
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.ChainConfig{
		Name:             "eth",
		RPCURL:           "https://ethereum-rpc.publicnode.com",
		MulticallAddress: Multicall3Address,
	}
	BSC = entity.ChainConfig{
		Name:             "bsc",
		RPCURL:           "https://bsc.publicnode.com",
		MulticallAddress: Multicall3Address,
	}
	Polygon = entity.ChainConfig{
		Name:             "polygon",
		RPCURL:           "https://polygon-rpc.com/",
		MulticallAddress: Multicall3Address,
	}
	Arbitrum = entity.ChainConfig{
		Name:             "arbitrum",
		RPCURL:           "https://arb1.arbitrum.io/rpc",
		MulticallAddress: Multicall3Address,
	}
	Optimism = entity.ChainConfig{
		Name:             "optimism",
		RPCURL:           "https://optimism.publicnode.com",
		MulticallAddress: Multicall3Address,
	}
	Base = entity.ChainConfig{
		Name:             "base",
		RPCURL:           "https://mainnet.base.org",
		MulticallAddress: Multicall3Address,
	}
	Avalanche = entity.ChainConfig{
		Name:             "avalanche",
		RPCURL:           "https://api.avax.network/ext/bc/C/rpc",
		MulticallAddress: Multicall3Address,
	}
)

var knownAliases = map[string]entity.ChainConfig{
	"eth":       Ethereum,
	"ethereum":  Ethereum,
	"bsc":       BSC,
	"polygon":   Polygon,
	"arbitrum":  Arbitrum,
	"optimism":  Optimism,
	"base":      Base,
	"avalanche": Avalanche,
}

// Known returns the predefined defaults for a chain name, case-insensitively.
func Known(name string) (entity.ChainConfig, bool) {
	def, ok := knownAliases[strings.ToLower(strings.TrimSpace(name))]
	return def, ok
}

// ApplyDefaults fills an empty RPC URL or multicall address from the predefined chain of the same name.
// The configured name is kept as is, since it is part of the composite baseline key.
func ApplyDefaults(chain entity.ChainConfig) (entity.ChainConfig, bool) {
	def, ok := Known(chain.Name)
	if !ok {
		return chain, false
	}
	applied := false
	if chain.RPCURL == "" {
		chain.RPCURL = def.RPCURL
		applied = true
	}
	if chain.MulticallAddress == "" {
		chain.MulticallAddress = def.MulticallAddress
		applied = true
	}
	return chain, applied
}

// ChainRegistry provides the chains active in the current run.
type ChainRegistry struct {
	logger port.Logger
	chains []entity.ChainConfig
}

// NewChainRegistry creates a registry over the configured chains.
func NewChainRegistry(log port.Logger, chains []entity.ChainConfig) *ChainRegistry {
	r := &ChainRegistry{
		logger: log,
		chains: append([]entity.ChainConfig(nil), chains...),
	}
	if len(r.chains) == 0 {
		r.logger.Warn("No chains configured. No balances will be queried.")
		return r
	}
	r.logger.Info(fmt.Sprintf("ChainRegistry initialized. Active chains: %d", len(r.chains)))
	for _, c := range r.chains {
		r.logger.Debug(fmt.Sprintf("  - Active chain: %s (RPC: %s, Multicall: %s)", c.Name, c.RPCURL, c.MulticallAddress))
	}
	return r
}

// GetAllChains returns a copy of the active chains in configuration order.
func (r *ChainRegistry) GetAllChains() []entity.ChainConfig {
	if r == nil {
		return []entity.ChainConfig{}
	}
	chainsCopy := make([]entity.ChainConfig, len(r.chains))
	copy(chainsCopy, r.chains)
	return chainsCopy
}

// GetChainByName returns the active chain with exactly this name.
func (r *ChainRegistry) GetChainByName(name string) (entity.ChainConfig, bool) {
	if r == nil {
		return entity.ChainConfig{}, false
	}
	for _, c := range r.chains {
		if c.Name == name {
			return c, true
		}
	}
	return entity.ChainConfig{}, false
}
