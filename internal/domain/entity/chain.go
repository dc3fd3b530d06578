package entity

// ChainConfig holds the configuration for a single EVM network taking part in a run.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type ChainConfig struct {
	Name             string `json:"name" yaml:"name"` // Уникальный идентификатор сети в рамках запуска (например, "eth")
	RPCURL           string `json:"rpc" yaml:"rpc"`
	MulticallAddress string `json:"multicall" yaml:"multicall"` // Не используется ядром, но входит в конфиг
}
