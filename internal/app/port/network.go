package port

import (
	"context"

	"pnl_checker/internal/domain/entity"
)

// BlockchainClient defines the interface for querying token balances on one EVM chain.
type BlockchainClient interface {
	// BalanceOf issues a single eth_call of balanceOf(wallet) against token.
	// The boolean is false when the call produced no usable value; callers skip the pair.
	BalanceOf(ctx context.Context, tokenAddress string, walletAddress string) (entity.QueryResult, bool)

	// Chain returns the chain configuration associated with this client.
	Chain() entity.ChainConfig
}

// BlockchainClientProvider defines the interface for providing blockchain clients.
type BlockchainClientProvider interface {
	GetClient(chain entity.ChainConfig) (BlockchainClient, error)
}

// ChainProvider lists the chains configured for the run.
type ChainProvider interface {
	GetAllChains() []entity.ChainConfig
	GetChainByName(name string) (entity.ChainConfig, bool)
}
