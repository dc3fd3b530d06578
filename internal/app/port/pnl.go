package port

import (
	"context"

	"pnl_checker/internal/domain/entity"
)

// BalanceService fans balance queries out across chains.
type BalanceService interface {
	// CollectBalances queries every wallet × token pair on every chain and returns the records
	// that produced a value, in arrival order.
	CollectBalances(ctx context.Context, chains []entity.ChainConfig, wallets, tokens []string) []entity.BalanceRecord
}

// PnLService runs the full collect → reconcile → emit pipeline.
type PnLService interface {
	// BuildReport collects balances and reconciles them against the baseline without persisting anything.
	BuildReport(ctx context.Context) (entity.PnLReport, error)

	// Run builds the report and hands it to the configured emitters.
	Run(ctx context.Context) (entity.PnLReport, error)
}
