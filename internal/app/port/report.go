package port

import (
	"context"

	"pnl_checker/internal/domain/entity"
)

// ReportEmitter persists the reconciled records of a run.
type ReportEmitter interface {
	Emit(ctx context.Context, report entity.PnLReport) error
}

// BaselineProvider supplies the baseline snapshot keyed by "<chain>:<wallet>:<token>".
type BaselineProvider interface {
	GetBaseline() (map[string]float64, error)
}

// SnapshotStore keeps the observed balances of past runs.
type SnapshotStore interface {
	Save(runID string, records []entity.BalanceRecord) error
	LatestBaseline() (map[string]float64, bool, error)
}
