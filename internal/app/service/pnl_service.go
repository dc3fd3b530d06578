package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"pnl_checker/internal/app/port"
	"pnl_checker/internal/domain/entity"
	"pnl_checker/internal/pkg/metrics"
)

// PnLServiceImpl implements port.PnLService.
type PnLServiceImpl struct {
	chainProvider    port.ChainProvider
	balanceService   port.BalanceService
	baselineProvider port.BaselineProvider
	emitter          port.ReportEmitter
	snapshots        port.SnapshotStore
	logger           port.Logger
	wallets          []string
	tokens           []string
	sortRecords      bool

	// runMu serializes Run; every run writes the same report files.
	runMu sync.Mutex
}

// PnLServiceDeps groups the collaborators of PnLServiceImpl. Emitter and Snapshots may be nil.
type PnLServiceDeps struct {
	Chains    port.ChainProvider
	Balances  port.BalanceService
	Baseline  port.BaselineProvider
	Emitter   port.ReportEmitter
	Snapshots port.SnapshotStore
	Logger    port.Logger
}

// NewPnLService creates a new instance of PnLServiceImpl.
func NewPnLService(deps PnLServiceDeps, wallets, tokens []string, sortRecords bool) port.PnLService {
	return &PnLServiceImpl{
		chainProvider:    deps.Chains,
		balanceService:   deps.Balances,
		baselineProvider: deps.Baseline,
		emitter:          deps.Emitter,
		snapshots:        deps.Snapshots,
		logger:           deps.Logger,
		wallets:          wallets,
		tokens:           tokens,
		sortRecords:      sortRecords,
	}
}

// BuildReport implements port.PnLService.
func (s *PnLServiceImpl) BuildReport(ctx context.Context) (entity.PnLReport, error) {
	report, _, err := s.build(ctx)
	return report, err
}

// Run implements port.PnLService.
func (s *PnLServiceImpl) Run(ctx context.Context) (entity.PnLReport, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	started := time.Now()
	report, records, err := s.build(ctx)
	if err != nil {
		return entity.PnLReport{}, err
	}

	if s.emitter != nil {
		if err := s.emitter.Emit(ctx, report); err != nil {
			return report, fmt.Errorf("failed to emit report: %w", err)
		}
	}

	if s.snapshots != nil {
		if err := s.snapshots.Save(report.RunID, records); err != nil {
			// not fatal: the report is already on disk
			s.logger.Error("Failed to save balance snapshot", "run_id", report.RunID, "error", err)
		}
	}

	s.logger.Info("Run completed",
		"run_id", report.RunID,
		"records", len(report.Records),
		"chains", len(s.chainProvider.GetAllChains()),
		"unknown_baselines", countUnknownBaselines(report.Records),
		"elapsed", time.Since(started))
	return report, nil
}

func (s *PnLServiceImpl) build(ctx context.Context) (entity.PnLReport, []entity.BalanceRecord, error) {
	runID := uuid.NewString()

	baseline, err := s.baselineProvider.GetBaseline()
	if err != nil {
		s.logger.Error("Failed to load baseline", "run_id", runID, "error", err)
		return entity.PnLReport{}, nil, fmt.Errorf("failed to load baseline: %w", err)
	}

	chains := s.chainProvider.GetAllChains()
	s.logger.Debug("Collecting balances", "run_id", runID, "chains", len(chains),
		"wallets", len(s.wallets), "tokens", len(s.tokens), "baseline_entries", len(baseline))

	records := s.balanceService.CollectBalances(ctx, chains, s.wallets, s.tokens)
	reconciled := Reconcile(records, baseline)
	if s.sortRecords {
		entity.SortReconciled(reconciled)
	}

	metrics.ReportRecords.Set(float64(len(reconciled)))
	metrics.UnknownBaselines.Set(float64(countUnknownBaselines(reconciled)))

	return entity.PnLReport{RunID: runID, Records: reconciled}, records, nil
}

func countUnknownBaselines(records []entity.ReconciledRecord) int {
	n := 0
	for _, r := range records {
		if !r.BaselineKnown {
			n++
		}
	}
	return n
}
