package provider

import (
	"pnl_checker/internal/app/port"
	"pnl_checker/internal/infrastructure/baselineloader"
)

type baselineProviderImpl struct {
	baselineFilePath string
	snapshots        port.SnapshotStore
	logger           port.Logger
}

// NewBaselineProvider creates a new BaselineProvider.
// An explicit baseline file wins; without one the latest stored snapshot is used, if any.
func NewBaselineProvider(filePath string, snapshots port.SnapshotStore, logger port.Logger) port.BaselineProvider {
	return &baselineProviderImpl{baselineFilePath: filePath, snapshots: snapshots, logger: logger}
}

// GetBaseline implements port.BaselineProvider.
func (p *baselineProviderImpl) GetBaseline() (map[string]float64, error) {
	if p.baselineFilePath != "" {
		p.logger.Debug("Loading baseline from file", "path", p.baselineFilePath)
		baseline, err := baselineloader.NewBaselineFileLoader(p.baselineFilePath, p.logger.Info, p.logger.Warn).GetBaseline()
		if err != nil {
			p.logger.Error("Failed to load baseline", "path", p.baselineFilePath, "error", err)
			return nil, err
		}
		return baseline, nil
	}

	if p.snapshots != nil {
		baseline, found, err := p.snapshots.LatestBaseline()
		if err != nil {
			p.logger.Error("Failed to read latest snapshot", "error", err)
			return nil, err
		}
		if found {
			p.logger.Info("Using latest snapshot as baseline", "entries", len(baseline))
			return baseline, nil
		}
	}

	p.logger.Warn("No baseline available, every record will be compared against zero")
	return map[string]float64{}, nil
}
