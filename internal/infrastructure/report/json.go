package report

import (
	"context"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"pnl_checker/internal/app/port"
	"pnl_checker/internal/domain/entity"
	"pnl_checker/internal/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONEmitter writes the records as a pretty-printed JSON array mirroring the CSV rows.
type JSONEmitter struct {
	path       string
	loggerInfo func(msg string, args ...any)
}

// NewJSONEmitter creates a JSON emitter writing to path.
func NewJSONEmitter(path string, loggerInfo func(msg string, args ...any)) port.ReportEmitter {
	return &JSONEmitter{path: path, loggerInfo: loggerInfo}
}

// Emit implements port.ReportEmitter.
func (e *JSONEmitter) Emit(_ context.Context, report entity.PnLReport) error {
	records := report.Records
	if records == nil {
		records = []entity.ReconciledRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal json report: %w", err)
	}

	if err := utils.EnsureParentDir(e.path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", e.path, err)
	}
	if err := os.WriteFile(e.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write json report %s: %w", e.path, err)
	}

	e.loggerInfo("JSON report written", "path", e.path, "records", len(records))
	return nil
}
