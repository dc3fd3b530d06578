package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"pnl_checker/internal/app/port"
	"pnl_checker/internal/domain/entity"
	"pnl_checker/internal/pkg/utils"
)

// CSVEmitter writes the report as CSV with a header row.
type CSVEmitter struct {
	path       string
	loggerInfo func(msg string, args ...any)
}

// NewCSVEmitter creates a CSV emitter writing to path; the file is truncated on every run.
func NewCSVEmitter(path string, loggerInfo func(msg string, args ...any)) port.ReportEmitter {
	return &CSVEmitter{path: path, loggerInfo: loggerInfo}
}

// Emit implements port.ReportEmitter.
func (e *CSVEmitter) Emit(_ context.Context, report entity.PnLReport) error {
	if err := utils.EnsureParentDir(e.path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", e.path, err)
	}
	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("failed to create csv report %s: %w", e.path, err)
	}

	if err := writeCSV(f, report.Records); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write csv report %s: %w", e.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close csv report %s: %w", e.path, err)
	}

	e.loggerInfo("CSV report written", "path", e.path, "records", len(report.Records))
	return nil
}

func writeCSV(f *os.File, records []entity.ReconciledRecord) error {
	w := csv.NewWriter(f)
	if err := w.Write(entity.ReportColumns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Chain,
			r.WalletAddress,
			r.TokenAddress,
			formatFloat(r.Quantity),
			formatFloat(r.BaseQuantity),
			formatFloat(r.Diff),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
