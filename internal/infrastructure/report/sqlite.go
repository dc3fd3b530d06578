package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"pnl_checker/internal/app/port"
	"pnl_checker/internal/domain/entity"
	"pnl_checker/internal/pkg/utils"
)

const createRecordsTable = `
CREATE TABLE IF NOT EXISTS pnl_records (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id         TEXT    NOT NULL,
	chain          TEXT    NOT NULL,
	wallet         TEXT    NOT NULL,
	token          TEXT    NOT NULL,
	qty            REAL    NOT NULL,
	base_qty       REAL    NOT NULL,
	diff           REAL    NOT NULL,
	baseline_known INTEGER NOT NULL,
	created_at     INTEGER NOT NULL
)`

const createRunIndex = `CREATE INDEX IF NOT EXISTS idx_pnl_records_run ON pnl_records(run_id)`

const insertRecord = `INSERT INTO pnl_records
	(run_id, chain, wallet, token, qty, base_qty, diff, baseline_known, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteEmitter appends the records of every run to a SQLite table.
type SQLiteEmitter struct {
	path       string
	loggerInfo func(msg string, args ...any)
}

// NewSQLiteEmitter creates a SQLite emitter for the database at path.
func NewSQLiteEmitter(path string, loggerInfo func(msg string, args ...any)) port.ReportEmitter {
	return &SQLiteEmitter{path: path, loggerInfo: loggerInfo}
}

// Emit implements port.ReportEmitter.
func (e *SQLiteEmitter) Emit(ctx context.Context, report entity.PnLReport) error {
	if err := utils.EnsureParentDir(e.path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", e.path, err)
	}

	db, err := sql.Open("sqlite", e.path)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", e.path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		return fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, createRecordsTable); err != nil {
		return fmt.Errorf("create pnl_records: %w", err)
	}
	if _, err := db.ExecContext(ctx, createRunIndex); err != nil {
		return fmt.Errorf("create pnl_records index: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertRecord)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	createdAt := time.Now().Unix()
	for _, r := range report.Records {
		known := 0
		if r.BaselineKnown {
			known = 1
		}
		if _, err := stmt.ExecContext(ctx, report.RunID, r.Chain, r.WalletAddress, r.TokenAddress,
			r.Quantity, r.BaseQuantity, r.Diff, known, createdAt); err != nil {
			return fmt.Errorf("insert record %s: %w", entity.CompositeKey(r.Chain, r.WalletAddress, r.TokenAddress), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	e.loggerInfo("SQLite report written", "path", e.path, "run_id", report.RunID, "records", len(report.Records))
	return nil
}
