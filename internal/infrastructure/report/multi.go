package report

import (
	"context"

	"pnl_checker/internal/app/port"
	"pnl_checker/internal/domain/entity"
)

// MultiEmitter runs emitters in order and stops at the first error.
type MultiEmitter struct {
	emitters []port.ReportEmitter
}

// NewMultiEmitter creates a MultiEmitter; nil emitters are ignored.
func NewMultiEmitter(emitters ...port.ReportEmitter) *MultiEmitter {
	m := &MultiEmitter{}
	for _, e := range emitters {
		if e != nil {
			m.emitters = append(m.emitters, e)
		}
	}
	return m
}

// Emit implements port.ReportEmitter.
func (m *MultiEmitter) Emit(ctx context.Context, report entity.PnLReport) error {
	for _, e := range m.emitters {
		if err := e.Emit(ctx, report); err != nil {
			return err
		}
	}
	return nil
}
