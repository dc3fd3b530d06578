package logger

import "pnl_checker/internal/app/port"

// slogAdapter реализует интерфейс port.Logger поверх глобальных функций пакета logger,
// добавляя к каждой записи фиксированные атрибуты.
type slogAdapter struct {
	attrs []any
}

// NewSlogAdapter создает новый экземпляр slogAdapter. attrs: пары ключ-значение,
// добавляемые к каждому сообщению (например, "component", "balance_service").
func NewSlogAdapter(attrs ...any) port.Logger {
	return &slogAdapter{attrs: attrs}
}

func (a *slogAdapter) with(args []any) []any {
	if len(a.attrs) == 0 {
		return args
	}
	out := make([]any, 0, len(a.attrs)+len(args))
	out = append(out, a.attrs...)
	return append(out, args...)
}

// Info логирует информационное сообщение.
func (a *slogAdapter) Info(msg string, args ...any) {
	Info(msg, a.with(args)...)
}

// Debug логирует отладочное сообщение.
func (a *slogAdapter) Debug(msg string, args ...any) {
	Debug(msg, a.with(args)...)
}

// Warn логирует предупреждающее сообщение.
func (a *slogAdapter) Warn(msg string, args ...any) {
	Warn(msg, a.with(args)...)
}

// Error логирует сообщение об ошибке.
func (a *slogAdapter) Error(msg string, args ...any) {
	Error(msg, a.with(args)...)
}
