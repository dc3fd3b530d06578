package entity

import "time"

// BalanceSnapshot is the set of balances observed by one run, keyed like the baseline.
type BalanceSnapshot struct {
	RunID    string             `json:"run_id"`
	TakenAt  time.Time          `json:"taken_at"`
	Balances map[string]float64 `json:"balances"`
}

// NewBalanceSnapshot builds a snapshot from the records of a run.
// Undecoded records are left out: their zero quantity is a fallback, not an observed balance.
func NewBalanceSnapshot(runID string, takenAt time.Time, records []BalanceRecord) BalanceSnapshot {
	balances := make(map[string]float64, len(records))
	for _, r := range records {
		if !r.Decoded {
			continue
		}
		balances[r.Key()] = r.Quantity
	}
	return BalanceSnapshot{RunID: runID, TakenAt: takenAt, Balances: balances}
}
