package service

import "pnl_checker/internal/domain/entity"

// Reconcile joins each record with its baseline entry. A missing key counts as a zero baseline.
// The output has the same length and order as records.
func Reconcile(records []entity.BalanceRecord, baseline map[string]float64) []entity.ReconciledRecord {
	out := make([]entity.ReconciledRecord, 0, len(records))
	for _, r := range records {
		base, known := baseline[r.Key()]
		out = append(out, entity.ReconciledRecord{
			Chain:         r.Chain,
			WalletAddress: r.WalletAddress,
			TokenAddress:  r.TokenAddress,
			Quantity:      r.Quantity,
			BaseQuantity:  base,
			Diff:          r.Quantity - base,
			BaselineKnown: known,
		})
	}
	return out
}
