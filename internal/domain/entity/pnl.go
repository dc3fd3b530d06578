package entity

import (
	"sort"
	"strings"
)

// CompositeKey builds the "<chain>:<wallet>:<token>" key used to correlate live balances with the baseline.
func CompositeKey(chain, wallet, token string) string {
	return strings.Join([]string{chain, wallet, token}, ":")
}

// ReconciledRecord is a balance record joined with its baseline counterpart.
type ReconciledRecord struct {
	Chain         string  `json:"chain" yaml:"chain"`
	WalletAddress string  `json:"wallet" yaml:"wallet"`
	TokenAddress  string  `json:"token" yaml:"token"`
	Quantity      float64 `json:"qty" yaml:"qty"`
	BaseQuantity  float64 `json:"base_qty" yaml:"base_qty"`
	Diff          float64 `json:"diff" yaml:"diff"`
	BaselineKnown bool    `json:"-" yaml:"-"` // false, если ключа нет в базовом снимке и BaseQuantity взят по умолчанию
}

// ReportColumns are the stable field names of the tabular report.
var ReportColumns = []string{"chain", "wallet", "token", "qty", "base_qty", "diff"}

// SortReconciled orders records by (chain, wallet, token) in place.
func SortReconciled(records []ReconciledRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Chain != b.Chain {
			return a.Chain < b.Chain
		}
		if a.WalletAddress != b.WalletAddress {
			return a.WalletAddress < b.WalletAddress
		}
		return a.TokenAddress < b.TokenAddress
	})
}

// PnLReport is the outcome of one run.
type PnLReport struct {
	RunID   string             `json:"run_id"`
	Records []ReconciledRecord `json:"records"`
}
