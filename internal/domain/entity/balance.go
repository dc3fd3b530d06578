package entity

import "math/big"

// DefaultTokenDecimals is applied to every token without an explicit decimals override.
const DefaultTokenDecimals uint8 = 18

// QueryResult is the outcome of a single balanceOf call that returned a string result.
// Decoded is false when the hex payload could not be parsed; Quantity is then zero.
type QueryResult struct {
	Raw      *big.Int
	Quantity float64
	Decoded  bool
}

// BalanceRecord represents the balance of one token held by one wallet on one chain.
// A record exists only for triples whose query produced a value; absence means unknown, not zero.
type BalanceRecord struct {
	Chain         string   `json:"chain" yaml:"chain"`
	WalletAddress string   `json:"wallet" yaml:"wallet"`
	TokenAddress  string   `json:"token" yaml:"token"`
	Quantity      float64  `json:"qty" yaml:"qty"`
	Raw           *big.Int `json:"-" yaml:"-"`
	Decoded       bool     `json:"-" yaml:"-"`
}

// Key returns the composite baseline key of the record.
func (r BalanceRecord) Key() string {
	return CompositeKey(r.Chain, r.WalletAddress, r.TokenAddress)
}
