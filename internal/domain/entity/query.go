package entity

// QueryTarget is a single (wallet, token) pair queried on every chain.
// Addresses are kept exactly as configured since the composite key is case-sensitive.
type QueryTarget struct {
	WalletAddress string
	TokenAddress  string
}

// CrossProduct enumerates wallets × tokens with wallets as the outer loop.
func CrossProduct(wallets, tokens []string) []QueryTarget {
	targets := make([]QueryTarget, 0, len(wallets)*len(tokens))
	for _, w := range wallets {
		for _, t := range tokens {
			targets = append(targets, QueryTarget{WalletAddress: w, TokenAddress: t})
		}
	}
	return targets
}
