package core

// DefaultAccount is the account charged or credited when an income or
// expense names no account of its own.
const DefaultAccount = "Main"

// accountOrDefault resolves the account for the income/expense paths only.
// Transfers never fall back to the default: a transfer missing a leg simply
// moves money on the single present leg. That asymmetry matches the
// recorded ledger semantics and must not be "fixed".
func accountOrDefault(name string) string {
	if name == "" {
		return DefaultAccount
	}
	return name
}

// DeriveBalances replays the transaction stream into per-account signed
// balances (in cents). It is a pure fold over the input and
// order-independent, since only sums are accumulated. Every call returns a
// fresh map; no balance state is shared or persisted.
func DeriveBalances(txs []Transaction) map[string]Money {
	balances := make(map[string]int64)
	for _, t := range txs {
		switch t.Type {
		case Income:
			balances[accountOrDefault(t.ToAccount)] += t.Amount.Cents
		case Expense:
			balances[accountOrDefault(t.FromAccount)] -= t.Amount.Cents
		case Transfer:
			if t.FromAccount != "" {
				balances[t.FromAccount] -= t.Amount.Cents
			}
			if t.ToAccount != "" {
				balances[t.ToAccount] += t.Amount.Cents
			}
		}
	}
	out := make(map[string]Money, len(balances))
	for account, cents := range balances {
		out[account] = Money{Cents: cents}
	}
	return out
}
