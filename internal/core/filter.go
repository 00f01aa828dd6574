package core

import (
	"sort"
	"time"
)

// Filter holds optional list criteria. Zero-valued fields impose no
// constraint; present fields are combined with logical AND.
type Filter struct {
	Division Division
	Category string
	Type     TxType
	DateFrom time.Time // inclusive lower bound on Date
	DateTo   time.Time // inclusive upper bound on Date
}

// Matches reports whether a transaction satisfies every present criterion.
func (f Filter) Matches(t Transaction) bool {
	if f.Division != "" && t.Division != f.Division {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if !f.DateFrom.IsZero() && t.Date.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && t.Date.After(f.DateTo) {
		return false
	}
	return true
}

// Apply selects the matching transactions and orders them by date
// descending. Ties keep the input (insertion) order. The input slice is
// not modified.
func (f Filter) Apply(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
