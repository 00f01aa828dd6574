package core

import "sort"

// CategoryTotal is the summed amount for one (category, type) pair. The
// same category under different types yields separate entries.
type CategoryTotal struct {
	Category string
	Type     TxType
	Total    Money
}

// SummarizeByCategory groups transactions by (category, type) and sums
// amounts per group. Results come back ascending by category, ties broken
// by type string. Whether the input has already been filtered is the
// caller's decision; the function works over whatever it is given.
func SummarizeByCategory(txs []Transaction) []CategoryTotal {
	type groupKey struct {
		category string
		txType   TxType
	}
	sums := make(map[groupKey]int64)
	for _, t := range txs {
		k := groupKey{category: t.Category, txType: t.Type}
		sums[k] += t.Amount.Cents
	}

	out := make([]CategoryTotal, 0, len(sums))
	for k, cents := range sums {
		out = append(out, CategoryTotal{
			Category: k.category,
			Type:     k.txType,
			Total:    Money{Cents: cents},
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Type < out[j].Type
	})
	return out
}
