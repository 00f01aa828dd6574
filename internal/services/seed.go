package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ledger/internal/core"
)

// Seed wipes the log and inserts a small demo data set. Development only;
// the HTTP layer keeps the route behind a config flag.
func (s *LedgerService) Seed(ctx context.Context) (int, error) {
	if err := s.store.Reset(ctx); err != nil {
		return 0, fmt.Errorf("reset log: %w", err)
	}

	now := time.Now().UTC()
	sample := []core.Transaction{
		{
			Type:        core.Income,
			Amount:      core.Money{Cents: 5000000},
			Description: "Salary for February",
			Category:    "Salary",
			Division:    core.Office,
			Date:        now,
			ToAccount:   "Bank",
		},
		{
			Type:        core.Expense,
			Amount:      core.Money{Cents: 200000},
			Description: "Fuel for car",
			Category:    "Fuel",
			Division:    core.Office,
			Date:        now,
			FromAccount: "Bank",
		},
		{
			Type:        core.Expense,
			Amount:      core.Money{Cents: 150000},
			Description: "Weekend movie",
			Category:    "Movie",
			Division:    core.Personal,
			Date:        now,
			FromAccount: "Bank",
		},
		{
			Type:        core.Expense,
			Amount:      core.Money{Cents: 300000},
			Description: "Grocery shopping",
			Category:    "Food",
			Division:    core.Personal,
			Date:        now,
			FromAccount: "Bank",
		},
		{
			Type:        core.Transfer,
			Amount:      core.Money{Cents: 1000000},
			Description: "Transfer to savings",
			Category:    "Transfer",
			Division:    core.Personal,
			Date:        now,
			FromAccount: "Bank",
			ToAccount:   "Savings",
		},
	}

	for _, tx := range sample {
		if _, err := s.store.Append(ctx, tx); err != nil {
			return 0, fmt.Errorf("seed append: %w", err)
		}
	}

	slog.InfoContext(ctx, "Seeded demo transactions", "count", len(sample))
	return len(sample), nil
}
