package core

import "testing"

func TestDeriveBalances(t *testing.T) {
	txs := []Transaction{
		{Type: Income, Amount: Money{Cents: 5000000}, ToAccount: "Bank"},
		{Type: Expense, Amount: Money{Cents: 200000}, FromAccount: "Bank"},
		{Type: Expense, Amount: Money{Cents: 150000}, FromAccount: "Bank"},
		{Type: Expense, Amount: Money{Cents: 300000}, FromAccount: "Bank"},
		{Type: Transfer, Amount: Money{Cents: 1000000}, FromAccount: "Bank", ToAccount: "Savings"},
	}
	got := DeriveBalances(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(got))
	}
	if got["Bank"].Cents != 3350000 {
		t.Fatalf("Bank: want 3350000, got %d", got["Bank"].Cents)
	}
	if got["Savings"].Cents != 1000000 {
		t.Fatalf("Savings: want 1000000, got %d", got["Savings"].Cents)
	}
}

func TestDeriveBalancesDefaultAccount(t *testing.T) {
	txs := []Transaction{
		{Type: Income, Amount: Money{Cents: 1000}},
		{Type: Expense, Amount: Money{Cents: 300}},
	}
	got := DeriveBalances(txs)
	if got[DefaultAccount].Cents != 700 {
		t.Fatalf("Main: want 700, got %d", got[DefaultAccount].Cents)
	}
}

func TestDeriveBalancesTransferAsymmetry(t *testing.T) {
	// A transfer with only a destination credits that account and nothing
	// else. No default account is applied on the missing leg.
	txs := []Transaction{
		{Type: Transfer, Amount: Money{Cents: 500}, ToAccount: "X"},
	}
	got := DeriveBalances(txs)
	if len(got) != 1 {
		t.Fatalf("expected exactly one account, got %v", got)
	}
	if got["X"].Cents != 500 {
		t.Fatalf("X: want 500, got %d", got["X"].Cents)
	}

	// Source-only transfer debits only the source.
	got = DeriveBalances([]Transaction{
		{Type: Transfer, Amount: Money{Cents: 500}, FromAccount: "Y"},
	})
	if len(got) != 1 || got["Y"].Cents != -500 {
		t.Fatalf("Y: want -500 and no other accounts, got %v", got)
	}

	// A transfer with no legs at all moves nothing.
	got = DeriveBalances([]Transaction{
		{Type: Transfer, Amount: Money{Cents: 500}},
	})
	if len(got) != 0 {
		t.Fatalf("legless transfer must not touch any account, got %v", got)
	}
}

func TestDeriveBalancesOrderIndependent(t *testing.T) {
	a := []Transaction{
		{Type: Income, Amount: Money{Cents: 100}, ToAccount: "A"},
		{Type: Expense, Amount: Money{Cents: 40}, FromAccount: "A"},
		{Type: Transfer, Amount: Money{Cents: 10}, FromAccount: "A", ToAccount: "B"},
	}
	b := []Transaction{a[2], a[0], a[1]}
	ga, gb := DeriveBalances(a), DeriveBalances(b)
	if ga["A"] != gb["A"] || ga["B"] != gb["B"] {
		t.Fatalf("replay order must not matter: %v vs %v", ga, gb)
	}
}
