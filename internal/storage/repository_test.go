package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ledger/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleTx() core.Transaction {
	return core.Transaction{
		Type:        core.Income,
		Amount:      core.Money{Cents: 250050},
		Description: "consulting invoice",
		Category:    "Salary",
		Division:    core.Office,
		Date:        time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
		ToAccount:   "Bank",
	}
}

func TestAppendGetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stored, err := repo.Append(ctx, sampleTx())
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if stored.ID == "" || stored.CreatedAt.IsZero() {
		t.Fatalf("id and createdAt must be assigned: %+v", stored)
	}

	got, err := repo.Get(ctx, stored.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != stored.Description ||
		got.Amount != stored.Amount ||
		got.Category != stored.Category ||
		got.Division != stored.Division ||
		got.ToAccount != stored.ToAccount ||
		!got.Date.Equal(stored.Date) ||
		!got.CreatedAt.Equal(stored.CreatedAt) {
		t.Fatalf("round-trip mismatch:\nwant %+v\ngot  %+v", stored, got)
	}
}

func TestGetUnknownIDReturnsNotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Get(context.Background(), "missing")
	var nf *core.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestReplacePreservesCreatedAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stored, _ := repo.Append(ctx, sampleTx())

	updated := stored
	updated.Type = core.Expense
	updated.Description = "corrected entry"
	updated.CreatedAt = time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := repo.Replace(ctx, stored.ID, updated)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got.ID != stored.ID || !got.CreatedAt.Equal(stored.CreatedAt) {
		t.Fatalf("id/createdAt must survive replace: %+v", got)
	}
	if got.Type != core.Expense || got.Description != "corrected entry" {
		t.Fatalf("fields not overwritten: %+v", got)
	}

	var nf *core.NotFoundError
	if _, err := repo.Replace(ctx, "missing", updated); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestScanInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		stored, err := repo.Append(ctx, sampleTx())
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		ids = append(ids, stored.ID)
	}

	txs, err := repo.Scan(ctx)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(txs))
	}
	for i, tx := range txs {
		if tx.ID != ids[i] {
			t.Fatalf("position %d: want %s, got %s", i, ids[i], tx.ID)
		}
	}
}

func TestReset(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	repo.Append(ctx, sampleTx())
	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	txs, _ := repo.Scan(ctx)
	if len(txs) != 0 {
		t.Fatalf("expected empty log, got %d records", len(txs))
	}
}
