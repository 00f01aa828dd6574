// Package services orchestrates ledger operations across the store and the
// AMQP mirror pipeline.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ledger/internal/core"
	"ledger/internal/store"
)

// SyncPublisher publishes mirror sync requests. Nil is a valid value: the
// service then skips publishing and the write still succeeds.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id string, version int64) error
}

// Patch is a partial field set for an update. Nil fields keep the stored
// value. Changing the type on edit is permitted; the edit window is the
// only guard.
type Patch struct {
	Type        *core.TxType
	Amount      *core.Money
	Description *string
	Category    *string
	Division    *core.Division
	Date        *time.Time
	FromAccount *string
	ToAccount   *string
}

// ApplyTo merges the patch into a stored transaction. ID and CreatedAt are
// untouchable by construction.
func (p Patch) ApplyTo(tx core.Transaction) core.Transaction {
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.Category != nil {
		tx.Category = *p.Category
	}
	if p.Division != nil {
		tx.Division = *p.Division
	}
	if p.Date != nil {
		tx.Date = *p.Date
	}
	if p.FromAccount != nil {
		tx.FromAccount = *p.FromAccount
	}
	if p.ToAccount != nil {
		tx.ToAccount = *p.ToAccount
	}
	return tx
}

// LedgerService exposes the six ledger operations over a store and an
// optional sync publisher.
type LedgerService struct {
	store     store.Store
	publisher SyncPublisher

	// now is swappable so tests can control the edit-window clock.
	now func() time.Time
}

func NewLedgerService(st store.Store, publisher SyncPublisher) *LedgerService {
	return &LedgerService{
		store:     st,
		publisher: publisher,
		now:       time.Now,
	}
}

// NewLedgerServiceWithClock is NewLedgerService with an injected clock.
func NewLedgerServiceWithClock(st store.Store, publisher SyncPublisher, clock func() time.Time) *LedgerService {
	s := NewLedgerService(st, publisher)
	s.now = clock
	return s
}

// CreateTransaction validates the candidate and appends it to the log. The
// mirror sync message is best-effort: a publish failure never fails the
// write.
func (s *LedgerService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	stored, err := s.store.Append(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}

	s.publishSync(ctx, stored.ID, 1)
	return stored, nil
}

// ListTransactions returns the records matching the filter, ordered by
// date descending with stable ties.
func (s *LedgerService) ListTransactions(ctx context.Context, f core.Filter) ([]core.Transaction, error) {
	txs, err := s.store.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan transactions: %w", err)
	}
	return f.Apply(txs), nil
}

// UpdateTransaction replaces the field values of an existing record while
// the edit window is still open. The check runs against the stored
// createdAt, never client input, and a rejected update leaves the record
// untouched.
func (s *LedgerService) UpdateTransaction(ctx context.Context, id string, patch Patch) (core.Transaction, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}

	if !core.IsEditable(current.CreatedAt, s.now()) {
		return core.Transaction{}, &core.EditWindowExpiredError{ID: id, CreatedAt: current.CreatedAt}
	}

	merged := patch.ApplyTo(current)
	if err := merged.Validate(); err != nil {
		return core.Transaction{}, err
	}

	updated, err := s.store.Replace(ctx, id, merged)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("replace transaction: %w", err)
	}

	s.publishSync(ctx, updated.ID, 2)
	return updated, nil
}

// PeriodSummary buckets the full log by calendar period. Summaries always
// run over the entire log; filtered aggregation stays available to callers
// through core.Filter plus the core summarizers.
func (s *LedgerService) PeriodSummary(ctx context.Context, g core.Granularity) ([]core.PeriodBucket, error) {
	txs, err := s.store.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan transactions: %w", err)
	}
	return core.Summarize(txs, g), nil
}

// CategorySummary groups the full log by (category, type).
func (s *LedgerService) CategorySummary(ctx context.Context) ([]core.CategoryTotal, error) {
	txs, err := s.store.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan transactions: %w", err)
	}
	return core.SummarizeByCategory(txs), nil
}

// AccountBalances replays the full log into per-account balances.
func (s *LedgerService) AccountBalances(ctx context.Context) (map[string]core.Money, error) {
	txs, err := s.store.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan transactions: %w", err)
	}
	return core.DeriveBalances(txs), nil
}

func (s *LedgerService) publishSync(ctx context.Context, id string, version int64) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No sync publisher configured, skipping", "id", id)
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, id, version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "version", version, "error", err)
		// Don't fail the request, the transaction is saved locally.
	}
}

// Close releases the underlying store.
func (s *LedgerService) Close() error {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			return fmt.Errorf("close store: %w", err)
		}
	}
	return nil
}
