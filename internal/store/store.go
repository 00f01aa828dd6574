// Package store defines the ledger store port implemented by the outbound
// adapters (in-memory and SQLite).
package store

import (
	"context"

	"ledger/internal/core"
)

// Store is the durable transaction log. Single-record Append and Replace
// are atomic: a concurrent reader never observes a partially written
// record, and two concurrent Replace calls on the same id serialize.
type Store interface {
	// Append assigns id and createdAt and stores the record, returning the
	// stored form.
	Append(ctx context.Context, tx core.Transaction) (core.Transaction, error)

	// Get returns the record for id, or *core.NotFoundError.
	Get(ctx context.Context, id string) (core.Transaction, error)

	// Scan returns every record in insertion order.
	Scan(ctx context.Context) ([]core.Transaction, error)

	// Replace overwrites the field values of an existing record, preserving
	// its id and createdAt. Returns *core.NotFoundError for an unknown id.
	Replace(ctx context.Context, id string, tx core.Transaction) (core.Transaction, error)

	// Reset drops the entire log. Only the dev seed route uses this.
	Reset(ctx context.Context) error

	Close() error
}
