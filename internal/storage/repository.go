package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ledger/internal/core"
)

// SQLiteRepository implements store.Store over a local SQLite file.
type SQLiteRepository struct {
	db *sql.DB

	// now is swappable so tests can control createdAt stamps.
	now func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const insertTx = `
INSERT INTO transactions (id, type, amount_cents, description, category, division, date, created_at, from_account, to_account)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Append implements store.Store.
func (r *SQLiteRepository) Append(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.ID = uuid.NewString()
	tx.CreatedAt = r.now().UTC()

	_, err := r.db.ExecContext(ctx, insertTx,
		tx.ID,
		string(tx.Type),
		tx.Amount.Cents,
		tx.Description,
		tx.Category,
		string(tx.Division),
		tx.Date.UTC().Format(time.RFC3339Nano),
		tx.CreatedAt.Format(time.RFC3339Nano),
		tx.FromAccount,
		tx.ToAccount,
	)
	if err != nil {
		return core.Transaction{}, &core.StoreError{Op: "append", Err: err}
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"type", tx.Type,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category,
		"division", tx.Division)

	return tx, nil
}

const selectTx = `
SELECT id, type, amount_cents, description, category, division, date, created_at, from_account, to_account
FROM transactions`

// Get implements store.Store.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectTx+" WHERE id = ?", id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, &core.NotFoundError{ID: id}
	}
	if err != nil {
		return core.Transaction{}, &core.StoreError{Op: "get", Err: err}
	}
	return tx, nil
}

// Scan implements store.Store. Records come back in insertion order via the
// monotonically increasing rowid.
func (r *SQLiteRepository) Scan(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, selectTx+" ORDER BY rowid")
	if err != nil {
		return nil, &core.StoreError{Op: "scan", Err: err}
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, &core.StoreError{Op: "scan", Err: err}
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.StoreError{Op: "scan", Err: err}
	}
	return out, nil
}

const updateTx = `
UPDATE transactions
SET type = ?, amount_cents = ?, description = ?, category = ?, division = ?, date = ?, from_account = ?, to_account = ?
WHERE id = ?`

// Replace implements store.Store. The single UPDATE statement keeps the
// overwrite atomic; id and created_at are never part of the SET list.
func (r *SQLiteRepository) Replace(ctx context.Context, id string, tx core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx, updateTx,
		string(tx.Type),
		tx.Amount.Cents,
		tx.Description,
		tx.Category,
		string(tx.Division),
		tx.Date.UTC().Format(time.RFC3339Nano),
		tx.FromAccount,
		tx.ToAccount,
		id,
	)
	if err != nil {
		return core.Transaction{}, &core.StoreError{Op: "replace", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, &core.StoreError{Op: "replace", Err: err}
	}
	if affected == 0 {
		return core.Transaction{}, &core.NotFoundError{ID: id}
	}

	slog.InfoContext(ctx, "Transaction replaced in SQLite", "id", id)
	return r.Get(ctx, id)
}

// Reset implements store.Store.
func (r *SQLiteRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
		return &core.StoreError{Op: "reset", Err: err}
	}
	slog.WarnContext(ctx, "Transaction log reset")
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx                  core.Transaction
		txType, division    string
		dateRaw, createdRaw string
	)
	err := row.Scan(
		&tx.ID,
		&txType,
		&tx.Amount.Cents,
		&tx.Description,
		&tx.Category,
		&division,
		&dateRaw,
		&createdRaw,
		&tx.FromAccount,
		&tx.ToAccount,
	)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Type = core.TxType(txType)
	tx.Division = core.Division(division)
	if tx.Date, err = time.Parse(time.RFC3339Nano, dateRaw); err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", dateRaw, err)
	}
	if tx.CreatedAt, err = time.Parse(time.RFC3339Nano, createdRaw); err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}
	return tx, nil
}
