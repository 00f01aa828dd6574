// Package worker pushes stored transactions to the spreadsheet mirror in
// response to AMQP sync messages.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"ledger/internal/amqp"
	"ledger/internal/mirror"
	"ledger/internal/store"
)

type MirrorWorker struct {
	store    store.Store
	appender mirror.RowAppender
}

func NewMirrorWorker(st store.Store, appender mirror.RowAppender) *MirrorWorker {
	return &MirrorWorker{
		store:    st,
		appender: appender,
	}
}

// HandleSyncMessage processes one sync message: the record is re-read from
// the store so the mirror always receives the current field values, not
// whatever the message was created against.
func (w *MirrorWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	tx, err := w.store.Get(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from store: %w", err)
	}

	ref, err := w.appender.AppendRow(ctx, tx, msg.Version)
	if err != nil {
		return fmt.Errorf("append transaction to mirror: %w", err)
	}

	slog.InfoContext(ctx, "Transaction mirrored",
		"id", msg.ID,
		"version", msg.Version,
		"row_ref", ref)

	return nil
}

// ResyncAll pushes the full log to the mirror. Run at startup to cover
// messages lost while the worker was down.
func (w *MirrorWorker) ResyncAll(ctx context.Context) error {
	txs, err := w.store.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan transactions: %w", err)
	}

	for _, tx := range txs {
		if _, err := w.appender.AppendRow(ctx, tx, 0); err != nil {
			return fmt.Errorf("resync transaction %s: %w", tx.ID, err)
		}
	}

	slog.InfoContext(ctx, "Full resync completed", "count", len(txs))
	return nil
}
