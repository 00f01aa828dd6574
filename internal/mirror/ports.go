// Package mirror defines the outbound port for the read-only spreadsheet
// copy of the ledger.
package mirror

import (
	"context"

	"ledger/internal/core"
)

// RowAppender pushes one transaction to the mirror. Implementations append;
// the mirror is a log of versions, not an authoritative copy, so an updated
// transaction simply shows up again with a higher version.
type RowAppender interface {
	AppendRow(ctx context.Context, tx core.Transaction, version int64) (rowRef string, err error)
}
