package core

import "time"

// EditWindow is how long a transaction stays editable after creation.
const EditWindow = 12 * time.Hour

// IsEditable reports whether a record created at createdAt may still be
// replaced at now. The boundary is inclusive: exactly 12 hours is still
// editable, one second more is not. createdAt must come from the stored
// record, never from client input.
func IsEditable(createdAt, now time.Time) bool {
	return now.Sub(createdAt) <= EditWindow
}
