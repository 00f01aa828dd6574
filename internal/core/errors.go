package core

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ValidationError rejects a malformed candidate and names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an unknown transaction id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("transaction %s not found", e.ID)
}

// EditWindowExpiredError rejects an update attempted after the edit window
// has closed. The stored record is left untouched.
type EditWindowExpiredError struct {
	ID        string
	CreatedAt time.Time
}

func (e *EditWindowExpiredError) Error() string {
	return fmt.Sprintf("transaction %s is no longer editable (created %s)", e.ID, e.CreatedAt.Format(time.RFC3339))
}

// StoreError wraps an opaque persistence failure. The engine never retries;
// surfacing the cause is the caller's concern.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
