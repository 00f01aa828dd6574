package core

import (
	"strings"
	"time"
)

const (
	Income   TxType = "income"
	Expense  TxType = "expense"
	Transfer TxType = "transfer"
)

const (
	Office   Division = "Office"
	Personal Division = "Personal"
)

type (
	TxType string

	Division string

	Money struct {
		Cents int64
	}

	// Transaction is the sole ledger entity. ID and CreatedAt are assigned
	// by the store at append time and never change afterwards.
	Transaction struct {
		ID          string
		Type        TxType
		Amount      Money
		Description string
		Category    string
		Division    Division
		Date        time.Time
		CreatedAt   time.Time

		// Optional account legs. Meaning depends on Type, see DeriveBalances.
		FromAccount string
		ToAccount   string
	}
)

// ParseTxType returns the typed value for a wire string, or false when the
// value is outside the closed set.
func ParseTxType(s string) (TxType, bool) {
	switch TxType(s) {
	case Income, Expense, Transfer:
		return TxType(s), true
	}
	return "", false
}

// ParseDivision returns the typed value for a wire string, or false when the
// value is outside the closed set.
func ParseDivision(s string) (Division, bool) {
	switch Division(s) {
	case Office, Personal:
		return Division(s), true
	}
	return "", false
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks a candidate transaction against the field constraints.
// It is a pure function of the candidate; ID and CreatedAt are ignored
// because they belong to the store, not the client.
func (t Transaction) Validate() error {
	if _, ok := ParseTxType(string(t.Type)); !ok {
		return &ValidationError{Field: "type", Reason: "must be one of income, expense, transfer"}
	}
	if err := t.Amount.Validate(); err != nil {
		return &ValidationError{Field: "amount", Reason: "must be a positive amount"}
	}
	if strings.TrimSpace(t.Description) == "" {
		return &ValidationError{Field: "description", Reason: "required"}
	}
	if strings.TrimSpace(t.Category) == "" {
		return &ValidationError{Field: "category", Reason: "required"}
	}
	if _, ok := ParseDivision(string(t.Division)); !ok {
		return &ValidationError{Field: "division", Reason: "must be one of Office, Personal"}
	}
	if t.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	// FromAccount and ToAccount stay optional for every type. A transfer is
	// allowed to carry a single leg; DeriveBalances handles that case.
	return nil
}
