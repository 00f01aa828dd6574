package http

import (
	"encoding/json"
	"io"
	"time"

	"ledger/internal/core"
	"ledger/internal/services"
)

// transactionJSON is the wire form of a transaction. Amounts travel as
// plain decimal numbers, timestamps as ISO-8601.
type transactionJSON struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Division    string      `json:"division"`
	Date        string      `json:"date"`
	CreatedAt   string      `json:"createdAt"`
	FromAccount string      `json:"fromAccount,omitempty"`
	ToAccount   string      `json:"toAccount,omitempty"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      json.Number(core.FormatCents(tx.Amount.Cents)),
		Description: tx.Description,
		Category:    tx.Category,
		Division:    string(tx.Division),
		Date:        tx.Date.UTC().Format(time.RFC3339),
		CreatedAt:   tx.CreatedAt.UTC().Format(time.RFC3339),
		FromAccount: tx.FromAccount,
		ToAccount:   tx.ToAccount,
	}
}

// createRequest is the candidate body for POST /api/transactions. The
// client never supplies id or createdAt; the store assigns both.
type createRequest struct {
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Division    string      `json:"division"`
	Date        string      `json:"date"`
	FromAccount string      `json:"fromAccount"`
	ToAccount   string      `json:"toAccount"`
}

func parseCreateRequest(body io.Reader) (core.Transaction, error) {
	var req createRequest
	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return core.Transaction{}, &core.ValidationError{Field: "body", Reason: "must be a valid JSON object"}
	}

	var tx core.Transaction
	// Type and division pass through as-is; Validate names the field when
	// the value is outside the closed set.
	tx.Type = core.TxType(req.Type)
	tx.Division = core.Division(req.Division)
	tx.Description = req.Description
	tx.Category = req.Category
	tx.FromAccount = req.FromAccount
	tx.ToAccount = req.ToAccount

	if req.Amount != "" {
		cents, err := core.ParseDecimalToCents(req.Amount.String())
		if err != nil {
			return core.Transaction{}, &core.ValidationError{Field: "amount", Reason: "must be a positive decimal number"}
		}
		tx.Amount = core.Money{Cents: cents}
	}

	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return core.Transaction{}, &core.ValidationError{Field: "date", Reason: "must be an ISO-8601 timestamp or YYYY-MM-DD"}
		}
		tx.Date = date
	}

	return tx, nil
}

// updateRequest is the partial body for PUT /api/transactions/{id}. Absent
// fields keep their stored values, so every field is a pointer.
type updateRequest struct {
	Type        *string      `json:"type"`
	Amount      *json.Number `json:"amount"`
	Description *string      `json:"description"`
	Category    *string      `json:"category"`
	Division    *string      `json:"division"`
	Date        *string      `json:"date"`
	FromAccount *string      `json:"fromAccount"`
	ToAccount   *string      `json:"toAccount"`
}

func parseUpdateRequest(body io.Reader) (services.Patch, error) {
	var req updateRequest
	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return services.Patch{}, &core.ValidationError{Field: "body", Reason: "must be a valid JSON object"}
	}

	var patch services.Patch
	if req.Type != nil {
		t, ok := core.ParseTxType(*req.Type)
		if !ok {
			return services.Patch{}, &core.ValidationError{Field: "type", Reason: "must be one of income, expense, transfer"}
		}
		patch.Type = &t
	}
	if req.Amount != nil {
		cents, err := core.ParseDecimalToCents(req.Amount.String())
		if err != nil {
			return services.Patch{}, &core.ValidationError{Field: "amount", Reason: "must be a positive decimal number"}
		}
		patch.Amount = &core.Money{Cents: cents}
	}
	if req.Description != nil {
		patch.Description = req.Description
	}
	if req.Category != nil {
		patch.Category = req.Category
	}
	if req.Division != nil {
		d, ok := core.ParseDivision(*req.Division)
		if !ok {
			return services.Patch{}, &core.ValidationError{Field: "division", Reason: "must be one of Office, Personal"}
		}
		patch.Division = &d
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return services.Patch{}, &core.ValidationError{Field: "date", Reason: "must be an ISO-8601 timestamp or YYYY-MM-DD"}
		}
		patch.Date = &date
	}
	if req.FromAccount != nil {
		patch.FromAccount = req.FromAccount
	}
	if req.ToAccount != nil {
		patch.ToAccount = req.ToAccount
	}
	return patch, nil
}

// parseListFilter builds the filter from query parameters. Absent
// parameters leave the corresponding constraint at its zero value.
func parseListFilter(get func(string) string) (core.Filter, error) {
	f := core.Filter{Category: get("category")}
	if v := get("division"); v != "" {
		d, ok := core.ParseDivision(v)
		if !ok {
			return core.Filter{}, &core.ValidationError{Field: "division", Reason: "must be one of Office, Personal"}
		}
		f.Division = d
	}
	if v := get("type"); v != "" {
		t, ok := core.ParseTxType(v)
		if !ok {
			return core.Filter{}, &core.ValidationError{Field: "type", Reason: "must be one of income, expense, transfer"}
		}
		f.Type = t
	}
	if v := get("startDate"); v != "" {
		from, err := parseDate(v)
		if err != nil {
			return core.Filter{}, &core.ValidationError{Field: "startDate", Reason: "must be an ISO-8601 timestamp or YYYY-MM-DD"}
		}
		f.DateFrom = from
	}
	if v := get("endDate"); v != "" {
		to, err := parseDate(v)
		if err != nil {
			return core.Filter{}, &core.ValidationError{Field: "endDate", Reason: "must be an ISO-8601 timestamp or YYYY-MM-DD"}
		}
		f.DateTo = to
	}
	return f, nil
}
