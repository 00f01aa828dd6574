package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"ledger/internal/core"
	applog "ledger/internal/log"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := parseCreateRequest(r.Body)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	stored, err := s.svc.CreateTransaction(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create transaction failed",
			applog.FieldError, err,
			applog.FieldTxType, tx.Type,
			applog.FieldCategory, tx.Category)
		writeDomainError(w, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusCreated, toTransactionJSON(stored))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := parseListFilter(r.URL.Query().Get)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	txs, err := s.svc.ListTransactions(r.Context(), f)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", applog.FieldError, err)
		writeDomainError(w, err)
		return
	}

	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionJSON(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	patch, err := parseUpdateRequest(r.Body)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	updated, err := s.svc.UpdateTransaction(r.Context(), id, patch)
	if err != nil {
		slog.ErrorContext(r.Context(), "Update transaction failed",
			applog.FieldError, err,
			applog.FieldTransactionID, id)
		writeDomainError(w, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, toTransactionJSON(updated))
}

type periodBucketJSON struct {
	Period string          `json:"period"`
	Totals []typeTotalJSON `json:"totals"`
}

type typeTotalJSON struct {
	Type        string      `json:"type"`
	TotalAmount json.Number `json:"totalAmount"`
}

func (s *Server) handlePeriodSummary(w http.ResponseWriter, r *http.Request) {
	// Unknown or absent groupBy falls back to month.
	g, ok := core.ParseGranularity(r.URL.Query().Get("groupBy"))
	if !ok {
		g = core.Month
	}

	key := string(g)
	buckets, cached := s.summaryCache.Get(key)
	if !cached {
		var err error
		buckets, err = s.svc.PeriodSummary(r.Context(), g)
		if err != nil {
			slog.ErrorContext(r.Context(), "Period summary failed", applog.FieldError, err)
			writeDomainError(w, err)
			return
		}
		s.summaryCache.Set(key, buckets)
	}

	out := make([]periodBucketJSON, 0, len(buckets))
	for _, b := range buckets {
		totals := make([]typeTotalJSON, 0, len(b.Totals))
		for _, t := range b.Totals {
			totals = append(totals, typeTotalJSON{
				Type:        string(t.Type),
				TotalAmount: json.Number(core.FormatCents(t.Total.Cents)),
			})
		}
		out = append(out, periodBucketJSON{Period: b.Period, Totals: totals})
	}
	writeJSON(w, http.StatusOK, out)
}

type categoryTotalJSON struct {
	Category    string      `json:"category"`
	Type        string      `json:"type"`
	TotalAmount json.Number `json:"totalAmount"`
}

func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	totals, err := s.svc.CategorySummary(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category summary failed", applog.FieldError, err)
		writeDomainError(w, err)
		return
	}

	out := make([]categoryTotalJSON, 0, len(totals))
	for _, t := range totals {
		out = append(out, categoryTotalJSON{
			Category:    t.Category,
			Type:        string(t.Type),
			TotalAmount: json.Number(core.FormatCents(t.Total.Cents)),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type accountBalanceJSON struct {
	Account string      `json:"account"`
	Balance json.Number `json:"balance"`
}

func (s *Server) handleAccountBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.svc.AccountBalances(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Account balances failed", applog.FieldError, err)
		writeDomainError(w, err)
		return
	}

	out := make([]accountBalanceJSON, 0, len(balances))
	for account, balance := range balances {
		out = append(out, accountBalanceJSON{
			Account: account,
			Balance: json.Number(core.FormatCents(balance.Cents)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Account < out[j].Account })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	if !s.seedEnabled {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	n, err := s.svc.Seed(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Seed failed", applog.FieldError, err)
		writeDomainError(w, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, map[string]int{"inserted": n})
}
