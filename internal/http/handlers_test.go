package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ledger/internal/core"
	"ledger/internal/services"
)

type fakeService struct {
	created   []core.Transaction
	listed    []core.Transaction
	gotFilter core.Filter
	gotPatch  services.Patch
	gotID     string
	buckets   []core.PeriodBucket
	gotGroup  core.Granularity
	cats      []core.CategoryTotal
	balances  map[string]core.Money
	seeded    int
	err       error
}

func (f *fakeService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if f.err != nil {
		return core.Transaction{}, f.err
	}
	tx.ID = "tx-1"
	tx.CreatedAt = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	f.created = append(f.created, tx)
	return tx, nil
}

func (f *fakeService) ListTransactions(ctx context.Context, flt core.Filter) ([]core.Transaction, error) {
	f.gotFilter = flt
	return f.listed, f.err
}

func (f *fakeService) UpdateTransaction(ctx context.Context, id string, patch services.Patch) (core.Transaction, error) {
	f.gotID = id
	f.gotPatch = patch
	if f.err != nil {
		return core.Transaction{}, f.err
	}
	return core.Transaction{ID: id, Type: core.Expense, Amount: core.Money{Cents: 100}, Description: "x", Category: "Food", Division: core.Personal, Date: time.Now(), CreatedAt: time.Now()}, nil
}

func (f *fakeService) PeriodSummary(ctx context.Context, g core.Granularity) ([]core.PeriodBucket, error) {
	f.gotGroup = g
	return f.buckets, f.err
}

func (f *fakeService) CategorySummary(ctx context.Context) ([]core.CategoryTotal, error) {
	return f.cats, f.err
}

func (f *fakeService) AccountBalances(ctx context.Context) (map[string]core.Money, error) {
	return f.balances, f.err
}

func (f *fakeService) Seed(ctx context.Context) (int, error) {
	return f.seeded, f.err
}

func doRequest(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv := NewServer(":0", &fakeService{}, false)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doRequest(srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestCreateTransaction(t *testing.T) {
	svc := &fakeService{}
	srv := NewServer(":0", svc, false)

	body := `{"type":"expense","amount":"12.50","description":"Lunch","category":"Food","division":"Personal","date":"2024-06-01","fromAccount":"Bank"}`
	rr := doRequest(srv, http.MethodPost, "/api/transactions", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var got transactionJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != "tx-1" || got.Amount != "12.50" || got.Type != "expense" {
		t.Fatalf("unexpected response: %+v", got)
	}
	if len(svc.created) != 1 || svc.created[0].Amount.Cents != 1250 {
		t.Fatalf("service received %+v", svc.created)
	}
}

func TestCreateTransactionInvalidAmount(t *testing.T) {
	srv := NewServer(":0", &fakeService{}, false)

	for _, amount := range []string{`"0"`, `"-5"`, `"abc"`} {
		body := `{"type":"expense","amount":` + amount + `,"description":"x","category":"Food","division":"Personal","date":"2024-06-01"}`
		rr := doRequest(srv, http.MethodPost, "/api/transactions", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("amount %s: expected 400, got %d", amount, rr.Code)
		}
	}
}

func TestMalformedBodyRejected(t *testing.T) {
	srv := NewServer(":0", &fakeService{}, false)

	for _, body := range []string{"{", "not json", `{"type":`} {
		rr := doRequest(srv, http.MethodPost, "/api/transactions", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("POST body %q: expected 400, got %d", body, rr.Code)
		}
		rr = doRequest(srv, http.MethodPut, "/api/transactions/abc", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("PUT body %q: expected 400, got %d", body, rr.Code)
		}
	}
}

func TestCreateTransactionValidationError(t *testing.T) {
	svc := &fakeService{err: &core.ValidationError{Field: "category", Reason: "must not be empty"}}
	srv := NewServer(":0", svc, false)

	body := `{"type":"expense","amount":"1.00","description":"x","category":"","division":"Personal","date":"2024-06-01"}`
	rr := doRequest(srv, http.MethodPost, "/api/transactions", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "category") {
		t.Fatalf("error body should name the field: %s", rr.Body.String())
	}
}

func TestListTransactionsFilterPassthrough(t *testing.T) {
	svc := &fakeService{listed: []core.Transaction{}}
	srv := NewServer(":0", svc, false)

	rr := doRequest(srv, http.MethodGet, "/api/transactions?division=Office&category=Food&type=expense&startDate=2024-01-01&endDate=2024-06-30", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d: %s", rr.Code, rr.Body.String())
	}
	if rr.Body.String() != "[]\n" {
		t.Fatalf("empty list should encode as []: %q", rr.Body.String())
	}

	f := svc.gotFilter
	if f.Division != core.Office || f.Category != "Food" || f.Type != core.Expense {
		t.Fatalf("filter not forwarded: %+v", f)
	}
	if f.DateFrom.IsZero() || f.DateTo.IsZero() {
		t.Fatalf("date bounds not forwarded: %+v", f)
	}
}

func TestListTransactionsBadFilter(t *testing.T) {
	srv := NewServer(":0", &fakeService{}, false)

	for _, q := range []string{"type=refund", "division=Work", "startDate=tomorrow"} {
		rr := doRequest(srv, http.MethodGet, "/api/transactions?"+q, "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, rr.Code)
		}
	}
}

func TestUpdateTransaction(t *testing.T) {
	svc := &fakeService{}
	srv := NewServer(":0", svc, false)

	rr := doRequest(srv, http.MethodPut, "/api/transactions/abc-123", `{"amount":"9.99","category":"Travel"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d: %s", rr.Code, rr.Body.String())
	}
	if svc.gotID != "abc-123" {
		t.Fatalf("id not forwarded: %q", svc.gotID)
	}
	if svc.gotPatch.Amount == nil || svc.gotPatch.Amount.Cents != 999 {
		t.Fatalf("amount patch not forwarded: %+v", svc.gotPatch)
	}
	if svc.gotPatch.Category == nil || *svc.gotPatch.Category != "Travel" {
		t.Fatalf("category patch not forwarded: %+v", svc.gotPatch)
	}
	if svc.gotPatch.Description != nil {
		t.Fatalf("untouched field should stay nil")
	}
}

func TestUpdateTransactionErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &core.NotFoundError{ID: "abc"}, http.StatusNotFound},
		{"window expired", &core.EditWindowExpiredError{ID: "abc"}, http.StatusForbidden},
		{"store failure", &core.StoreError{Op: "replace", Err: context.DeadlineExceeded}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := NewServer(":0", &fakeService{err: tc.err}, false)
			rr := doRequest(srv, http.MethodPut, "/api/transactions/abc", `{"category":"X"}`)
			if rr.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rr.Code)
			}
		})
	}
}

func TestPeriodSummary(t *testing.T) {
	svc := &fakeService{buckets: []core.PeriodBucket{
		{Period: "2024-06", Totals: []core.TypeTotal{
			{Type: core.Expense, Total: core.Money{Cents: 4500}},
			{Type: core.Income, Total: core.Money{Cents: 100000}},
		}},
	}}
	srv := NewServer(":0", svc, false)

	rr := doRequest(srv, http.MethodGet, "/api/summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if svc.gotGroup != core.Month {
		t.Fatalf("default granularity should be month, got %q", svc.gotGroup)
	}

	var got []periodBucketJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Period != "2024-06" {
		t.Fatalf("unexpected buckets: %+v", got)
	}
	if got[0].Totals[0].Type != "expense" || got[0].Totals[0].TotalAmount != "45.00" {
		t.Fatalf("unexpected totals: %+v", got[0].Totals)
	}
}

func TestPeriodSummaryGroupBy(t *testing.T) {
	svc := &fakeService{}
	srv := NewServer(":0", svc, false)

	doRequest(srv, http.MethodGet, "/api/summary?groupBy=year", "")
	if svc.gotGroup != core.Year {
		t.Fatalf("groupBy=year not forwarded, got %q", svc.gotGroup)
	}

	doRequest(srv, http.MethodGet, "/api/summary?groupBy=week", "")
	if svc.gotGroup != core.Week {
		t.Fatalf("groupBy=week not forwarded, got %q", svc.gotGroup)
	}

	// Unknown values fall back to month rather than erroring.
	doRequest(srv, http.MethodGet, "/api/summary?groupBy=decade", "")
	if svc.gotGroup != core.Month {
		t.Fatalf("unknown groupBy should fall back to month, got %q", svc.gotGroup)
	}
}

func TestPeriodSummaryCached(t *testing.T) {
	svc := &fakeService{buckets: []core.PeriodBucket{{Period: "2024"}}}
	srv := NewServer(":0", svc, false)

	doRequest(srv, http.MethodGet, "/api/summary?groupBy=year", "")
	svc.gotGroup = ""
	doRequest(srv, http.MethodGet, "/api/summary?groupBy=year", "")
	if svc.gotGroup != "" {
		t.Fatalf("second request should be served from cache")
	}

	// A write purges the cache.
	doRequest(srv, http.MethodPost, "/api/transactions", `{"type":"income","amount":"1.00","description":"x","category":"Pay","division":"Office","date":"2024-06-01"}`)
	doRequest(srv, http.MethodGet, "/api/summary?groupBy=year", "")
	if svc.gotGroup != core.Year {
		t.Fatalf("cache should be purged after a write")
	}
}

func TestCategorySummary(t *testing.T) {
	svc := &fakeService{cats: []core.CategoryTotal{
		{Category: "Food", Type: core.Expense, Total: core.Money{Cents: 15000}},
		{Category: "Food", Type: core.Income, Total: core.Money{Cents: 2000}},
	}}
	srv := NewServer(":0", svc, false)

	rr := doRequest(srv, http.MethodGet, "/api/summary/categories", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var got []categoryTotalJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].TotalAmount != "150.00" || got[1].Type != "income" {
		t.Fatalf("unexpected categories: %+v", got)
	}
}

func TestAccountBalances(t *testing.T) {
	svc := &fakeService{balances: map[string]core.Money{
		"Savings": {Cents: 1000000},
		"Bank":    {Cents: 3350000},
	}}
	srv := NewServer(":0", svc, false)

	rr := doRequest(srv, http.MethodGet, "/api/accounts/summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var got []accountBalanceJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Account != "Bank" || got[0].Balance != "33500.00" {
		t.Fatalf("balances should be sorted by account: %+v", got)
	}
}

func TestSeedDisabled(t *testing.T) {
	srv := NewServer(":0", &fakeService{seeded: 5}, false)
	rr := doRequest(srv, http.MethodPost, "/api/dev/seed", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("disabled seed should 404, got %d", rr.Code)
	}
}

func TestSeedEnabled(t *testing.T) {
	srv := NewServer(":0", &fakeService{seeded: 5}, true)
	rr := doRequest(srv, http.MethodPost, "/api/dev/seed", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"inserted":5`) {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}
