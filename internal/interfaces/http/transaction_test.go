package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"smtm/internal/domain/category"
	"smtm/internal/models"
)

func createTransaction(t *testing.T, env *testEnv, owner string, body any) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	env.transactionH.HandleTransactions(rr, newRequest(t, http.MethodPost, "/api/transactions", owner, body))
	return rr
}

func TestHandleTransactions_CreateRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	acc := env.mustAccount(t, "alice", "Checking", 0)
	accKey := acc.Key().Encode()

	cat, err := category.NewService(env.store).Create(context.Background(), "alice", "Food", "")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	sub, err := category.NewService(env.store).Create(context.Background(), "alice", "Groceries", cat.Key().Encode())
	if err != nil {
		t.Fatalf("create subcategory: %v", err)
	}

	first := createTransaction(t, env, "alice", map[string]any{"date": "2024-03-01", "amount": -200, "account": accKey})
	if first.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %q)", first.Code, http.StatusCreated, first.Body.String())
	}
	pairKey := decodeBody[TransactionResponse](t, first).Key

	body := map[string]any{
		"date":        "2024-03-02",
		"amount":      -1250,
		"account":     accKey,
		"payeer":      "Corner Shop",
		"description": "weekly shop",
		"pair":        pairKey,
		"category":    sub.Key().Encode(),
	}
	rr := createTransaction(t, env, "alice", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %q)", rr.Code, http.StatusCreated, rr.Body.String())
	}
	created := decodeBody[TransactionResponse](t, rr)
	if got, want := rr.Header().Get("Location"), "/api/transaction/"+created.Key; got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}

	req := newRequest(t, http.MethodGet, "/api/transaction/x", "alice", nil)
	req.SetPathValue("key", created.Key)
	get := httptest.NewRecorder()
	env.transactionH.HandleTransactionByKey(get, req)
	if get.Code != http.StatusOK {
		t.Fatalf("get status = %d, want %d", get.Code, http.StatusOK)
	}
	got := decodeBody[TransactionResponse](t, get)

	if got.Key != created.Key || got.Date != "2024-03-02" || got.Amount != -1250 || got.Account != accKey {
		t.Errorf("got = %+v", got)
	}
	checks := map[string]*string{
		"Corner Shop":      got.Payee,
		"weekly shop":      got.Description,
		pairKey:            got.Pair,
		sub.Key().Encode(): got.Category,
	}
	for want, field := range checks {
		if field == nil || *field != want {
			t.Errorf("field = %v, want %q", field, want)
		}
	}
}

func TestHandleTransactions_OmitsAbsentOptionals(t *testing.T) {
	env := newTestEnv(t)
	acc := env.mustAccount(t, "alice", "Checking", 0)

	rr := createTransaction(t, env, "alice", map[string]any{"date": "2024-03-01", "amount": 1, "account": acc.Key().Encode()})

	raw := decodeBody[map[string]any](t, rr)
	for _, field := range []string{"payeer", "description", "pair", "category"} {
		if _, ok := raw[field]; ok {
			t.Errorf("field %q present, want omitted", field)
		}
	}
}

func TestHandleTransactions_CreateMalformed(t *testing.T) {
	env := newTestEnv(t)
	acc := env.mustAccount(t, "alice", "Checking", 0)
	foreign := env.mustAccount(t, "bob", "Bob's", 0)
	cat, err := category.NewService(env.store).Create(context.Background(), "alice", "Food", "")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	accKey := acc.Key().Encode()

	tests := []struct {
		name string
		body any
	}{
		{"invalid calendar date", map[string]any{"date": "2024-13-40", "amount": 1, "account": accKey}},
		{"missing date", map[string]any{"amount": 1, "account": accKey}},
		{"missing amount", map[string]any{"date": "2024-01-01", "account": accKey}},
		{"missing account", map[string]any{"date": "2024-01-01", "amount": 1}},
		{"category as account", map[string]any{"date": "2024-01-01", "amount": 1, "account": cat.Key().Encode()}},
		{"foreign account", map[string]any{"date": "2024-01-01", "amount": 1, "account": foreign.Key().Encode()}},
		{"garbage account", map[string]any{"date": "2024-01-01", "amount": 1, "account": "!!"}},
		{"account as pair", map[string]any{"date": "2024-01-01", "amount": 1, "account": accKey, "pair": accKey}},
		{"account as category", map[string]any{"date": "2024-01-01", "amount": 1, "account": accKey, "category": accKey}},
		{"string amount", `{"date":"2024-01-01","amount":"1","account":"` + accKey + `"}`},
		{"bad json", "{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := env.store.Len(models.KindTransaction)

			rr := createTransaction(t, env, "alice", tt.body)

			assertError(t, rr, http.StatusBadRequest, msgMalformed)
			if after := env.store.Len(models.KindTransaction); after != before {
				t.Errorf("transactions stored = %d, want %d", after, before)
			}
		})
	}
}

func TestHandleTransactions_List(t *testing.T) {
	env := newTestEnv(t)
	checking := env.mustAccount(t, "alice", "Checking", 100)
	savings := env.mustAccount(t, "alice", "Savings", 200)

	for _, date := range []string{"2024-03-10", "2024-01-05"} {
		rr := createTransaction(t, env, "alice", map[string]any{"date": date, "amount": 1, "account": checking.Key().Encode()})
		if rr.Code != http.StatusCreated {
			t.Fatalf("create: %d %s", rr.Code, rr.Body.String())
		}
	}

	list := func(target string) TransactionListResponse {
		rr := httptest.NewRecorder()
		env.transactionH.HandleTransactions(rr, newRequest(t, http.MethodGet, target, "alice", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("list %s: status = %d", target, rr.Code)
		}
		return decodeBody[TransactionListResponse](t, rr)
	}

	all := list("/api/transactions")
	if len(all.Transactions) != 4 {
		t.Fatalf("all = %d, want 4", len(all.Transactions))
	}

	filtered := list("/api/transactions?account=" + checking.Key().Encode())
	dates := make([]string, 0, len(filtered.Transactions))
	for _, tx := range filtered.Transactions {
		dates = append(dates, tx.Date)
	}
	want := []string{"2024-01-05", "2024-03-10", "2024-03-15"}
	if len(dates) != len(want) {
		t.Fatalf("dates = %v, want %v", dates, want)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Errorf("dates = %v, want %v", dates, want)
			break
		}
	}

	if got := list("/api/transactions?account=" + savings.Key().Encode()); len(got.Transactions) != 1 {
		t.Errorf("savings = %d, want 1", len(got.Transactions))
	}
}

func TestHandleTransactions_ForeignFilterIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	foreign := env.mustAccount(t, "bob", "Bob's", 100)

	rr := httptest.NewRecorder()
	env.transactionH.HandleTransactions(rr, newRequest(t, http.MethodGet, "/api/transactions?account="+foreign.Key().Encode(), "alice", nil))

	assertError(t, rr, http.StatusNotFound, msgNotFound)
}

func TestHandleTransactionByKey(t *testing.T) {
	env := newTestEnv(t)
	acc := env.mustAccount(t, "alice", "Checking", 0)
	rr := createTransaction(t, env, "alice", map[string]any{"date": "2024-03-01", "amount": 5, "account": acc.Key().Encode()})
	key := decodeBody[TransactionResponse](t, rr).Key

	tests := []struct {
		name    string
		method  string
		ref     string
		owner   string
		status  int
		message string
	}{
		{"foreign get", http.MethodGet, key, "bob", http.StatusNotFound, msgNotFound},
		{"foreign delete", http.MethodDelete, key, "bob", http.StatusNotFound, msgNotFound},
		{"account key", http.MethodGet, acc.Key().Encode(), "alice", http.StatusNotFound, msgNotFound},
		{"malformed key", http.MethodGet, "%%%", "alice", http.StatusNotFound, msgNotFound},
		{"no update", http.MethodPut, key, "alice", http.StatusMethodNotAllowed, msgMethodNotAllowed},
		{"unauthenticated", http.MethodGet, key, "", http.StatusBadRequest, msgNotAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, tt.method, "/api/transaction/x", tt.owner, nil)
			req.SetPathValue("key", tt.ref)
			rr := httptest.NewRecorder()

			env.transactionH.HandleTransactionByKey(rr, req)

			assertError(t, rr, tt.status, tt.message)
		})
	}

	req := newRequest(t, http.MethodDelete, "/api/transaction/x", "alice", nil)
	req.SetPathValue("key", key)
	del := httptest.NewRecorder()
	env.transactionH.HandleTransactionByKey(del, req)
	if del.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want %d", del.Code, http.StatusNoContent)
	}

	if _, err := env.transactions.Get(context.Background(), "alice", key); err == nil {
		t.Error("transaction still present after delete")
	}
}
