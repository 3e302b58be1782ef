package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"smtm/internal/domain/account"
	"smtm/internal/domain/store"
	"smtm/internal/domain/transaction"
	"smtm/internal/infrastructure/memory"
	"smtm/internal/models"
	"smtm/internal/shared/auth"
	"smtm/internal/shared/middleware"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	store        *memory.Store
	accounts     *account.Service
	transactions *transaction.Service
	accountH     *AccountHandler
	transactionH *TransactionHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, memory.NewStore())
}

func newTestEnvWithStore(t *testing.T, s store.Store) *testEnv {
	t.Helper()

	accounts := account.NewService(s)
	accounts.SetClock(func() time.Time { return fixedNow })
	transactions := transaction.NewService(s)

	env := &testEnv{
		accounts:     accounts,
		transactions: transactions,
		accountH:     NewAccountHandler(accounts, zap.NewNop()),
		transactionH: NewTransactionHandler(transactions, zap.NewNop()),
	}
	if ms, ok := s.(*memory.Store); ok {
		env.store = ms
	}
	return env
}

func (e *testEnv) mustAccount(t *testing.T, owner, name string, balance int64) *models.Account {
	t.Helper()
	acc, err := e.accounts.Create(context.Background(), owner, account.CreateParams{Name: name, Balance: balance})
	if err != nil {
		t.Fatalf("create account %q: %v", name, err)
	}
	return acc
}

// newRequest builds a request as the given user; an empty owner sends it unauthenticated.
func newRequest(t *testing.T, method, target, owner string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	if owner != "" {
		req = req.WithContext(middleware.WithIdentity(req.Context(), &auth.Identity{UserID: owner}))
	}
	return req
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rr.Code != status {
		t.Errorf("status = %d, want %d (body %q)", rr.Code, status, rr.Body.String())
		return
	}
	if got := decodeBody[errorResponse](t, rr).Error; got != message {
		t.Errorf("error = %q, want %q", got, message)
	}
}

// MockStore implements store.Store with overridable funcs for failure paths.
type MockStore struct {
	GetFunc    func(ctx context.Context, k models.Key, dst models.Entity) error
	QueryFunc  func(ctx context.Context, q store.Query) ([]models.Entity, error)
	PutFunc    func(ctx context.Context, e models.Entity) (models.Key, error)
	DeleteFunc func(ctx context.Context, k models.Key) error
}

func (m *MockStore) Get(ctx context.Context, k models.Key, dst models.Entity) error {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, k, dst)
	}
	return store.ErrNoSuchEntity
}

func (m *MockStore) Query(ctx context.Context, q store.Query) ([]models.Entity, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, q)
	}
	return nil, nil
}

func (m *MockStore) Put(ctx context.Context, e models.Entity) (models.Key, error) {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, e)
	}
	return e.Key(), nil
}

func (m *MockStore) Delete(ctx context.Context, k models.Key) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, k)
	}
	return nil
}

func (m *MockStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return fn(ctx, m)
}
