package resolver

import (
	"context"
	"errors"
	"testing"

	"smtm/internal/infrastructure/memory"
	"smtm/internal/models"
)

type fixture struct {
	store       *memory.Store
	account     *models.Account
	foreign     *models.Account
	category    *models.Category
	subcategory *models.Subcategory
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()

	f := fixture{
		store:    s,
		account:  models.NewAccount("alice", "Checking"),
		foreign:  models.NewAccount("bob", "Checking"),
		category: models.NewCategory("alice", "Food"),
	}
	for _, e := range []models.Entity{f.account, f.foreign, f.category} {
		if _, err := s.Put(ctx, e); err != nil {
			t.Fatalf("Put() failed: %v", err)
		}
	}

	f.subcategory = models.NewSubcategory("alice", f.category.Key(), "Groceries")
	if _, err := s.Put(ctx, f.subcategory); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	return f
}

func TestResolve(t *testing.T) {
	f := newFixture(t)
	missing := models.Key{Kind: models.KindAccount, ID: "missing"}.Encode()

	tests := []struct {
		name    string
		ref     string
		kinds   []models.Kind
		owner   string
		wantErr error
	}{
		{"Owned Account", f.account.Key().Encode(), []models.Kind{models.KindAccount}, "alice", nil},
		{"Any Kind", f.category.Key().Encode(), nil, "alice", nil},
		{"No Owner Check", f.foreign.Key().Encode(), []models.Kind{models.KindAccount}, "", nil},
		{"Malformed", "garbage!", nil, "alice", ErrMalformedKey},
		{"Unaddressable ID", models.Key{Kind: models.KindAccount, ID: "a/b"}.Encode(), nil, "alice", ErrMalformedKey},
		{"Kind Mismatch", f.category.Key().Encode(), []models.Kind{models.KindAccount}, "alice", ErrKindMismatch},
		{"Not Found", missing, []models.Kind{models.KindAccount}, "alice", ErrNotFound},
		{"Foreign Owner", f.foreign.Key().Encode(), []models.Kind{models.KindAccount}, "alice", ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Resolve(context.Background(), f.store, tt.ref, tt.kinds, tt.owner)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				if !IsMissing(err) {
					t.Errorf("IsMissing(%v) = false, want true", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() failed: %v", err)
			}
			if e.Key().Encode() != tt.ref {
				t.Errorf("resolved key = %s, want %s", e.Key().Encode(), tt.ref)
			}
		})
	}
}

func TestResolve_KindCheckedBeforeFetch(t *testing.T) {
	f := newFixture(t)
	// A key for a record that does not exist, but of the wrong kind: the kind wins.
	ref := models.Key{Kind: models.KindPlace, ID: "nowhere"}.Encode()

	_, err := Resolve(context.Background(), f.store, ref, []models.Kind{models.KindAccount}, "alice")
	if !errors.Is(err, ErrKindMismatch) {
		t.Errorf("Resolve() error = %v, want %v", err, ErrKindMismatch)
	}
}

func TestCategoryOrSubcategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := CategoryOrSubcategory(ctx, f.store, f.category.Key().Encode(), "alice")
	if err != nil {
		t.Fatalf("CategoryOrSubcategory(category) failed: %v", err)
	}
	if _, ok := e.(*models.Category); !ok {
		t.Errorf("got %T, want *models.Category", e)
	}

	e, err = CategoryOrSubcategory(ctx, f.store, f.subcategory.Key().Encode(), "alice")
	if err != nil {
		t.Fatalf("CategoryOrSubcategory(subcategory) failed: %v", err)
	}
	sub, ok := e.(*models.Subcategory)
	if !ok {
		t.Fatalf("got %T, want *models.Subcategory", e)
	}
	if sub.Parent != f.category.Key().Encode() {
		t.Errorf("Parent = %s, want %s", sub.Parent, f.category.Key().Encode())
	}

	_, err = CategoryOrSubcategory(ctx, f.store, f.account.Key().Encode(), "alice")
	if !errors.Is(err, ErrKindMismatch) {
		t.Errorf("CategoryOrSubcategory(account) error = %v, want %v", err, ErrKindMismatch)
	}
}

func TestAccount(t *testing.T) {
	f := newFixture(t)

	acc, err := Account(context.Background(), f.store, f.account.Key().Encode(), "alice")
	if err != nil {
		t.Fatalf("Account() failed: %v", err)
	}
	if acc.Name != "Checking" || acc.UserID != "alice" {
		t.Errorf("Account() = %+v", acc)
	}

	if _, err := Account(context.Background(), f.store, f.foreign.Key().Encode(), "alice"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Account(foreign) error = %v, want %v", err, ErrForbidden)
	}
}
