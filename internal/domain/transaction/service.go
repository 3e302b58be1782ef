package transaction

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"smtm/internal/domain/resolver"
	"smtm/internal/domain/store"
	"smtm/internal/models"
	"smtm/internal/shared/money"
)

// Service contains the business logic for transaction operations
type Service struct {
	store store.Store
}

// NewService creates a new transaction service
func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// List returns the owner's transactions ordered by date.
// A non-empty accountRef restricts the result to that account, which must be the owner's.
func (s *Service) List(ctx context.Context, owner, accountRef string) ([]*models.Transaction, error) {
	q := store.NewQuery(models.KindTransaction).Where(models.FieldUser, owner)

	if accountRef != "" {
		acc, err := resolver.Account(ctx, s.store, accountRef, owner)
		if err != nil {
			if resolver.IsMissing(err) {
				return nil, fmt.Errorf("%w: %w", ErrAccountNotFound, err)
			}
			return nil, err
		}
		q = q.Where(models.FieldAccount, acc.Key().Encode())
	}

	results, err := s.store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	txs := make([]*models.Transaction, 0, len(results))
	for _, e := range results {
		txs = append(txs, e.(*models.Transaction))
	}
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].Date != txs[j].Date {
			return txs[i].Date < txs[j].Date
		}
		return txs[i].Key().ID < txs[j].Key().ID
	})
	return txs, nil
}

// Recent returns at most n of the owner's transactions, latest dates first.
// Transactions sharing a date keep the reverse of List's order.
func (s *Service) Recent(ctx context.Context, owner string, n int) ([]*models.Transaction, error) {
	txs, err := s.List(ctx, owner, "")
	if err != nil {
		return nil, err
	}

	recent := make([]*models.Transaction, 0, min(n, len(txs)))
	for i := len(txs) - 1; i >= 0 && len(recent) < n; i-- {
		recent = append(recent, txs[i])
	}
	return recent, nil
}

// Balances totals the owner's transactions per encoded account key.
func (s *Service) Balances(ctx context.Context, owner string) (map[string]decimal.Decimal, error) {
	txs, err := s.List(ctx, owner, "")
	if err != nil {
		return nil, err
	}

	amounts := make(map[string][]int64)
	for _, t := range txs {
		amounts[t.Account] = append(amounts[t.Account], t.Amount)
	}

	balances := make(map[string]decimal.Decimal, len(amounts))
	for acc, cents := range amounts {
		balances[acc] = money.Sum(cents...)
	}
	return balances, nil
}

// Create validates params, resolves every reference against the owner and stores the transaction.
// Any unparseable field or unresolvable reference yields ErrMalformed and nothing is stored.
func (s *Service) Create(ctx context.Context, owner string, params CreateParams) (*models.Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	date, err := civil.ParseDate(params.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrMalformed, params.Date)
	}

	t := models.NewTransaction(owner)
	t.Date = date.String()
	t.Amount = *params.Amount
	t.Payee = params.Payee
	t.Description = params.Description

	acc, err := resolver.Account(ctx, s.store, params.Account, owner)
	if err != nil {
		return nil, malformedRef("account", err)
	}
	t.Account = acc.Key().Encode()

	if params.Pair != nil {
		pair, err := resolver.Transaction(ctx, s.store, *params.Pair, owner)
		if err != nil {
			return nil, malformedRef("pair", err)
		}
		ref := pair.Key().Encode()
		t.Pair = &ref
	}

	if params.Category != nil {
		cat, err := resolver.CategoryOrSubcategory(ctx, s.store, *params.Category, owner)
		if err != nil {
			return nil, malformedRef("category", err)
		}
		ref := cat.Key().Encode()
		t.Category = &ref
	}

	if _, err := s.store.Put(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}
	return t, nil
}

// Get returns the owner's transaction addressed by ref.
func (s *Service) Get(ctx context.Context, owner, ref string) (*models.Transaction, error) {
	t, err := resolver.Transaction(ctx, s.store, ref, owner)
	if err != nil {
		if resolver.IsMissing(err) {
			return nil, fmt.Errorf("%w: %w", ErrTransactionNotFound, err)
		}
		return nil, err
	}
	return t, nil
}

// Delete removes the owner's transaction addressed by ref.
func (s *Service) Delete(ctx context.Context, owner, ref string) error {
	t, err := s.Get(ctx, owner, ref)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, t.Key()); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func malformedRef(field string, err error) error {
	if resolver.IsMissing(err) {
		return fmt.Errorf("%w: %s: %w", ErrMalformed, field, err)
	}
	return err
}
