package account

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"smtm/internal/domain/resolver"
	"smtm/internal/domain/store"
	"smtm/internal/models"
)

// OpeningDescription labels the transaction created alongside a new account.
const OpeningDescription = "Initial balance"

// Service contains the business logic for account operations
type Service struct {
	store store.Store
	now   func() time.Time
}

// NewService creates a new account service
func NewService(s store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// SetClock overrides the time source used to date opening transactions.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateParams contains parameters for creating a new account
type CreateParams struct {
	Name    string
	Balance int64
}

func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return nil
}

// List returns the owner's accounts ordered by name.
func (s *Service) List(ctx context.Context, owner string) ([]*models.Account, error) {
	return listByOwner(ctx, s.store, owner)
}

// Create stores a new account together with its opening balance transaction.
// Both writes commit atomically.
func (s *Service) Create(ctx context.Context, owner string, params CreateParams) (*models.Account, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var created *models.Account
	err := s.store.RunInTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		existing, err := findByName(ctx, tx, owner, params.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAccountExists
		}

		acc := models.NewAccount(owner, params.Name)
		accKey, err := tx.Put(ctx, acc)
		if err != nil {
			return fmt.Errorf("failed to store account: %w", err)
		}

		desc := OpeningDescription
		opening := models.NewTransaction(owner)
		opening.Date = civil.DateOf(s.now().UTC()).String()
		opening.Amount = params.Balance
		opening.Account = accKey.Encode()
		opening.Description = &desc
		if _, err := tx.Put(ctx, opening); err != nil {
			return fmt.Errorf("failed to store opening transaction: %w", err)
		}

		created = acc
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Get returns the owner's account addressed by ref.
func (s *Service) Get(ctx context.Context, owner, ref string) (*models.Account, error) {
	return lookup(ctx, s.store, owner, ref)
}

// Rename changes an account's name, keeping names unique per owner.
func (s *Service) Rename(ctx context.Context, owner, ref, name string) (*models.Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	var renamed *models.Account
	err := s.store.RunInTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		acc, err := lookup(ctx, tx, owner, ref)
		if err != nil {
			return err
		}

		if acc.Name != name {
			clash, err := findByName(ctx, tx, owner, name)
			if err != nil {
				return err
			}
			if clash != nil && clash.Key() != acc.Key() {
				return ErrNameConflict
			}

			acc.Name = name
			if _, err := tx.Put(ctx, acc); err != nil {
				return fmt.Errorf("failed to store account: %w", err)
			}
		}

		renamed = acc
		return nil
	})
	if err != nil {
		return nil, err
	}

	return renamed, nil
}

// Delete removes the owner's account. Its transactions are left in place.
func (s *Service) Delete(ctx context.Context, owner, ref string) error {
	acc, err := lookup(ctx, s.store, owner, ref)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, acc.Key()); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// lookup resolves ref as an opaque key, or as an account name when it is not one.
func lookup(ctx context.Context, r store.Reader, owner, ref string) (*models.Account, error) {
	acc, err := resolver.Account(ctx, r, ref, owner)
	if errors.Is(err, models.ErrMalformedKey) {
		acc, err = findByName(ctx, r, owner, ref)
		if err == nil && acc == nil {
			err = resolver.ErrNotFound
		}
	}

	if err != nil {
		if resolver.IsMissing(err) {
			return nil, fmt.Errorf("%w: %w", ErrAccountNotFound, err)
		}
		return nil, err
	}
	return acc, nil
}

func findByName(ctx context.Context, r store.Reader, owner, name string) (*models.Account, error) {
	q := store.NewQuery(models.KindAccount).
		Where(models.FieldUser, owner).
		Where(models.FieldName, name)

	results, err := r.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0].(*models.Account), nil
}

func listByOwner(ctx context.Context, r store.Reader, owner string) ([]*models.Account, error) {
	results, err := r.Query(ctx, store.NewQuery(models.KindAccount).Where(models.FieldUser, owner))
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make([]*models.Account, 0, len(results))
	for _, e := range results {
		accounts = append(accounts, e.(*models.Account))
	}
	sort.SliceStable(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}
