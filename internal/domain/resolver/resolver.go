// Package resolver turns opaque entity references into live records,
// restricting them to expected kinds and to the requesting owner.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"smtm/internal/domain/store"
	"smtm/internal/models"
)

var (
	ErrMalformedKey = models.ErrMalformedKey
	ErrKindMismatch = errors.New("key kind not allowed")
	ErrNotFound     = errors.New("entity not found")
	// ErrForbidden must reach callers looking exactly like ErrNotFound.
	ErrForbidden = errors.New("entity belongs to another owner")
)

// Resolve decodes ref and loads the record it addresses.
// An empty kinds accepts any kind; an empty owner skips the ownership check.
func Resolve(ctx context.Context, r store.Reader, ref string, kinds []models.Kind, owner string) (models.Entity, error) {
	k, err := models.ParseKey(ref)
	if err != nil {
		return nil, err
	}

	if len(kinds) > 0 && !slices.Contains(kinds, k.Kind) {
		return nil, fmt.Errorf("%w: %s", ErrKindMismatch, k.Kind)
	}

	e, err := models.NewEntity(k.Kind)
	if err != nil {
		return nil, err
	}

	if err := r.Get(ctx, k, e); err != nil {
		if errors.Is(err, store.ErrNoSuchEntity) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load %s: %w", k, err)
	}

	if owner != "" && e.Owner() != owner {
		return nil, ErrForbidden
	}

	return e, nil
}

// Account resolves ref to an Account owned by owner.
func Account(ctx context.Context, r store.Reader, ref, owner string) (*models.Account, error) {
	e, err := Resolve(ctx, r, ref, []models.Kind{models.KindAccount}, owner)
	if err != nil {
		return nil, err
	}
	return e.(*models.Account), nil
}

// Transaction resolves ref to a Transaction owned by owner.
func Transaction(ctx context.Context, r store.Reader, ref, owner string) (*models.Transaction, error) {
	e, err := Resolve(ctx, r, ref, []models.Kind{models.KindTransaction}, owner)
	if err != nil {
		return nil, err
	}
	return e.(*models.Transaction), nil
}

// Category resolves ref to a Category owned by owner.
func Category(ctx context.Context, r store.Reader, ref, owner string) (*models.Category, error) {
	e, err := Resolve(ctx, r, ref, []models.Kind{models.KindCategory}, owner)
	if err != nil {
		return nil, err
	}
	return e.(*models.Category), nil
}

// CategoryOrSubcategory resolves ref to either a Category or a Subcategory owned by owner.
// The result is a *models.Category or a *models.Subcategory.
func CategoryOrSubcategory(ctx context.Context, r store.Reader, ref, owner string) (models.Entity, error) {
	return Resolve(ctx, r, ref, []models.Kind{models.KindCategory, models.KindSubcategory}, owner)
}

// IsMissing reports whether err means the reference does not lead to a visible record.
// Foreign records count as missing so their existence never leaks.
func IsMissing(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrMalformedKey) ||
		errors.Is(err, ErrKindMismatch)
}
