package category

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"smtm/internal/domain/resolver"
	"smtm/internal/domain/store"
	"smtm/internal/models"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrParentNotFound = errors.New("parent category not found")
)

// Service manages categories and subcategories.
type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Create stores a Category, or a Subcategory when parentRef is non-empty.
// The parent must be a Category owned by owner.
func (s *Service) Create(ctx context.Context, owner, name, parentRef string) (models.Entity, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	var e models.Entity = models.NewCategory(owner, name)
	if parentRef != "" {
		parent, err := resolver.Category(ctx, s.store, parentRef, owner)
		if err != nil {
			if resolver.IsMissing(err) {
				return nil, fmt.Errorf("%w: %w", ErrParentNotFound, err)
			}
			return nil, err
		}
		e = models.NewSubcategory(owner, parent.Key(), name)
	}

	if _, err := s.store.Put(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to store category: %w", err)
	}
	return e, nil
}

// Tree is a category with its subcategories.
type Tree struct {
	Category      *models.Category
	Subcategories []*models.Subcategory
}

// List returns the owner's categories by name, each with its subcategories.
func (s *Service) List(ctx context.Context, owner string) ([]Tree, error) {
	cats, err := s.store.Query(ctx, store.NewQuery(models.KindCategory).Where(models.FieldUser, owner))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	subs, err := s.store.Query(ctx, store.NewQuery(models.KindSubcategory).Where(models.FieldUser, owner))
	if err != nil {
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}

	byParent := make(map[string][]*models.Subcategory)
	for _, e := range subs {
		sub := e.(*models.Subcategory)
		byParent[sub.Parent] = append(byParent[sub.Parent], sub)
	}

	trees := make([]Tree, 0, len(cats))
	for _, e := range cats {
		c := e.(*models.Category)
		children := byParent[c.Key().Encode()]
		sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
		trees = append(trees, Tree{Category: c, Subcategories: children})
	}
	sort.Slice(trees, func(i, j int) bool { return trees[i].Category.Name < trees[j].Category.Name })
	return trees, nil
}
