package store

import (
	"context"
	"errors"

	"smtm/internal/models"
)

// ErrNoSuchEntity is returned by Get when no record exists at the key.
var ErrNoSuchEntity = errors.New("no such entity")

// Filter matches records whose top-level string field equals Value.
type Filter struct {
	Field string
	Value string
}

// Query selects all records of one kind matching every filter.
type Query struct {
	Kind    models.Kind
	Filters []Filter
}

// NewQuery starts a query over kind.
func NewQuery(kind models.Kind) Query {
	return Query{Kind: kind}
}

// Where returns a copy of q with an additional equality filter.
func (q Query) Where(field, value string) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, Filter{Field: field, Value: value})
	return q
}

// Reader is the read half of the store.
type Reader interface {
	// Get loads the record at k into dst and sets dst's key.
	Get(ctx context.Context, k models.Key, dst models.Entity) error

	// Query returns the matching records with their keys set.
	Query(ctx context.Context, q Query) ([]models.Entity, error)
}

// Store is the entity store adapter. Implementations live in the infrastructure layer.
type Store interface {
	Reader

	// Put writes e, allocating an ID when its key is incomplete, and returns the final key.
	Put(ctx context.Context, e models.Entity) (models.Key, error)

	// Delete removes the record at k. Deleting a missing record is not an error.
	Delete(ctx context.Context, k models.Key) error

	// RunInTransaction runs fn against a transactional view of the store.
	// Writes made through that view commit only if fn returns nil.
	// Callers perform all reads before the first write.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
