// Package firestoredb stores entities in Cloud Firestore, one collection per kind.
package firestoredb

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"smtm/internal/domain/store"
	"smtm/internal/models"
)

// Store implements store.Store on a Firestore client.
type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, k models.Key, dst models.Entity) error {
	snap, err := s.client.Collection(string(k.Kind)).Doc(k.ID).Get(ctx)
	return decodeSnapshot(k, snap, err, dst)
}

func (s *Store) Query(ctx context.Context, q store.Query) ([]models.Entity, error) {
	return collect(q.Kind, s.buildQuery(q).Documents(ctx))
}

func (s *Store) Put(ctx context.Context, e models.Entity) (models.Key, error) {
	ref, k, err := s.docRef(e.Key())
	if err != nil {
		return models.Key{}, err
	}
	if _, err := ref.Set(ctx, e); err != nil {
		return models.Key{}, fmt.Errorf("failed to put %s: %w", k, err)
	}
	e.SetKey(k)
	return k, nil
}

func (s *Store) Delete(ctx context.Context, k models.Key) error {
	if _, err := s.client.Collection(string(k.Kind)).Doc(k.ID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s: %w", k, err)
	}
	return nil
}

func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, &txStore{Store: s, tx: tx})
	})
}

func (s *Store) buildQuery(q store.Query) firestore.Query {
	fq := s.client.Collection(string(q.Kind)).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, "==", f.Value)
	}
	return fq
}

func (s *Store) docRef(k models.Key) (*firestore.DocumentRef, models.Key, error) {
	if !k.Kind.Valid() {
		return nil, models.Key{}, fmt.Errorf("cannot put entity with kind %q", k.Kind)
	}
	coll := s.client.Collection(string(k.Kind))
	if k.Incomplete() {
		ref := coll.NewDoc()
		k.ID = ref.ID
		return ref, k, nil
	}
	return coll.Doc(k.ID), k, nil
}

// txStore routes reads and writes through a Firestore transaction.
// Firestore requires every read to happen before the first write.
type txStore struct {
	*Store
	tx *firestore.Transaction
}

func (t *txStore) Get(ctx context.Context, k models.Key, dst models.Entity) error {
	snap, err := t.tx.Get(t.client.Collection(string(k.Kind)).Doc(k.ID))
	return decodeSnapshot(k, snap, err, dst)
}

func (t *txStore) Query(ctx context.Context, q store.Query) ([]models.Entity, error) {
	return collect(q.Kind, t.tx.Documents(t.buildQuery(q)))
}

func (t *txStore) Put(ctx context.Context, e models.Entity) (models.Key, error) {
	ref, k, err := t.docRef(e.Key())
	if err != nil {
		return models.Key{}, err
	}
	if err := t.tx.Set(ref, e); err != nil {
		return models.Key{}, fmt.Errorf("failed to put %s: %w", k, err)
	}
	e.SetKey(k)
	return k, nil
}

func (t *txStore) Delete(ctx context.Context, k models.Key) error {
	if err := t.tx.Delete(t.client.Collection(string(k.Kind)).Doc(k.ID)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", k, err)
	}
	return nil
}

func (t *txStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return fn(ctx, t)
}

func decodeSnapshot(k models.Key, snap *firestore.DocumentSnapshot, err error, dst models.Entity) error {
	if err != nil {
		if isNotFound(err) {
			return store.ErrNoSuchEntity
		}
		return fmt.Errorf("failed to get %s: %w", k, err)
	}
	if err := snap.DataTo(dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", k, err)
	}
	dst.SetKey(k)
	return nil
}

func collect(kind models.Kind, it *firestore.DocumentIterator) ([]models.Entity, error) {
	defer it.Stop()

	var results []models.Entity
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", kind, err)
		}

		e, err := models.NewEntity(kind)
		if err != nil {
			return nil, err
		}
		k := models.Key{Kind: kind, ID: snap.Ref.ID}
		if err := snap.DataTo(e); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", k, err)
		}
		e.SetKey(k)
		results = append(results, e)
	}
	return results, nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
