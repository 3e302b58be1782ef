package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"

	"smtm/internal/domain/store"
	"smtm/internal/models"
)

type document struct {
	seq  int64
	data []byte
}

// Store is an in-process store.Store holding JSON documents.
// Transactions are serialized: one runs at a time against a private copy.
type Store struct {
	mu   sync.Mutex
	view *view
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{view: &view{docs: make(map[models.Key]document)}}
}

func (s *Store) Get(ctx context.Context, k models.Key, dst models.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Get(ctx, k, dst)
}

func (s *Store) Query(ctx context.Context, q store.Query) ([]models.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Query(ctx, q)
}

func (s *Store) Put(ctx context.Context, e models.Entity) (models.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Put(ctx, e)
}

func (s *Store) Delete(ctx context.Context, k models.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Delete(ctx, k)
}

func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := &view{docs: maps.Clone(s.view.docs), seq: s.view.seq}
	if err := fn(ctx, &txStore{view: staged}); err != nil {
		return err
	}

	s.view = staged
	return nil
}

// Len returns the number of stored records of kind.
func (s *Store) Len(kind models.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k := range s.view.docs {
		if k.Kind == kind {
			n++
		}
	}
	return n
}

// view holds the documents; callers provide locking.
type view struct {
	docs map[models.Key]document
	seq  int64
}

func (v *view) Get(ctx context.Context, k models.Key, dst models.Entity) error {
	doc, ok := v.docs[k]
	if !ok {
		return store.ErrNoSuchEntity
	}
	if err := json.Unmarshal(doc.data, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", k, err)
	}
	dst.SetKey(k)
	return nil
}

func (v *view) Query(ctx context.Context, q store.Query) ([]models.Entity, error) {
	type hit struct {
		key models.Key
		doc document
	}

	var hits []hit
	for k, doc := range v.docs {
		if k.Kind != q.Kind {
			continue
		}
		ok, err := store.MatchDocument(doc.data, q.Filters)
		if err != nil {
			return nil, err
		}
		if ok {
			hits = append(hits, hit{key: k, doc: doc})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].doc.seq < hits[j].doc.seq })

	results := make([]models.Entity, 0, len(hits))
	for _, h := range hits {
		e, err := models.NewEntity(h.key.Kind)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(h.doc.data, e); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", h.key, err)
		}
		e.SetKey(h.key)
		results = append(results, e)
	}
	return results, nil
}

func (v *view) Put(ctx context.Context, e models.Entity) (models.Key, error) {
	k := e.Key()
	if !k.Kind.Valid() {
		return models.Key{}, fmt.Errorf("cannot put entity with kind %q", k.Kind)
	}
	if k.Incomplete() {
		k.ID = uuid.NewString()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return models.Key{}, fmt.Errorf("failed to encode %s: %w", k, err)
	}

	seq := v.docs[k].seq
	if seq == 0 {
		v.seq++
		seq = v.seq
	}
	v.docs[k] = document{seq: seq, data: data}

	e.SetKey(k)
	return k, nil
}

func (v *view) Delete(ctx context.Context, k models.Key) error {
	delete(v.docs, k)
	return nil
}

// txStore is the store handed to a transaction function.
type txStore struct {
	*view
}

func (t *txStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return fn(ctx, t)
}
