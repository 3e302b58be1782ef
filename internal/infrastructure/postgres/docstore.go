package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"smtm/internal/domain/store"
	"smtm/internal/models"
)

const entitiesTable = "entities"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DocStore is a store.Store keeping each entity as a JSONB document
// in a single table keyed by (kind, id).
type DocStore struct {
	db   *DB
	q    querier
	inTx bool
}

func NewDocStore(db *DB) *DocStore {
	return &DocStore{db: db, q: db}
}

func (s *DocStore) Get(ctx context.Context, k models.Key, dst models.Entity) error {
	query, args, err := psql.Select("data").
		From(entitiesTable).
		Where(sq.Eq{"kind": string(k.Kind), "id": k.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build get query: %w", err)
	}

	var data []byte
	if err := s.q.QueryRowContext(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNoSuchEntity
		}
		return fmt.Errorf("failed to get %s: %w", k, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", k, err)
	}
	dst.SetKey(k)
	return nil
}

func (s *DocStore) Query(ctx context.Context, q store.Query) ([]models.Entity, error) {
	query, args, err := buildSelect(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Kind, err)
	}
	defer rows.Close()

	var results []models.Entity
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", q.Kind, err)
		}

		e, err := models.NewEntity(q.Kind)
		if err != nil {
			return nil, err
		}
		k := models.Key{Kind: q.Kind, ID: id}
		if err := json.Unmarshal(data, e); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", k, err)
		}
		e.SetKey(k)
		results = append(results, e)
	}

	return results, rows.Err()
}

func buildSelect(q store.Query) (string, []any, error) {
	b := psql.Select("id", "data").
		From(entitiesTable).
		Where(sq.Eq{"kind": string(q.Kind)})
	for _, f := range q.Filters {
		b = b.Where(sq.Expr("data->>(?::text) = ?", f.Field, f.Value))
	}

	query, args, err := b.OrderBy("seq").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build select query: %w", err)
	}
	return query, args, nil
}

func (s *DocStore) Put(ctx context.Context, e models.Entity) (models.Key, error) {
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

	query, args, err := buildUpsert(k, data)
	if err != nil {
		return models.Key{}, err
	}
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return models.Key{}, fmt.Errorf("failed to put %s: %w", k, err)
	}

	e.SetKey(k)
	return k, nil
}

func buildUpsert(k models.Key, data []byte) (string, []any, error) {
	query, args, err := psql.Insert(entitiesTable).
		Columns("kind", "id", "data").
		Values(string(k.Kind), k.ID, string(data)).
		Suffix("ON CONFLICT (kind, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build upsert query: %w", err)
	}
	return query, args, nil
}

func (s *DocStore) Delete(ctx context.Context, k models.Key) error {
	query, args, err := psql.Delete(entitiesTable).
		Where(sq.Eq{"kind": string(k.Kind), "id": k.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete %s: %w", k, err)
	}
	return nil
}

// RunInTransaction runs fn in a serializable transaction. A commit that
// loses a serialization conflict is reported, not retried.
func (s *DocStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(ctx, &DocStore{db: s.db, q: tx, inTx: true}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
