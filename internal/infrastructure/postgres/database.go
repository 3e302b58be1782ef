package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var dbTracer = otel.Tracer("smtm.db")

type DB struct {
	*sql.DB
}

func New(ctx context.Context, connStr string) (*DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// sqlConn is satisfied by both *sql.DB and *sql.Tx.
type sqlConn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// querier is the traced statement surface shared by DB and Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *tracedRow
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return tracedQuery(ctx, db.DB, query, args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *tracedRow {
	return tracedQueryRow(ctx, db.DB, query, args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return tracedExec(ctx, db.DB, query, args...)
}

// BeginTx starts a transaction whose statements are traced like the DB's.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

type Tx struct {
	tx *sql.Tx
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return tracedQuery(ctx, t.tx, query, args...)
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *tracedRow {
	return tracedQueryRow(ctx, t.tx, query, args...)
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return tracedExec(ctx, t.tx, query, args...)
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

const maxStatementLen = 256

// startSpan names the span after the SQL verb. Statements are always built with
// placeholders, so their text is safe to attach once whitespace is collapsed.
func startSpan(ctx context.Context, query string) (context.Context, trace.Span) {
	op := sqlOperation(query)
	return dbTracer.Start(ctx, "postgres "+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system.name", "postgresql"),
			attribute.String("db.operation.name", op),
			attribute.String("db.query.text", statementText(query)),
		),
	)
}

// endSpan closes span, marking it failed unless err is nil or a plain miss.
func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func tracedQuery(ctx context.Context, c sqlConn, query string, args ...any) (*sql.Rows, error) {
	ctx, span := startSpan(ctx, query)
	rows, err := c.QueryContext(ctx, query, args...)
	endSpan(span, err)
	return rows, err
}

// tracedRow keeps the span open until Scan, where *sql.Row reports its error.
type tracedRow struct {
	row  *sql.Row
	span trace.Span
}

func (r *tracedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if r.span != nil {
		endSpan(r.span, err)
		r.span = nil
	}
	return err
}

func tracedQueryRow(ctx context.Context, c sqlConn, query string, args ...any) *tracedRow {
	ctx, span := startSpan(ctx, query)
	return &tracedRow{row: c.QueryRowContext(ctx, query, args...), span: span}
}

func tracedExec(ctx context.Context, c sqlConn, query string, args ...any) (sql.Result, error) {
	ctx, span := startSpan(ctx, query)
	result, err := c.ExecContext(ctx, query, args...)
	endSpan(span, err)
	return result, err
}

func statementText(q string) string {
	s := strings.Join(strings.Fields(q), " ")
	if len(s) > maxStatementLen {
		return s[:maxStatementLen] + "..."
	}
	return s
}

func sqlOperation(q string) string {
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return "UNKNOWN"
	}
	return strings.ToUpper(fields[0])
}
