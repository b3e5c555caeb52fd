package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxDatabase implements Database for pgxpool.Pool. pgx prepares and caches
// statements per connection, so no statement cache applies.
type PgxDatabase struct {
	pool *pgxpool.Pool
	inst instrument
}

// NewPgxDatabase creates a new PgxDatabase.
func NewPgxDatabase(pool *pgxpool.Pool, opts ...Option) *PgxDatabase {
	o := newOptions(opts)
	return &PgxDatabase{pool: pool, inst: newInstrument(o.tracerProvider, "postgresql")}
}

// QueryContext executes a query that returns rows.
func (p *PgxDatabase) QueryContext(ctx context.Context, stmt Statement) (_ Rows, err error) {
	ctx, span := p.inst.start(ctx, "query", stmt)
	defer func() { finish(span, err) }()

	rows, err := p.pool.Query(ctx, stmt.SQL(), stmt.Args()...)
	if err != nil {
		return nil, err
	}
	return &PgxRows{rows: rows}, nil
}

// ExecContext executes a statement without returning rows.
func (p *PgxDatabase) ExecContext(ctx context.Context, stmt Statement) (_ Result, err error) {
	ctx, span := p.inst.start(ctx, "exec", stmt)
	defer func() { finish(span, err) }()

	cmdTag, err := p.pool.Exec(ctx, stmt.SQL(), stmt.Args()...)
	if err != nil {
		return nil, err
	}
	return &PgxResult{cmdTag: cmdTag}, nil
}

// PingContext verifies the connection to the database is alive.
func (p *PgxDatabase) PingContext(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the pool.
func (p *PgxDatabase) Close() error {
	p.pool.Close()
	return nil
}

// PgxRows implements Rows for pgx.Rows.
type PgxRows struct {
	rows              pgx.Rows
	fieldDescriptions []pgconn.FieldDescription
}

// Next prepares the next result row for reading.
func (p *PgxRows) Next() bool { return p.rows.Next() }

// Scan copies the columns from the current row into the provided destinations.
func (p *PgxRows) Scan(dest ...any) error { return p.rows.Scan(dest...) }

// Close closes the rows iterator.
func (p *PgxRows) Close() error { p.rows.Close(); return nil }

func (p *PgxRows) Err() error { return p.rows.Err() }

// Columns returns the column names.
func (p *PgxRows) Columns() ([]string, error) {
	if p.fieldDescriptions == nil {
		p.fieldDescriptions = p.rows.FieldDescriptions()
	}
	columns := make([]string, len(p.fieldDescriptions))
	for i, fd := range p.fieldDescriptions {
		columns[i] = fd.Name
	}
	return columns, nil
}

// PgxResult implements Result for pgx command tags.
type PgxResult struct {
	cmdTag pgconn.CommandTag
}

// RowsAffected returns the number of rows affected by the command.
func (r *PgxResult) RowsAffected() (int64, error) {
	return r.cmdTag.RowsAffected(), nil
}

// Assert that PgxDatabase implements the Database interface.
var _ Database = (*PgxDatabase)(nil)
