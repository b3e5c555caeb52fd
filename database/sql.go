package database

import (
	"context"
	"database/sql"
	"io"
)

// SqlDatabase implements Database for *sql.DB.
type SqlDatabase struct {
	db    *sql.DB
	cache StatementPreparer
	inst  instrument
}

// StatementPreparer hands out prepared statements for query text. The
// statement stays usable until release is called.
type StatementPreparer interface {
	GetOrPrepare(ctx context.Context, db *sql.DB, query string) (stmt *sql.Stmt, release func(), err error)
}

// NewSqlDatabase creates a new SqlDatabase. system names the backend in
// spans, e.g. "sqlite".
func NewSqlDatabase(db *sql.DB, system string, opts ...Option) *SqlDatabase {
	o := newOptions(opts)
	s := &SqlDatabase{db: db, inst: newInstrument(o.tracerProvider, system)}
	if o.cache != nil {
		s.cache = o.cache
	}
	return s
}

// QueryContext executes a query that returns rows.
func (s *SqlDatabase) QueryContext(ctx context.Context, stmt Statement) (_ Rows, err error) {
	ctx, span := s.inst.start(ctx, "query", stmt)
	defer func() { finish(span, err) }()

	var rows *sql.Rows
	if s.cache != nil {
		ps, release, perr := s.cache.GetOrPrepare(ctx, s.db, stmt.SQL())
		if perr != nil {
			return nil, perr
		}
		// Open rows keep a closed statement alive until they are closed.
		rows, err = ps.QueryContext(ctx, stmt.Args()...)
		release()
	} else {
		rows, err = s.db.QueryContext(ctx, stmt.SQL(), stmt.Args()...)
	}
	if err != nil {
		return nil, err
	}
	return &SqlRows{rows: rows}, nil
}

// ExecContext executes a statement without returning rows.
func (s *SqlDatabase) ExecContext(ctx context.Context, stmt Statement) (_ Result, err error) {
	ctx, span := s.inst.start(ctx, "exec", stmt)
	defer func() { finish(span, err) }()

	if s.cache != nil {
		ps, release, perr := s.cache.GetOrPrepare(ctx, s.db, stmt.SQL())
		if perr != nil {
			return nil, perr
		}
		defer release()
		return ps.ExecContext(ctx, stmt.Args()...)
	}
	return s.db.ExecContext(ctx, stmt.SQL(), stmt.Args()...)
}

// PingContext verifies the connection to the database is alive.
func (s *SqlDatabase) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes cached statements, then the database.
func (s *SqlDatabase) Close() error {
	if c, ok := s.cache.(io.Closer); ok {
		c.Close()
	}
	return s.db.Close()
}

// DB returns the underlying handle.
func (s *SqlDatabase) DB() *sql.DB { return s.db }

// SqlRows implements Rows for *sql.Rows.
type SqlRows struct {
	rows *sql.Rows
}

// Next prepares the next result row for reading.
func (s *SqlRows) Next() bool { return s.rows.Next() }

// Scan copies the columns from the current row into the provided destinations.
func (s *SqlRows) Scan(dest ...any) error { return s.rows.Scan(dest...) }

// Close closes the rows iterator.
func (s *SqlRows) Close() error { return s.rows.Close() }

// Columns returns the column names.
func (s *SqlRows) Columns() ([]string, error) { return s.rows.Columns() }

func (s *SqlRows) Err() error { return s.rows.Err() }

// Assert that SqlDatabase implements the Database interface.
var _ Database = (*SqlDatabase)(nil)
