// Package database executes bound statements against a relational backend.
// Statements reach it already parameterized; nothing here builds query text
// from values.
package database

import (
	"context"
)

// Statement is query text plus the arguments bound to its references.
type Statement interface {
	SQL() string
	Args() []any
}

type Database interface {
	QueryContext(ctx context.Context, stmt Statement) (Rows, error)
	ExecContext(ctx context.Context, stmt Statement) (Result, error)
	PingContext(ctx context.Context) error
	Close() error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Columns() ([]string, error)
	Err() error
}

type Result interface {
	RowsAffected() (int64, error)
}

// Static is a statement without arguments, for fixed DDL and similar text
// that takes no input.
type Static string

func (s Static) SQL() string { return string(s) }
func (s Static) Args() []any { return nil }
