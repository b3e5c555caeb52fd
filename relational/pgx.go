package relational

import (
	"github.com/jackc/pgx/v5"

	"github.com/Konsultn-Engineering/antisqli"
)

// PgxNamedArgs returns q's parameters keyed by name, for text built with
// the pgx dialect (@name).
func PgxNamedArgs(q *antisqli.Query) pgx.NamedArgs {
	args := make(pgx.NamedArgs, len(q.Parameters))
	for _, p := range q.Parameters {
		args[p.Name] = p.Value.Any()
	}
	return args
}

// PgxStatement is a pgx query with named arguments. pgx rewrites @name
// references into $n itself.
type PgxStatement struct {
	Text      string
	NamedArgs pgx.NamedArgs
}

// Bind implements antisqli.Binder.
func (s *PgxStatement) Bind(q *antisqli.Query) error {
	s.Text = q.Text
	s.NamedArgs = PgxNamedArgs(q)
	return nil
}

func (s *PgxStatement) SQL() string { return s.Text }

// Args passes the named arguments as the single pgx query argument.
func (s *PgxStatement) Args() []any { return []any{s.NamedArgs} }
