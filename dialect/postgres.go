package dialect

import "strconv"

// Postgres references parameters by one-based index ($1, $2, ...). A
// repeated placeholder reuses its index.
type Postgres struct{}

func NewPostgresDialect() Dialect {
	return &Postgres{}
}

func (p Postgres) Name() string { return "postgres" }

func (p Postgres) Reference(index int, _ string) string {
	return "$" + strconv.Itoa(index+1)
}

func (p Postgres) Positional() bool {
	return false
}

func (p Postgres) MaxParameters() int {
	return 65535
}

// Pgx writes @name references, which pgx.NamedArgs rewrites to $n on the
// client. Unreferenced named arguments are ignored by pgx.
type Pgx struct {
	Postgres
}

func NewPgxDialect() Dialect {
	return &Pgx{}
}

func (p Pgx) Name() string { return "pgx" }

func (p Pgx) Reference(index int, name string) string {
	return atSign(index, name)
}
