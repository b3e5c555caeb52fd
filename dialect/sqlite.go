package dialect

type SQLite struct{}

func NewSQLiteDialect() Dialect {
	return &SQLite{}
}

func (s SQLite) Name() string { return "sqlite" }

func (s SQLite) Reference(index int, name string) string {
	return atSign(index, name)
}

func (s SQLite) Positional() bool {
	return false
}

// MaxParameters is SQLITE_MAX_VARIABLE_NUMBER for builds since 3.32.
func (s SQLite) MaxParameters() int {
	return 32766
}
