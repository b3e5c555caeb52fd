package dialect

type MySQL struct{}

func NewMySQLDialect() Dialect {
	return &MySQL{}
}

func (m MySQL) Name() string { return "mysql" }

func (m MySQL) Reference(int, string) string {
	return "?"
}

func (m MySQL) Positional() bool {
	return true
}

// MaxParameters is bounded by the 16-bit parameter count of prepared
// statements.
func (m MySQL) MaxParameters() int {
	return 65535
}
