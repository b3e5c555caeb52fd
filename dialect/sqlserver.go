package dialect

type SQLServer struct{}

func NewSQLServerDialect() Dialect {
	return &SQLServer{}
}

func (s SQLServer) Name() string { return "sqlserver" }

func (s SQLServer) Reference(index int, name string) string {
	return atSign(index, name)
}

func (s SQLServer) Positional() bool {
	return false
}

// MaxParameters is the RPC parameter limit of SQL Server.
func (s SQLServer) MaxParameters() int {
	return 2100
}
