package dialect

// Cosmos covers Azure Cosmos DB SQL queries. Parameters are untyped and
// named with a leading @.
type Cosmos struct{}

func NewCosmosDialect() Dialect {
	return &Cosmos{}
}

func (c Cosmos) Name() string { return "cosmos" }

func (c Cosmos) Reference(index int, name string) string {
	return atSign(index, name)
}

func (c Cosmos) Positional() bool {
	return false
}

func (c Cosmos) MaxParameters() int {
	return 0
}
