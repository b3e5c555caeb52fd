// Package document binds parameterized queries into document-store query
// objects in the Cosmos DB SQL shape. Parameters are untyped and their names
// carry the @ sigil.
package document

import (
	"encoding/json"

	"github.com/Konsultn-Engineering/antisqli"
	"github.com/Konsultn-Engineering/antisqli/dialect"
	"github.com/Konsultn-Engineering/antisqli/param"
)

// SqlParameter is one named query parameter.
type SqlParameter struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// NewEngine returns an engine for document queries: @name references and
// untyped parameters.
func NewEngine(opts ...antisqli.Option) *antisqli.Engine {
	base := []antisqli.Option{
		antisqli.WithDialect(dialect.NewCosmosDialect()),
		antisqli.WithInferrer(param.UntypedInferrer{}),
	}
	return antisqli.New(append(base, opts...)...)
}

func parameters(q *antisqli.Query) []SqlParameter {
	out := make([]SqlParameter, len(q.Parameters))
	for i, p := range q.Parameters {
		out[i] = SqlParameter{Name: "@" + p.Name, Value: p.Value.Any()}
	}
	return out
}

type wire struct {
	Query      string         `json:"query"`
	Parameters []SqlParameter `json:"parameters"`
}

func marshal(text string, params []SqlParameter) ([]byte, error) {
	if params == nil {
		params = []SqlParameter{}
	}
	return json.Marshal(wire{Query: text, Parameters: params})
}
