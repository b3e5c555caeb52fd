package document

import (
	"github.com/Konsultn-Engineering/antisqli"
)

// QuerySpec is a query specification whose parameters are replaced as a
// collection.
type QuerySpec struct {
	QueryText  string
	Parameters []SqlParameter
}

// Bind implements antisqli.Binder.
func (s *QuerySpec) Bind(q *antisqli.Query) error {
	s.QueryText = q.Text
	s.Parameters = parameters(q)
	return nil
}

// LoadSecure parameterizes template with e and loads the result into s.
func (s *QuerySpec) LoadSecure(e *antisqli.Engine, template string, args ...any) error {
	return e.Load(s, template, args...)
}

func (s QuerySpec) MarshalJSON() ([]byte, error) {
	return marshal(s.QueryText, s.Parameters)
}
