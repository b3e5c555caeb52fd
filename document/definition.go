package document

import (
	"github.com/Konsultn-Engineering/antisqli"
)

// QueryDefinition is a query built by attaching parameters one at a time.
type QueryDefinition struct {
	text   string
	params []SqlParameter
}

// NewQueryDefinition starts a definition with no parameters.
func NewQueryDefinition(text string) *QueryDefinition {
	return &QueryDefinition{text: text}
}

// WithParameter adds a parameter, replacing any earlier one with the same
// name, and returns d.
func (d *QueryDefinition) WithParameter(name string, v any) *QueryDefinition {
	for i := range d.params {
		if d.params[i].Name == name {
			d.params[i].Value = v
			return d
		}
	}
	d.params = append(d.params, SqlParameter{Name: name, Value: v})
	return d
}

func (d *QueryDefinition) QueryText() string { return d.text }

// Parameters returns a copy of the attached parameters in order.
func (d *QueryDefinition) Parameters() []SqlParameter {
	return append([]SqlParameter(nil), d.params...)
}

func (d *QueryDefinition) MarshalJSON() ([]byte, error) {
	return marshal(d.text, d.params)
}

// Create parameterizes template with e and returns a definition built from
// the result. Nothing is returned on error.
func Create(e *antisqli.Engine, template string, args ...any) (*QueryDefinition, error) {
	q, err := e.Parameterize(template, args...)
	if err != nil {
		return nil, err
	}
	d := NewQueryDefinition(q.Text)
	for _, p := range parameters(q) {
		d = d.WithParameter(p.Name, p.Value)
	}
	return d, nil
}
