// Package param turns an ordered argument list into named, typed parameters.
//
// Names are derived from argument position only (Prefix + ordinal), so the
// same argument list always yields the same names and no state is shared
// between calls. Type inference is delegated to a backend Inferrer; when the
// backend cannot type a value it is bound as text instead of failing the
// whole query.
package param

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/antisqli/value"
)

// ErrMaterialize is returned when the argument list as a whole cannot be
// turned into parameters. Per-value inference failures never produce it.
var ErrMaterialize = errors.New("unable to materialize parameters")

// Materializer builds a Set from argument values. It holds configuration
// only and is safe for concurrent use.
type Materializer struct {
	inferrer Inferrer
	limit    int
	logger   *zap.Logger
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithLimit caps the number of parameters one call may produce. Zero means
// no cap.
func WithLimit(n int) Option {
	return func(m *Materializer) { m.limit = n }
}

// WithLogger sets the logger used to report type fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(m *Materializer) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMaterializer returns a Materializer that asks inf for parameter types.
func NewMaterializer(inf Inferrer, opts ...Option) *Materializer {
	m := &Materializer{
		inferrer: inf,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Materialize converts args into a Set of the same length and order.
func (m *Materializer) Materialize(args []value.Value) (Set, error) {
	if m == nil || m.inferrer == nil {
		return nil, fmt.Errorf("%w: no type inferrer configured", ErrMaterialize)
	}
	if m.limit > 0 && len(args) > m.limit {
		return nil, fmt.Errorf("%w: %d arguments exceed the backend limit of %d parameters",
			ErrMaterialize, len(args), m.limit)
	}

	set := make(Set, 0, len(args))
	for i, v := range args {
		set = append(set, m.parameter(i, v))
	}
	return set, nil
}

func (m *Materializer) parameter(i int, v value.Value) Parameter {
	p := Parameter{Name: Name(i), Value: v}

	t, err := m.infer(v)
	if err == nil && !t.Valid() {
		err = fmt.Errorf("inferrer returned unknown type %d", uint8(t))
	}
	if err == nil {
		p.Type = t
		return p
	}

	// Text is always bindable. Values are never logged.
	m.logger.Debug("parameter type fallback",
		zap.Int("index", i),
		zap.Stringer("kind", v.Kind()),
		zap.Error(err),
	)
	p.Type = String
	if !v.IsNull() {
		p.Value = value.Text(v.String())
	}
	return p
}

// infer turns an inferrer panic into an ordinary inference failure.
func (m *Materializer) infer(v value.Value) (t DBType, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("inferrer panicked: %v", r)
		}
	}()
	return m.inferrer.Infer(v)
}
