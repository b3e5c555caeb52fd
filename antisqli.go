// Package antisqli converts a query template with positional placeholders
// ({0}, {1}, ...) and an untrusted argument list into parameter-bound query
// text. Argument values never enter the text: each placeholder is replaced
// by a generated parameter reference and the values travel separately as
// parameters.
//
//	q, err := antisqli.Parameterize("SELECT * FROM users WHERE name={0} AND age={1}", name, age)
//	// q.Text: SELECT * FROM users WHERE name=@AntiSQLiParam0 AND age=@AntiSQLiParam1
//
// An Engine is immutable once built and safe for concurrent use. Nothing is
// cached between calls; parameter names are only unique within one Query.
package antisqli

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/antisqli/dialect"
	"github.com/Konsultn-Engineering/antisqli/param"
	"github.com/Konsultn-Engineering/antisqli/placeholder"
	"github.com/Konsultn-Engineering/antisqli/value"
)

// Query is a parameterized query: text holding only generated references,
// plus the parameters to bind. It is built per call and handed to exactly
// one Binder.
type Query struct {
	Text       string
	Parameters param.Set
	// Occurrences lists every placeholder of the template in order.
	Occurrences placeholder.Tokens

	positional bool
}

// Bindings returns parameters in the order a backend must bind them. For
// positional dialects each occurrence binds separately, so a parameter
// referenced twice appears twice; otherwise it is Parameters.
func (q *Query) Bindings() param.Set {
	if !q.positional {
		return q.Parameters
	}
	out := make(param.Set, len(q.Occurrences))
	for i, tok := range q.Occurrences {
		out[i] = q.Parameters[tok.Index]
	}
	return out
}

// Positional reports whether q was built for a positional dialect.
func (q *Query) Positional() bool { return q.positional }

// Binder writes a Query into a backend query or command object. It must set
// the text verbatim, drop previously bound parameters and bind every
// parameter in order.
type Binder interface {
	Bind(q *Query) error
}

// Engine runs validation, parameter materialization and placeholder
// substitution for one dialect.
type Engine struct {
	dialect  dialect.Dialect
	inferrer param.Inferrer
	strict   bool
	logger   *zap.Logger

	materializer *param.Materializer
}

// Option configures an Engine.
type Option func(*Engine)

// WithDialect selects how references are spelled. The default is SQL Server
// style @name.
func WithDialect(d dialect.Dialect) Option {
	return func(e *Engine) {
		if d != nil {
			e.dialect = d
		}
	}
}

// WithInferrer selects the backend type inference. The default is
// param.KindInferrer.
func WithInferrer(inf param.Inferrer) Option {
	return func(e *Engine) {
		if inf != nil {
			e.inferrer = inf
		}
	}
}

// WithStrict rejects arguments that no placeholder references.
func WithStrict(strict bool) Option {
	return func(e *Engine) { e.strict = strict }
}

// WithLogger sets the logger for failures and type fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New builds an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		dialect:  dialect.NewSQLServerDialect(),
		inferrer: param.KindInferrer{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.materializer = param.NewMaterializer(e.inferrer,
		param.WithLimit(e.dialect.MaxParameters()),
		param.WithLogger(e.logger),
	)
	return e
}

var defaultEngine = New()

// Parameterize runs the default engine.
func Parameterize(template string, args ...any) (*Query, error) {
	return defaultEngine.Parameterize(template, args...)
}

// Validate rejects a blank template or an empty argument list.
func Validate(template string, args []any) error {
	return validate(template, len(args))
}

func validate(template string, n int) error {
	if strings.TrimSpace(template) == "" {
		return &Error{Op: OpValidate, Err: ErrEmptyTemplate}
	}
	if n == 0 {
		return &Error{Op: OpValidate, Err: ErrEmptyArguments}
	}
	return nil
}

// Dialect returns the engine's dialect.
func (e *Engine) Dialect() dialect.Dialect { return e.dialect }

// Parameterize validates the inputs, builds one parameter per argument and
// rewrites the template's placeholders. It either returns a complete Query
// or an error; nothing partial is exposed.
func (e *Engine) Parameterize(template string, args ...any) (*Query, error) {
	if err := Validate(template, args); err != nil {
		return nil, e.fail(err)
	}
	return e.parameterize(template, value.OfAll(args))
}

// ParameterizeValues is Parameterize for arguments already classified.
func (e *Engine) ParameterizeValues(template string, args []value.Value) (*Query, error) {
	if err := validate(template, len(args)); err != nil {
		return nil, e.fail(err)
	}
	return e.parameterize(template, args)
}

func (e *Engine) parameterize(template string, args []value.Value) (*Query, error) {
	set, err := e.materializer.Materialize(args)
	if err != nil {
		return nil, e.fail(&Error{Op: OpMaterialize, Err: err})
	}
	if len(set) == 0 {
		return nil, e.fail(&Error{Op: OpMaterialize, Err: fmt.Errorf("%w: no parameters produced", ErrMaterialize)})
	}

	var opts []placeholder.Option
	if e.strict {
		opts = append(opts, placeholder.Strict())
	}
	res, err := placeholder.Substitute(template, set.Names(), e.dialect.Reference, opts...)
	if err != nil {
		return nil, e.fail(&Error{Op: OpSubstitute, Err: err})
	}
	// Positional backends bind once per occurrence.
	if limit := e.dialect.MaxParameters(); e.dialect.Positional() && limit > 0 && len(res.Occurrences) > limit {
		return nil, e.fail(&Error{Op: OpMaterialize, Err: fmt.Errorf("%w: %d placeholder occurrences exceed the backend limit of %d parameters",
			ErrMaterialize, len(res.Occurrences), limit)})
	}

	return &Query{
		Text:        res.Text,
		Parameters:  set,
		Occurrences: res.Occurrences,
		positional:  e.dialect.Positional(),
	}, nil
}

// Load parameterizes the template and binds the result into target. The
// target is only touched once parameterization has fully succeeded.
func (e *Engine) Load(target Binder, template string, args ...any) error {
	q, err := e.Parameterize(template, args...)
	if err != nil {
		return err
	}
	if err := target.Bind(q); err != nil {
		return e.fail(&Error{Op: OpBind, Err: err})
	}
	return nil
}

func (e *Engine) fail(err error) error {
	e.logger.Debug("parameterize failed", zap.Error(err))
	return err
}
