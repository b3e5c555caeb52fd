// Package relational binds parameterized queries into relational command
// objects. Command is generic over the backend's native parameter type; the
// ParamFunc decides how one parameter is spelled for that backend.
package relational

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/Konsultn-Engineering/antisqli"
	"github.com/Konsultn-Engineering/antisqli/param"
)

var (
	// ErrBinding matches every BindingError.
	ErrBinding = errors.New("backend rejected parameter")
	// ErrUnsupportedValue is returned by the provided ParamFuncs for values
	// database/sql cannot send.
	ErrUnsupportedValue = errors.New("unsupported native value")
)

// BindingError reports the parameter a ParamFunc refused.
type BindingError struct {
	Index int
	Name  string
	Err   error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("binding parameter %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *BindingError) Unwrap() error { return e.Err }

func (e *BindingError) Is(target error) bool { return target == ErrBinding }

// CommandType tells the backend how to interpret Command.Text.
type CommandType uint8

const (
	CommandUnset CommandType = iota
	CommandText
	CommandStoredProcedure
)

func (t CommandType) String() string {
	switch t {
	case CommandText:
		return "text"
	case CommandStoredProcedure:
		return "stored_procedure"
	default:
		return "unset"
	}
}

// ParamFunc converts one parameter into the backend's native form.
type ParamFunc[P any] func(p param.Parameter) (P, error)

// Command is a relational command object. Bind overwrites Text, Type and
// Params as a unit; on error none of them change.
type Command[P any] struct {
	Text   string
	Type   CommandType
	Params []P

	convert ParamFunc[P]
}

// NewCommand returns an empty command converting parameters with convert.
func NewCommand[P any](convert ParamFunc[P]) *Command[P] {
	return &Command[P]{convert: convert}
}

// Bind implements antisqli.Binder.
func (c *Command[P]) Bind(q *antisqli.Query) error {
	if c.convert == nil {
		return &BindingError{Index: -1, Err: errors.New("command has no parameter converter")}
	}

	bindings := q.Bindings()
	params := make([]P, 0, len(bindings))
	for i, p := range bindings {
		np, err := c.convert(p)
		if err != nil {
			return &BindingError{Index: i, Name: p.Name, Err: err}
		}
		params = append(params, np)
	}

	c.Text = q.Text
	c.Type = CommandText
	c.Params = params
	return nil
}

// SQL returns the command text.
func (c *Command[P]) SQL() string { return c.Text }

// Args returns Params as a driver argument list.
func (c *Command[P]) Args() []any {
	args := make([]any, len(c.Params))
	for i, p := range c.Params {
		args[i] = p
	}
	return args
}

// Prepare parameterizes template with e and returns a command bound to the
// result.
func Prepare[P any](e *antisqli.Engine, convert ParamFunc[P], template string, args ...any) (*Command[P], error) {
	cmd := NewCommand(convert)
	if err := e.Load(cmd, template, args...); err != nil {
		return nil, err
	}
	return cmd, nil
}

// NamedArg binds a parameter as sql.NamedArg. Drivers that accept named
// arguments (SQL Server, SQLite) match it against @name in the text.
func NamedArg(p param.Parameter) (sql.NamedArg, error) {
	v, err := native(p)
	if err != nil {
		return sql.NamedArg{}, err
	}
	return sql.Named(p.Name, v), nil
}

// Positional binds a parameter as a plain value, for ? and $n dialects.
func Positional(p param.Parameter) (any, error) {
	return native(p)
}

// TypedParam carries the declared type alongside the value for backends
// that accept typed parameters.
type TypedParam struct {
	Name  string
	Type  param.DBType
	Value any
}

// Typed binds a parameter as a TypedParam.
func Typed(p param.Parameter) (TypedParam, error) {
	v, err := native(p)
	if err != nil {
		return TypedParam{}, err
	}
	return TypedParam{Name: p.Name, Type: p.Type, Value: v}, nil
}

func native(p param.Parameter) (any, error) {
	v := p.Value.Any()
	if _, ok := v.(driver.Valuer); ok {
		return v, nil
	}
	if !driver.IsValue(v) {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	return v, nil
}
