package antisqli

import (
	"errors"

	"github.com/Konsultn-Engineering/antisqli/param"
	"github.com/Konsultn-Engineering/antisqli/placeholder"
)

// Error kinds. Test with errors.Is; every error returned by Parameterize
// also unwraps to an *Error naming the failed stage.
var (
	ErrEmptyTemplate      = errors.New("query template is empty")
	ErrEmptyArguments     = errors.New("query arguments are empty")
	ErrMaterialize        = param.ErrMaterialize
	ErrTokenCountMismatch = placeholder.ErrTokenCountMismatch
)

// Stage names used in Error.Op.
const (
	OpValidate    = "validate"
	OpMaterialize = "materialize"
	OpSubstitute  = "substitute"
	OpBind        = "bind"
)

// Error reports which stage of a parameterization failed. These are
// programming errors (template and arguments disagree) and are not worth
// retrying.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "antisqli: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
