package placeholder

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every TokenError matches ErrTokenCountMismatch; the
// narrower sentinels say why.
var (
	ErrTokenCountMismatch = errors.New("placeholder and parameter mismatch")
	ErrMalformedToken     = errors.New("malformed placeholder")
	ErrUnusedParameter    = errors.New("parameter never referenced")
)

type tokenProblem uint8

const (
	problemMalformed tokenProblem = iota
	problemOutOfRange
	problemUnused
)

// maxRawLen caps how much of an offending token is quoted in messages.
const maxRawLen = 32

// TokenError describes the placeholder that stopped substitution.
type TokenError struct {
	// Offset is the byte offset of the token in the template, or -1 for an
	// unused parameter.
	Offset int
	// Raw is the offending text as written.
	Raw string
	// Index is the referenced parameter index, or -1 when none could be read.
	Index int
	// Count is the number of parameters supplied.
	Count  int
	Reason string

	problem tokenProblem
}

func (e *TokenError) Error() string {
	switch e.problem {
	case problemOutOfRange:
		return fmt.Sprintf("placeholder %q at offset %d references parameter %d, but only %d supplied",
			e.Raw, e.Offset, e.Index, e.Count)
	case problemUnused:
		return fmt.Sprintf("parameter %d of %d is never referenced", e.Index, e.Count)
	default:
		return fmt.Sprintf("malformed placeholder %q at offset %d: %s", e.Raw, e.Offset, e.Reason)
	}
}

func (e *TokenError) Is(target error) bool {
	switch target {
	case ErrTokenCountMismatch:
		return true
	case ErrMalformedToken:
		return e.problem == problemMalformed
	case ErrUnusedParameter:
		return e.problem == problemUnused
	}
	return false
}

func malformed(src string, offset int, reason string) *TokenError {
	end := offset + 1
	if src[offset] == '{' {
		end = len(src)
		if j := strings.IndexByte(src[offset+1:], '}'); j >= 0 {
			end = offset + j + 2
		}
	}
	if end-offset > maxRawLen {
		end = offset + maxRawLen
	}
	return &TokenError{
		Offset:  offset,
		Raw:     src[offset:end],
		Index:   -1,
		Reason:  reason,
		problem: problemMalformed,
	}
}
