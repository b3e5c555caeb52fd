package param

import (
	"fmt"

	"github.com/Konsultn-Engineering/antisqli/value"
)

// Inferrer decides which declared type a backend would give a value. An
// error means the backend has no typed representation for it; the
// materializer then falls back to text.
type Inferrer interface {
	Infer(v value.Value) (DBType, error)
}

// InferrerFunc adapts a plain function to Inferrer.
type InferrerFunc func(v value.Value) (DBType, error)

func (f InferrerFunc) Infer(v value.Value) (DBType, error) { return f(v) }

// UnsupportedError reports a value kind an inferrer cannot type.
type UnsupportedError struct {
	Kind value.Kind
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("no typed representation for %s value", e.Kind)
}

// KindInferrer maps each value kind to a fixed declared type. Null and Other
// have no entry and always fall back.
type KindInferrer struct{}

var kindTypes = map[value.Kind]DBType{
	value.KindText:    String,
	value.KindInteger: Int64,
	value.KindFloat:   Double,
	value.KindBool:    Boolean,
	value.KindTime:    DateTime,
	value.KindBinary:  Binary,
	value.KindDecimal: Decimal,
	value.KindUUID:    Guid,
}

func (KindInferrer) Infer(v value.Value) (DBType, error) {
	if t, ok := kindTypes[v.Kind()]; ok {
		return t, nil
	}
	return Untyped, &UnsupportedError{Kind: v.Kind()}
}

// UntypedInferrer declares every value Untyped. It never fails.
type UntypedInferrer struct{}

func (UntypedInferrer) Infer(value.Value) (DBType, error) { return Untyped, nil }
