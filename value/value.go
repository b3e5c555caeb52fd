// Package value holds the closed set of argument kinds a query can be
// parameterized with. Every caller-supplied argument is classified into a
// Value before any parameter is built, so type inference always works on a
// known variant instead of an arbitrary interface.
package value

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind enumerates the argument variants.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindInteger
	KindFloat
	KindBool
	KindTime
	KindBinary
	KindDecimal
	KindUUID
	// KindOther carries a value none of the variants above could represent.
	KindOther
)

var kindNames = [...]string{
	KindNull:    "null",
	KindText:    "text",
	KindInteger: "integer",
	KindFloat:   "float",
	KindBool:    "bool",
	KindTime:    "time",
	KindBinary:  "binary",
	KindDecimal: "decimal",
	KindUUID:    "uuid",
	KindOther:   "other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a tagged union over the supported argument kinds. The zero Value
// is Null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	t    time.Time
	bin  []byte
	d    decimal.Decimal
	u    uuid.UUID
	raw  any
}

func Null() Value { return Value{kind: KindNull} }
func Text(s string) Value { return Value{kind: KindText, s: s} }
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }
func Decimal(d decimal.Decimal) Value { return Value{kind: KindDecimal, d: d} }
func UUID(u uuid.UUID) Value { return Value{kind: KindUUID, u: u} }

// Binary copies b so later mutation by the caller cannot change a bound value.
func Binary(b []byte) Value {
	if b == nil {
		return Value{kind: KindBinary}
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindBinary, bin: cp}
}

// Other wraps a value that has no dedicated variant.
func Other(v any) Value { return Value{kind: KindOther, raw: v} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Any returns the native Go representation of v: nil, string, int64,
// float64, bool, time.Time, []byte, decimal.Decimal, uuid.UUID or the raw
// value held by an Other.
func (v Value) Any() any {
	switch v.kind {
	case KindText:
		return v.s
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	case KindBinary:
		return v.bin
	case KindDecimal:
		return v.d
	case KindUUID:
		return v.u
	case KindOther:
		return v.raw
	default:
		return nil
	}
}

// String returns the canonical text form of v. Null renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.s
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	case KindBinary:
		return hex.EncodeToString(v.bin)
	case KindDecimal:
		return v.d.String()
	case KindUUID:
		return v.u.String()
	case KindOther:
		if s, ok := v.raw.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprint(v.raw)
	default:
		return ""
	}
}
