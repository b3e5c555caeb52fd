package value

import (
	"database/sql/driver"
	"errors"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
	valuerType  = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
)

var errValuerPanic = errors.New("value: driver.Valuer panicked")

// maxValuerDepth bounds driver.Valuer chains that return other Valuers.
const maxValuerDepth = 8

// Of classifies an arbitrary Go value. It never fails: values that fit no
// variant become Other and are left to the inference fallback.
func Of(v any) Value {
	return of(v, 0)
}

// OfAll classifies every element of args, preserving order.
func OfAll(args []any) []Value {
	out := make([]Value, len(args))
	for i, a := range args {
		out[i] = Of(a)
	}
	return out
}

func of(v any, depth int) Value {
	// Fast path for the common concrete types.
	switch val := v.(type) {
	case nil:
		return Null()
	case Value:
		return val
	case string:
		return Text(val)
	case int:
		return Int(int64(val))
	case int64:
		return Int(val)
	case int32:
		return Int(int64(val))
	case float64:
		return Float(val)
	case bool:
		return Bool(val)
	case time.Time:
		return Time(val)
	case []byte:
		if val == nil {
			return Null()
		}
		return Binary(val)
	case decimal.Decimal:
		return Decimal(val)
	case uuid.UUID:
		return UUID(val)
	case ulid.ULID:
		return Text(val.String())
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return Null()
		}
		// Dereference unless the Valuer is only defined on the pointer.
		if _, ok := v.(driver.Valuer); !ok || rv.Elem().Type().Implements(valuerType) {
			return of(rv.Elem().Interface(), depth)
		}
	}

	if valuer, ok := v.(driver.Valuer); ok {
		return fromValuer(v, valuer, depth)
	}

	return ofReflect(rv)
}

func fromValuer(orig any, valuer driver.Valuer, depth int) Value {
	if depth >= maxValuerDepth {
		return Other(orig)
	}
	resolved, err := callValuer(valuer)
	if err != nil {
		return Other(orig)
	}
	return of(resolved, depth+1)
}

// callValuer shields classification from Valuers that panic.
func callValuer(valuer driver.Valuer) (v driver.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errValuerPanic
		}
	}()
	return valuer.Value()
}

func ofReflect(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Null()
	}

	// Named types declared over the well-known structs and arrays.
	t := rv.Type()
	switch {
	case rv.Kind() == reflect.Struct && t.ConvertibleTo(timeType):
		return Time(rv.Convert(timeType).Interface().(time.Time))
	case rv.Kind() == reflect.Struct && t.ConvertibleTo(decimalType):
		return Decimal(rv.Convert(decimalType).Interface().(decimal.Decimal))
	case rv.Kind() == reflect.Array && t.ConvertibleTo(uuidType):
		return UUID(rv.Convert(uuidType).Interface().(uuid.UUID))
	}

	switch rv.Kind() {
	case reflect.String:
		return Text(rv.String())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Decimal(decimal.RequireFromString(strconv.FormatUint(u, 10)))
		}
		return Int(int64(u))
	case reflect.Float32:
		// Round-trip through the shortest decimal form so 0.1 stays 0.1.
		f, _ := strconv.ParseFloat(strconv.FormatFloat(rv.Float(), 'g', -1, 32), 64)
		return Float(f)
	case reflect.Float64:
		return Float(rv.Float())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			if rv.IsNil() {
				return Null()
			}
			return Binary(rv.Bytes())
		}
	}

	return Other(rv.Interface())
}
