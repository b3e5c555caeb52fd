package param

import (
	"strconv"

	"github.com/Konsultn-Engineering/antisqli/value"
)

// Prefix is reserved for generated parameter names. Caller-authored names
// must not start with it.
const Prefix = "AntiSQLiParam"

// Name returns the generated name for the argument at ordinal i.
func Name(i int) string {
	return Prefix + strconv.Itoa(i)
}

// DBType is the declared type attached to a parameter.
type DBType uint8

const (
	// Untyped is declared by backends that bind parameters without a type,
	// such as document stores.
	Untyped DBType = iota
	String
	Int64
	Double
	Boolean
	DateTime
	Binary
	Decimal
	Guid
	dbTypeCount
)

var dbTypeNames = [...]string{
	Untyped:  "untyped",
	String:   "string",
	Int64:    "int64",
	Double:   "double",
	Boolean:  "boolean",
	DateTime: "datetime",
	Binary:   "binary",
	Decimal:  "decimal",
	Guid:     "guid",
}

func (t DBType) String() string {
	if t.Valid() {
		return dbTypeNames[t]
	}
	return "dbtype(" + strconv.Itoa(int(t)) + ")"
}

// Valid reports whether t is one of the declared constants.
func (t DBType) Valid() bool {
	return t < dbTypeCount
}

// MarshalText renders the type by name so JSON output stays readable.
func (t DBType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Parameter is one named, typed argument carrier.
type Parameter struct {
	Name  string
	Value value.Value
	Type  DBType
}

// Set is the ordered parameter collection produced for one argument list.
// Set[i] always carries Name(i).
type Set []Parameter

// Names returns the parameter names in order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, p := range s {
		names[i] = p.Name
	}
	return names
}

// Values returns the native Go values in order.
func (s Set) Values() []any {
	vals := make([]any, len(s))
	for i, p := range s {
		vals[i] = p.Value.Any()
	}
	return vals
}
