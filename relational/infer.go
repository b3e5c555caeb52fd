package relational

import (
	"database/sql/driver"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Konsultn-Engineering/antisqli/param"
	"github.com/Konsultn-Engineering/antisqli/value"
)

// SQLInferrer types a value by what database/sql would send for it.
type SQLInferrer struct{}

func (SQLInferrer) Infer(v value.Value) (param.DBType, error) {
	if v.IsNull() {
		return param.Untyped, &param.UnsupportedError{Kind: v.Kind()}
	}
	dv, err := driver.DefaultParameterConverter.ConvertValue(v.Any())
	if err != nil {
		return param.Untyped, err
	}
	switch dv.(type) {
	case string:
		return param.String, nil
	case int64:
		return param.Int64, nil
	case float64:
		return param.Double, nil
	case bool:
		return param.Boolean, nil
	case time.Time:
		return param.DateTime, nil
	case []byte:
		return param.Binary, nil
	default:
		return param.Untyped, fmt.Errorf("driver value %T has no declared type", dv)
	}
}

// PgxInferrer types a value by the PostgreSQL type pgx would encode it as.
type PgxInferrer struct{}

// pgtype.Map memoizes lookups and is not safe for concurrent use.
var typeMaps = sync.Pool{
	New: func() any { return pgtype.NewMap() },
}

var oidTypes = map[uint32]param.DBType{
	pgtype.TextOID:        param.String,
	pgtype.VarcharOID:     param.String,
	pgtype.BPCharOID:      param.String,
	pgtype.Int8OID:        param.Int64,
	pgtype.Int4OID:        param.Int64,
	pgtype.Int2OID:        param.Int64,
	pgtype.Float8OID:      param.Double,
	pgtype.Float4OID:      param.Double,
	pgtype.BoolOID:        param.Boolean,
	pgtype.TimestamptzOID: param.DateTime,
	pgtype.TimestampOID:   param.DateTime,
	pgtype.DateOID:        param.DateTime,
	pgtype.ByteaOID:       param.Binary,
	pgtype.NumericOID:     param.Decimal,
	pgtype.UUIDOID:        param.Guid,
}

func (PgxInferrer) Infer(v value.Value) (param.DBType, error) {
	if v.IsNull() {
		return param.Untyped, &param.UnsupportedError{Kind: v.Kind()}
	}

	m := typeMaps.Get().(*pgtype.Map)
	defer typeMaps.Put(m)

	t, ok := m.TypeForValue(pgProbe(v))
	if !ok {
		return param.Untyped, fmt.Errorf("pgx has no type for %T", v.Any())
	}
	if dt, ok := oidTypes[t.OID]; ok {
		return dt, nil
	}
	return param.Untyped, fmt.Errorf("postgres type %s has no declared type", t.Name)
}

// pgProbe substitutes the pgtype representative for kinds pgx does not map
// by Go type.
func pgProbe(v value.Value) any {
	switch v.Kind() {
	case value.KindDecimal:
		return pgtype.Numeric{}
	case value.KindUUID:
		return pgtype.UUID{}
	default:
		return v.Any()
	}
}
