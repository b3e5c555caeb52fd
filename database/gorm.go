package database

import (
	"context"

	"gorm.io/gorm"
)

// GormDatabase implements Database for *gorm.DB. gorm expands sql.NamedArg
// values against @name references, so commands bound with
// relational.NamedArg run on any gorm dialector.
type GormDatabase struct {
	db   *gorm.DB
	inst instrument
}

func NewGormDatabase(db *gorm.DB, opts ...Option) *GormDatabase {
	o := newOptions(opts)
	return &GormDatabase{db: db, inst: newInstrument(o.tracerProvider, db.Dialector.Name())}
}

func (g *GormDatabase) QueryContext(ctx context.Context, stmt Statement) (_ Rows, err error) {
	ctx, span := g.inst.start(ctx, "query", stmt)
	defer func() { finish(span, err) }()

	rows, err := g.db.WithContext(ctx).Raw(stmt.SQL(), stmt.Args()...).Rows()
	if err != nil {
		return nil, err
	}
	return &SqlRows{rows: rows}, nil
}

func (g *GormDatabase) ExecContext(ctx context.Context, stmt Statement) (_ Result, err error) {
	ctx, span := g.inst.start(ctx, "exec", stmt)
	defer func() { finish(span, err) }()

	tx := g.db.WithContext(ctx).Exec(stmt.SQL(), stmt.Args()...)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return gormResult(tx.RowsAffected), nil
}

func (g *GormDatabase) PingContext(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (g *GormDatabase) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormResult int64

func (r gormResult) RowsAffected() (int64, error) { return int64(r), nil }

var _ Database = (*GormDatabase)(nil)
