package connector

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Konsultn-Engineering/antisqli/cache"
	"github.com/Konsultn-Engineering/antisqli/config"
	"github.com/Konsultn-Engineering/antisqli/database"
)

func openSQLite(_ context.Context, cfg config.Database, opts ...database.Option) (database.Database, error) {
	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, err
	}
	applySQLPool(db, cfg.Pool)

	if cfg.StatementCacheSize > 0 {
		stmts, err := cache.NewStatementCache(cfg.StatementCacheSize)
		if err != nil {
			db.Close()
			return nil, err
		}
		opts = append([]database.Option{database.WithStatementCache(stmts)}, opts...)
	}
	return database.NewSqlDatabase(db, "sqlite", opts...), nil
}

func openGormSQLite(_ context.Context, cfg config.Database, opts ...database.Option) (database.Database, error) {
	gdb, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	db, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	applySQLPool(db, cfg.Pool)
	return database.NewGormDatabase(gdb, opts...), nil
}

func applySQLPool(db *sql.DB, p config.PoolConfig) {
	if p.MaxOpen > 0 {
		db.SetMaxOpenConns(p.MaxOpen)
	}
	if p.MaxIdle > 0 {
		db.SetMaxIdleConns(p.MaxIdle)
	}
	db.SetConnMaxLifetime(p.MaxLifetime)
	db.SetConnMaxIdleTime(p.MaxIdleTime)
}
