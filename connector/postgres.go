package connector

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Konsultn-Engineering/antisqli/config"
	"github.com/Konsultn-Engineering/antisqli/database"
)

// openPostgres builds a pgx pool from cfg.DSN and the pool settings.
func openPostgres(ctx context.Context, cfg config.Database, opts ...database.Option) (database.Database, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	applyPool(poolCfg, cfg.Pool)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	return database.NewPgxDatabase(pool, opts...), nil
}

func applyPool(poolCfg *pgxpool.Config, p config.PoolConfig) {
	// Apply defaults
	if p.MaxOpen <= 0 {
		p.MaxOpen = 10
	}
	if p.MaxLifetime == 0 {
		p.MaxLifetime = time.Hour
	}
	if p.MaxIdleTime == 0 {
		p.MaxIdleTime = 30 * time.Minute
	}
	if p.MaxIdle > p.MaxOpen {
		p.MaxIdle = p.MaxOpen
	}

	poolCfg.MaxConns = int32(p.MaxOpen)
	poolCfg.MinConns = int32(p.MaxIdle)
	poolCfg.MaxConnLifetime = p.MaxLifetime
	poolCfg.MaxConnIdleTime = p.MaxIdleTime
}
