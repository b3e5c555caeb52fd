// Package connector opens a database.Database from configuration.
package connector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/antisqli/config"
	"github.com/Konsultn-Engineering/antisqli/database"
)

// Opener connects to one kind of backend.
type Opener func(ctx context.Context, cfg config.Database, opts ...database.Option) (database.Database, error)

type manager struct {
	openers map[string]Opener
	mu      sync.RWMutex
}

var globalManager = &manager{
	openers: map[string]Opener{
		"postgres": openPostgres,
		"sqlite":   openSQLite,
		"gorm":     openGormSQLite,
	},
}

// Register adds or replaces the opener for driver.
func Register(driver string, o Opener) {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.openers[driver] = o
}

// Drivers lists registered driver names.
func Drivers() []string {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	out := make([]string, 0, len(globalManager.openers))
	for name := range globalManager.openers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Open connects with cfg.Driver and verifies the connection, retrying as
// cfg.Retry allows.
func Open(ctx context.Context, cfg config.Database, logger *zap.Logger, opts ...database.Option) (database.Database, error) {
	globalManager.mu.RLock()
	open, ok := globalManager.openers[cfg.Driver]
	globalManager.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("driver %q not registered", cfg.Driver)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	var db database.Database
	connect := func(ctx context.Context) error {
		conn, err := open(ctx, cfg, opts...)
		if err != nil {
			return err
		}
		if conn == nil {
			return fmt.Errorf("driver %q returned no database", cfg.Driver)
		}
		if err := conn.PingContext(ctx); err != nil {
			conn.Close()
			return err
		}
		db = conn
		return nil
	}

	if cfg.Retry == nil {
		if err := connect(ctx); err != nil {
			return nil, err
		}
		return db, nil
	}
	if err := retryConnect(ctx, cfg.Retry, logger, connect); err != nil {
		return nil, fmt.Errorf("failed to connect after %d attempts: %w", max(cfg.Retry.MaxRetries, 1), err)
	}
	if db == nil {
		return nil, errors.New("connect reported success without a database")
	}
	return db, nil
}
