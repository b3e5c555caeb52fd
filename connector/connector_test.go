package connector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Konsultn-Engineering/antisqli/config"
	"github.com/Konsultn-Engineering/antisqli/database"
)

func memory(driver string) config.Database {
	cfg := config.Default().Database
	cfg.Driver = driver
	cfg.DSN = ":memory:"
	cfg.Pool.MaxOpen = 1
	return cfg
}

func TestOpen_SQLite(t *testing.T) {
	for _, driver := range []string{"sqlite", "gorm"} {
		t.Run(driver, func(t *testing.T) {
			db, err := Open(context.Background(), memory(driver), nil)
			require.NoError(t, err)
			defer db.Close()

			_, err = db.ExecContext(context.Background(), database.Static("CREATE TABLE t (a INTEGER)"))
			assert.NoError(t, err)
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Database{Driver: "oracle"}, nil)
	assert.EqualError(t, err, `driver "oracle" not registered`)
}

func TestOpen_PostgresBadDSN(t *testing.T) {
	cfg := config.Database{Driver: "postgres", DSN: "postgres://%zz"}
	_, err := Open(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestOpen_Retry(t *testing.T) {
	attempts := 0
	boom := errors.New("connection refused")
	Register("flaky", func(ctx context.Context, cfg config.Database, opts ...database.Option) (database.Database, error) {
		attempts++
		if attempts < 3 {
			return nil, boom
		}
		return openSQLite(ctx, memory("sqlite"), opts...)
	})

	core, logs := observer.New(zap.WarnLevel)
	cfg := config.Database{
		Driver: "flaky",
		Retry:  &config.RetryConfig{MaxRetries: 5, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond},
	}

	db, err := Open(context.Background(), cfg, zap.New(core))
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, logs.FilterMessage("connect failed, retrying").Len())
}

func TestOpen_RetryExhausted(t *testing.T) {
	boom := errors.New("connection refused")
	Register("down", func(context.Context, config.Database, ...database.Option) (database.Database, error) {
		return nil, boom
	})

	cfg := config.Database{
		Driver: "down",
		Retry:  &config.RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond},
	}
	_, err := Open(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "after 2 attempts")
}

func TestOpen_RetryHonorsContext(t *testing.T) {
	Register("slow", func(context.Context, config.Database, ...database.Option) (database.Database, error) {
		return nil, errors.New("unreachable")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := config.Database{
		Driver: "slow",
		Retry:  &config.RetryConfig{MaxRetries: 3, BaseDelay: time.Hour},
	}
	_, err := Open(ctx, cfg, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_ZeroRetries(t *testing.T) {
	tests := []struct {
		name  string
		retry *config.RetryConfig
	}{
		{"zero value", &config.RetryConfig{}},
		{"negative", &config.RetryConfig{MaxRetries: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := memory("sqlite")
			cfg.Retry = tt.retry

			db, err := Open(context.Background(), cfg, nil)
			require.NoError(t, err)
			require.NotNil(t, db)
			defer db.Close()
			assert.NoError(t, db.PingContext(context.Background()))
		})
	}
}

func TestOpen_ZeroRetriesFailure(t *testing.T) {
	attempts := 0
	boom := errors.New("connection refused")
	Register("once", func(context.Context, config.Database, ...database.Option) (database.Database, error) {
		attempts++
		return nil, boom
	})

	cfg := config.Database{Driver: "once", Retry: &config.RetryConfig{}}
	db, err := Open(context.Background(), cfg, nil)
	assert.Nil(t, db)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "after 1 attempts")
	assert.Equal(t, 1, attempts)
}

func TestOpen_NilDatabase(t *testing.T) {
	Register("empty", func(context.Context, config.Database, ...database.Option) (database.Database, error) {
		return nil, nil
	})

	db, err := Open(context.Background(), config.Database{Driver: "empty"}, nil)
	assert.Nil(t, db)
	assert.ErrorContains(t, err, `driver "empty" returned no database`)
}

func TestDrivers(t *testing.T) {
	assert.Subset(t, Drivers(), []string{"gorm", "postgres", "sqlite"})
}
