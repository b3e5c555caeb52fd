package connector

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/antisqli/config"
)

// retryConnect calls connectFn until it succeeds or opts.MaxRetries attempts
// have failed. It always makes at least one attempt.
func retryConnect(ctx context.Context, opts *config.RetryConfig, logger *zap.Logger, connectFn func(context.Context) error) error {
	attempts := max(opts.MaxRetries, 1)
	delay := opts.BaseDelay
	if delay == 0 {
		delay = time.Second // default
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = connectFn(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		logger.Warn("connect failed, retrying",
			zap.Int("attempt", i+1),
			zap.Duration("delay", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
			if delay > opts.MaxDelay && opts.MaxDelay > 0 {
				delay = opts.MaxDelay
			}
		}
	}
	return err
}
