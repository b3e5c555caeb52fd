// Package logging builds the zap logger used by the antisqli tool.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Konsultn-Engineering/antisqli/config"
)

// New returns a logger writing to stderr and, when cfg.File is set, to a
// rotating JSON log file.
func New(cfg config.Log) (*zap.Logger, error) {
	return build(cfg, os.Stderr)
}

func build(cfg config.Log, console io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var consoleEncoder zapcore.Encoder
	switch cfg.Format {
	case "console":
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		consoleEncoder = zapcore.NewConsoleEncoder(encCfg)
	case "json", "":
		consoleEncoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(console), level),
	}

	if cfg.File != "" {
		fileSyncer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, fileSyncer, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
