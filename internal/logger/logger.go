package logger

import (
	"context"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Additional-Code/orderloader/internal/config"
)

// Module exposes a configured Zap logger to the Fx container.
var Module = fx.Provide(New)

// New builds a dual-sink Zap logger: an append-only log file capturing debug
// granularity and a console stream at informational granularity and above.
// Callers own the cleanup via Fx lifecycle.
func New(lc fx.Lifecycle, cfg config.Config) (*zap.Logger, error) {
	core, closeFn, err := buildCore(cfg.Logging)
	if err != nil {
		return nil, err
	}

	logger := zap.New(core).With(
		zap.String("service", cfg.Observability.ServiceName),
		zap.String("environment", cfg.Observability.Environment),
	)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = logger.Sync()
			return closeFn()
		},
	})

	return logger, nil
}

// buildCore assembles the tee of file and console sinks. The returned func
// closes the file sink and must be called after the final Sync.
func buildCore(cfg config.Logging) (zapcore.Core, func() error, error) {
	fileLevel := parseLevel(cfg.FileLevel, zapcore.DebugLevel)
	consoleLevel := parseLevel(cfg.ConsoleLevel, zapcore.InfoLevel)

	fileEnc := zap.NewProductionEncoderConfig()
	fileEnc.TimeKey = "ts"
	fileEnc.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339Nano)
	fileEnc.EncodeDuration = zapcore.StringDurationEncoder
	fileEnc.EncodeLevel = zapcore.LowercaseLevelEncoder

	file, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	consoleEnc := zap.NewDevelopmentEncoderConfig()
	consoleEnc.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	consoleEnc.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEnc), zapcore.AddSync(file), fileLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEnc), zapcore.Lock(os.Stderr), consoleLevel),
	)

	return core, file.Close, nil
}

func parseLevel(raw string, fallback zapcore.Level) zapcore.Level {
	level := fallback
	if err := level.Set(raw); err != nil {
		return fallback
	}
	return level
}
