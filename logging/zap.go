package logging

import (
	"context"

	"go.uber.org/zap"
)

type zapLogger struct {
	logger *zap.Logger
}

// NewZap adapts a zap logger. A nil logger yields a no-op zap logger.
func NewZap(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLogger{logger: l}
}

func (l *zapLogger) Log(_ context.Context, level Level, msg string, fields ...Field) {
	zapFields := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok && f.Key == "error" {
			zapFields = append(zapFields, zap.Error(err))
			continue
		}
		zapFields = append(zapFields, zap.Any(f.Key, f.Value))
	}

	switch level {
	case LevelDebug:
		l.logger.Debug(msg, zapFields...)
	case LevelWarn:
		l.logger.Warn(msg, zapFields...)
	case LevelError:
		l.logger.Error(msg, zapFields...)
	default:
		l.logger.Info(msg, zapFields...)
	}
}
