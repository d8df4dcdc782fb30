package logging

import (
	"context"

	"github.com/sirupsen/logrus"
)

type logrusLogger struct {
	logger logrus.FieldLogger
}

// NewLogrus adapts a logrus logger or entry. A nil logger yields
// logrus.StandardLogger().
func NewLogrus(l logrus.FieldLogger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &logrusLogger{logger: l}
}

func (l *logrusLogger) Log(_ context.Context, level Level, msg string, fields ...Field) {
	entry := l.logger
	if len(fields) > 0 {
		data := make(logrus.Fields, len(fields))
		for _, f := range fields {
			data[f.Key] = f.Value
		}
		entry = l.logger.WithFields(data)
	}

	switch level {
	case LevelDebug:
		entry.Debug(msg)
	case LevelWarn:
		entry.Warn(msg)
	case LevelError:
		entry.Error(msg)
	default:
		entry.Info(msg)
	}
}
