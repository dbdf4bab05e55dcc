package logger

import (
	"bytes"
	"context"
)

// logWriter implements io.Writer so a Logger can back a standard library
// *log.Logger, which the http.Server error log requires.
type logWriter struct {
	logger *Logger
	level  Level
}

// Write implements the io.Writer interface.
func (l *logWriter) Write(p []byte) (int, error) {
	msg := string(bytes.TrimSpace(p))

	switch l.level {
	case LevelDebug:
		l.logger.Debugc(context.Background(), 5, msg)
	case LevelWarn:
		l.logger.Warnc(context.Background(), 5, msg)
	case LevelError:
		l.logger.Errorc(context.Background(), 5, msg)
	default:
		l.logger.Infoc(context.Background(), 5, msg)
	}

	return len(p), nil
}
