// Package logger provides context-aware structured logging on top of
// logrus. Request-scoped fields travel in the context so every layer logs
// with the same conversation and owner tags.
package logger

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

type contextKey struct{}

var base = newBase()

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		l.SetLevel(level)
	}
	return l
}

// GetLogger returns the entry carried by the context, or a plain entry on
// the shared logger when the context has none.
func GetLogger(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(contextKey{}).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(base)
}

// WithField returns a context whose logger carries an extra field.
func WithField(ctx context.Context, key string, value interface{}) context.Context {
	return context.WithValue(ctx, contextKey{}, GetLogger(ctx).WithField(key, value))
}

// WithFields returns a context whose logger carries extra fields.
func WithFields(ctx context.Context, fields map[string]interface{}) context.Context {
	return context.WithValue(ctx, contextKey{}, GetLogger(ctx).WithFields(fields))
}

// Info logs at info level, formatting when args are given.
func Info(ctx context.Context, format string, args ...interface{}) {
	GetLogger(ctx).Infof(format, args...)
}

// Debugf logs at debug level.
func Debugf(ctx context.Context, format string, args ...interface{}) {
	GetLogger(ctx).Debugf(format, args...)
}

// Warnf logs at warn level.
func Warnf(ctx context.Context, format string, args ...interface{}) {
	GetLogger(ctx).Warnf(format, args...)
}

// Errorf logs at error level.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	GetLogger(ctx).Errorf(format, args...)
}
