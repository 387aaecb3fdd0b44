// Package logger provides context propagation and buffering on top of
// github.com/kart-io/logger.
package logger

import (
	"context"

	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"
)

// Field keys shared by every request-scoped log line.
const (
	FieldRequestID = "request_id"
	FieldUserID    = "user_id"
)

// contextKey is the type for context keys to avoid collisions.
type contextKey int

const (
	loggerFieldsKey contextKey = iota
	contextLoggerKey
)

// loggerFields holds structured logging fields carried by a context.
type loggerFields struct {
	keys   []string
	values map[string]interface{}
}

func newLoggerFields() *loggerFields {
	return &loggerFields{values: make(map[string]interface{})}
}

func (lf *loggerFields) clone() *loggerFields {
	c := &loggerFields{
		keys:   append([]string(nil), lf.keys...),
		values: make(map[string]interface{}, len(lf.values)),
	}
	for k, v := range lf.values {
		c.values[k] = v
	}
	return c
}

func (lf *loggerFields) set(key string, value interface{}) {
	if _, ok := lf.values[key]; !ok {
		lf.keys = append(lf.keys, key)
	}
	lf.values[key] = value
}

// toSlice returns the fields in insertion order.
func (lf *loggerFields) toSlice() []interface{} {
	if len(lf.keys) == 0 {
		return nil
	}
	slice := make([]interface{}, 0, len(lf.keys)*2)
	for _, k := range lf.keys {
		slice = append(slice, k, lf.values[k])
	}
	return slice
}

func getLoggerFields(ctx context.Context) *loggerFields {
	if lf, ok := ctx.Value(loggerFieldsKey).(*loggerFields); ok {
		return lf
	}
	return newLoggerFields()
}

func withField(ctx context.Context, key string, value interface{}) context.Context {
	lf := getLoggerFields(ctx).clone()
	lf.set(key, value)
	return context.WithValue(ctx, loggerFieldsKey, lf)
}

// WithRequestID adds request_id to the context logger fields.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return withField(ctx, FieldRequestID, requestID)
}

// WithUserID adds user_id to the context logger fields.
func WithUserID(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return withField(ctx, FieldUserID, userID)
}

// WithFields adds multiple custom fields to the context at once.
func WithFields(ctx context.Context, keysAndValues ...interface{}) context.Context {
	if len(keysAndValues) == 0 {
		return ctx
	}
	if len(keysAndValues)%2 != 0 {
		// odd number of arguments, ignore the last one
		keysAndValues = keysAndValues[:len(keysAndValues)-1]
	}

	lf := getLoggerFields(ctx).clone()
	for i := 0; i < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			lf.set(key, keysAndValues[i+1])
		}
	}
	return context.WithValue(ctx, loggerFieldsKey, lf)
}

// GetContextFields retrieves all logger fields from context as a slice.
func GetContextFields(ctx context.Context) []interface{} {
	return getLoggerFields(ctx).toSlice()
}

// GetLogger returns the context-scoped logger, or the global logger
// decorated with the context fields.
func GetLogger(ctx context.Context) core.Logger {
	if ctxLogger, ok := ctx.Value(contextLoggerKey).(core.Logger); ok {
		return ctxLogger
	}

	baseLogger := logger.Global()
	fields := GetContextFields(ctx)
	if len(fields) == 0 {
		return baseLogger
	}
	return baseLogger.With(fields...)
}

// WithLogger stores a pre-configured logger in the context.
func WithLogger(ctx context.Context, log core.Logger) context.Context {
	return context.WithValue(ctx, contextLoggerKey, log)
}
