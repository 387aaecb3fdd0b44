package logger

import (
	"context"
	"fmt"
	"sync"

	"github.com/kart-io/logger/core"
)

// Entry is one captured log call.
type Entry struct {
	Level   core.Level
	Message string
	Fields  []interface{}
}

// Field returns the value of key in the entry fields.
func (e Entry) Field(key string) (interface{}, bool) {
	for i := 0; i+1 < len(e.Fields); i += 2 {
		if k, ok := e.Fields[i].(string); ok && k == key {
			return e.Fields[i+1], true
		}
	}
	return nil, false
}

type entryStore struct {
	mu      sync.Mutex
	entries []Entry
	level   core.Level
}

// Buffer is a core.Logger that keeps entries in memory. It collects what is
// logged before the configured logger exists; Replay hands them over.
// Fatal calls are recorded and never exit.
type Buffer struct {
	store  *entryStore
	fields []interface{}
}

var _ core.Logger = (*Buffer)(nil)

// NewBuffer creates an empty buffer capturing every level.
func NewBuffer() *Buffer {
	return &Buffer{store: &entryStore{level: core.DebugLevel}}
}

func (b *Buffer) record(level core.Level, msg string, kv []interface{}) {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	if level < b.store.level {
		return
	}
	fields := make([]interface{}, 0, len(b.fields)+len(kv))
	fields = append(fields, b.fields...)
	fields = append(fields, kv...)
	b.store.entries = append(b.store.entries, Entry{Level: level, Message: msg, Fields: fields})
}

// Entries returns a copy of the captured entries.
func (b *Buffer) Entries() []Entry {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return append([]Entry(nil), b.store.entries...)
}

// Len returns the number of captured entries.
func (b *Buffer) Len() int {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return len(b.store.entries)
}

// Replay writes the captured entries to dst in order and empties the buffer.
func (b *Buffer) Replay(dst core.Logger) int {
	b.store.mu.Lock()
	entries := b.store.entries
	b.store.entries = nil
	b.store.mu.Unlock()

	for _, e := range entries {
		switch e.Level {
		case core.DebugLevel:
			dst.Debugw(e.Message, e.Fields...)
		case core.InfoLevel:
			dst.Infow(e.Message, e.Fields...)
		case core.WarnLevel:
			dst.Warnw(e.Message, e.Fields...)
		default:
			// fatal entries are replayed as errors so replay never exits
			dst.Errorw(e.Message, e.Fields...)
		}
	}
	return len(entries)
}

func (b *Buffer) Debug(args ...interface{}) { b.record(core.DebugLevel, fmt.Sprint(args...), nil) }
func (b *Buffer) Info(args ...interface{})  { b.record(core.InfoLevel, fmt.Sprint(args...), nil) }
func (b *Buffer) Warn(args ...interface{})  { b.record(core.WarnLevel, fmt.Sprint(args...), nil) }
func (b *Buffer) Error(args ...interface{}) { b.record(core.ErrorLevel, fmt.Sprint(args...), nil) }
func (b *Buffer) Fatal(args ...interface{}) { b.record(core.FatalLevel, fmt.Sprint(args...), nil) }

func (b *Buffer) Debugf(template string, args ...interface{}) {
	b.record(core.DebugLevel, fmt.Sprintf(template, args...), nil)
}

func (b *Buffer) Infof(template string, args ...interface{}) {
	b.record(core.InfoLevel, fmt.Sprintf(template, args...), nil)
}

func (b *Buffer) Warnf(template string, args ...interface{}) {
	b.record(core.WarnLevel, fmt.Sprintf(template, args...), nil)
}

func (b *Buffer) Errorf(template string, args ...interface{}) {
	b.record(core.ErrorLevel, fmt.Sprintf(template, args...), nil)
}

func (b *Buffer) Fatalf(template string, args ...interface{}) {
	b.record(core.FatalLevel, fmt.Sprintf(template, args...), nil)
}

func (b *Buffer) Debugw(msg string, keysAndValues ...interface{}) {
	b.record(core.DebugLevel, msg, keysAndValues)
}

func (b *Buffer) Infow(msg string, keysAndValues ...interface{}) {
	b.record(core.InfoLevel, msg, keysAndValues)
}

func (b *Buffer) Warnw(msg string, keysAndValues ...interface{}) {
	b.record(core.WarnLevel, msg, keysAndValues)
}

func (b *Buffer) Errorw(msg string, keysAndValues ...interface{}) {
	b.record(core.ErrorLevel, msg, keysAndValues)
}

func (b *Buffer) Fatalw(msg string, keysAndValues ...interface{}) {
	b.record(core.FatalLevel, msg, keysAndValues)
}

// With returns a child sharing the same store.
func (b *Buffer) With(keyValues ...interface{}) core.Logger {
	fields := make([]interface{}, 0, len(b.fields)+len(keyValues))
	fields = append(fields, b.fields...)
	fields = append(fields, keyValues...)
	return &Buffer{store: b.store, fields: fields}
}

// WithCtx adds the context fields, then keyValues.
func (b *Buffer) WithCtx(ctx context.Context, keyValues ...interface{}) core.Logger {
	return b.With(append(GetContextFields(ctx), keyValues...)...)
}

func (b *Buffer) WithCallerSkip(int) core.Logger { return b }

// SetLevel drops subsequent entries below level.
func (b *Buffer) SetLevel(level core.Level) {
	b.store.mu.Lock()
	b.store.level = level
	b.store.mu.Unlock()
}

func (b *Buffer) Flush() error { return nil }
