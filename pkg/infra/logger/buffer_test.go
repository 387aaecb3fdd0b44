package logger

import (
	"context"
	"testing"

	"github.com/kart-io/logger/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_RecordsAndReplays(t *testing.T) {
	buf := NewBuffer()
	buf.Infof("Initializing %s...", "server")
	buf.With("stage", 2).Warnw("slow stage", "ms", 12)
	buf.Fatal("never exits")
	require.Equal(t, 3, buf.Len())

	entries := buf.Entries()
	stage, ok := entries[1].Field("stage")
	require.True(t, ok)
	assert.Equal(t, 2, stage)

	dst := NewBuffer()
	assert.Equal(t, 3, buf.Replay(dst))
	assert.Zero(t, buf.Len())

	replayed := dst.Entries()
	require.Len(t, replayed, 3)
	assert.Equal(t, "Initializing server...", replayed[0].Message)
	assert.Equal(t, core.WarnLevel, replayed[1].Level)
	assert.Equal(t, core.ErrorLevel, replayed[2].Level)
}

func TestBuffer_SetLevel(t *testing.T) {
	buf := NewBuffer()
	buf.SetLevel(core.WarnLevel)
	buf.Debug("dropped")
	buf.Info("dropped")
	buf.Warn("kept")
	assert.Equal(t, 1, buf.Len())
}

func TestContextFields(t *testing.T) {
	ctx := WithRequestID(context.Background(), "rid-1")
	ctx = WithFields(ctx, "tenant", "acme", "dangling")
	ctx = WithRequestID(ctx, "")

	assert.Equal(t, []interface{}{FieldRequestID, "rid-1", "tenant", "acme"}, GetContextFields(ctx))

	buf := NewBuffer()
	buf.WithCtx(ctx).Infow("hello")
	rid, ok := buf.Entries()[0].Field(FieldRequestID)
	require.True(t, ok)
	assert.Equal(t, "rid-1", rid)
}

func TestGetLogger_PrefersContextLogger(t *testing.T) {
	buf := NewBuffer()
	ctx := WithLogger(context.Background(), buf)
	GetLogger(ctx).Infow("scoped")
	assert.Equal(t, 1, buf.Len())
}

func TestErrorFields(t *testing.T) {
	assert.Nil(t, ErrorFields(nil))
	fields := ErrorFields(context.Canceled)
	assert.Equal(t, "error", fields[0])
	assert.Equal(t, "context canceled", fields[1])
}
