package logger

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete_Shorthands(t *testing.T) {
	o := NewOptions()
	o.DefaultLevel = "debug"
	o.PrettyLogs = true
	o.Colorize = true
	require.NoError(t, o.Complete())

	assert.Equal(t, "DEBUG", o.Level)
	assert.Equal(t, "console", o.Format)
	assert.True(t, o.Development)
}

func TestComplete_KeepsJSONByDefault(t *testing.T) {
	o := NewOptions()
	require.NoError(t, o.Complete())
	assert.Equal(t, "INFO", o.Level)
	assert.Equal(t, "json", o.Format)
	assert.False(t, o.Development)
}

func TestValidate(t *testing.T) {
	o := NewOptions()
	require.NoError(t, o.Complete())
	assert.Empty(t, o.Validate())

	o.DefaultLevel = "loud"
	assert.NotEmpty(t, o.Validate())
}

func TestAddFlags(t *testing.T) {
	o := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log.level=warn", "--log.pretty-logs"}))
	assert.Equal(t, "warn", o.DefaultLevel)
	assert.True(t, o.PrettyLogs)
}

func TestCreateLogger(t *testing.T) {
	o := NewOptions()
	o.OutputPaths = []string{"stderr"}
	l, err := o.CreateLogger()
	require.NoError(t, err)
	require.NotNil(t, l)
	l.Infow("logger ready", "component", "test")
}
