package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/launchpad/pkg/infra/config"
)

const testConfig = `
app:
  prefix: api
  port: 3005
database:
  run-seeds: true
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "master.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	return path
}

func TestApp_LoadsSections(t *testing.T) {
	var provider config.Provider
	a := NewApp(
		WithName("master"),
		WithSilence(),
		WithRunFunc(func(_ context.Context, p config.Provider) error {
			provider = p
			return nil
		}),
	)

	require.NoError(t, a.Execute(context.Background(), "-c", writeConfig(t), "--app.port", "3100"))
	require.NotNil(t, provider)

	appOpts, err := provider.App()
	require.NoError(t, err)
	assert.Equal(t, "api", appOpts.Prefix)
	assert.Equal(t, 3100, appOpts.Port, "flags override the file")

	db, err := provider.Database()
	require.NoError(t, err)
	assert.True(t, db.RunSeeds)
	assert.Equal(t, "sqlite", db.Driver, "defaults fill unset fields")

	_, err = provider.Swagger()
	assert.True(t, config.IsMissing(err))
}

func TestApp_EnvironmentPrefix(t *testing.T) {
	t.Setenv("MASTER_APP_PREFIX", "internal")

	var prefix string
	a := NewApp(
		WithName("master"),
		WithSilence(),
		WithRunFunc(func(_ context.Context, p config.Provider) error {
			appOpts, err := p.App()
			if err != nil {
				return err
			}
			prefix = appOpts.Prefix
			return nil
		}),
	)

	require.NoError(t, a.Execute(context.Background(), "-c", writeConfig(t)))
	assert.Equal(t, "internal", prefix)
}

func TestApp_Errors(t *testing.T) {
	boom := errors.New("boom")
	a := NewApp(
		WithName("master"),
		WithSilence(),
		WithRunFunc(func(context.Context, config.Provider) error { return boom }),
	)
	assert.ErrorIs(t, a.Execute(context.Background(), "-c", writeConfig(t)), boom)

	a = NewApp(WithName("master"), WithSilence())
	err := a.Execute(context.Background(), "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestApp_Flags(t *testing.T) {
	cmd := NewApp(WithName("master")).Command()
	for _, name := range []string{"config", "version", "help"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "c", cmd.PersistentFlags().Lookup("config").Shorthand)
	assert.NotNil(t, cmd.Flags().Lookup("app.prefix"))
	assert.NotNil(t, cmd.Flags().Lookup("database.run-seeds"))

	assert.Nil(t, NewApp(WithName("master"), WithNoVersion()).Command().PersistentFlags().Lookup("version"))
}
