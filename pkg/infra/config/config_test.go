package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/launchpad/pkg/options/app"
	"github.com/kart-io/launchpad/pkg/options/logger"
	"github.com/kart-io/launchpad/pkg/utils/errors"
)

const sampleConfig = `
app:
  prefix: api
  port: 3005
  cors:
    allow-origins: ["https://${LAUNCHPAD_TEST_ORIGIN}"]
swagger:
  swagger-path: /docs
  enabled: false
database:
  run-seeds: true
  driver: sqlite
  dsn: "file::memory:"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "master.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestProvider_AbsentSection(t *testing.T) {
	p := NewProvider(&Sections{})

	_, err := p.App()
	require.Error(t, err)
	assert.True(t, IsMissing(err))

	_, err = p.Swagger()
	assert.True(t, IsMissing(err))
}

func TestProvider_InvalidSection(t *testing.T) {
	p := NewProvider(&Sections{App: &app.Options{Prefix: "/bad/", Port: 3005}})

	_, err := p.App()
	require.Error(t, err)
	assert.False(t, IsMissing(err))
	assert.True(t, errors.IsCode(err, errors.ErrConfigInvalid.Code))
}

func TestProvider_AppDefaultVersion(t *testing.T) {
	p := NewProvider(&Sections{App: &app.Options{Prefix: "api", Port: 3005}})

	appOpts, err := p.App()
	require.NoError(t, err)
	assert.Equal(t, "1", appOpts.DefaultVersion)
	assert.NotNil(t, appOpts.CORS)
}

func TestSections_WithDefaults(t *testing.T) {
	s, err := (&Sections{
		App: &app.Options{Prefix: "api", Port: 3005},
		Log: &logger.Options{PrettyLogs: true},
	}).WithDefaults()
	require.NoError(t, err)

	assert.NotNil(t, s.App.CORS)
	assert.Equal(t, "1", s.App.DefaultVersion)
	require.NotNil(t, s.Log.LogOption)
	assert.Equal(t, "info", s.Log.DefaultLevel)
	assert.Nil(t, s.Swagger)

	p := NewProvider(s)
	appOpts, err := p.App()
	require.NoError(t, err)
	assert.Equal(t, 3005, appOpts.Port)
}

func TestLoader_Load(t *testing.T) {
	t.Setenv("LAUNCHPAD_TEST_ORIGIN", "app.example.com")
	t.Setenv("MASTER_DATABASE_LOG_LEVEL", "2")

	s := NewSections()
	fs := pflag.NewFlagSet("master", pflag.ContinueOnError)
	s.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--app.port=4000", "--i18n.default-language=zh"}))

	loaded, err := NewLoader("master").Load(writeConfig(t, sampleConfig), s, fs)
	require.NoError(t, err)

	require.NotNil(t, loaded.App)
	assert.Equal(t, "api", loaded.App.Prefix)
	assert.Equal(t, 4000, loaded.App.Port, "changed flags win over the file")
	assert.Equal(t, []string{"https://app.example.com"}, loaded.App.CORS.AllowOrigins)

	require.NotNil(t, loaded.Swagger)
	assert.False(t, loaded.Swagger.IsEnabled())

	require.NotNil(t, loaded.Database)
	assert.True(t, loaded.Database.RunSeeds)
	assert.Equal(t, 2, loaded.Database.LogLevel)

	require.NotNil(t, loaded.I18n, "a changed flag marks its section present")
	assert.Equal(t, "zh", loaded.I18n.DefaultLanguage)

	assert.Nil(t, loaded.Log)
	assert.Nil(t, loaded.Middleware)
	assert.Nil(t, loaded.JWT)
}

func TestLoader_FlagsOverrideFile(t *testing.T) {
	t.Setenv("LAUNCHPAD_TEST_ORIGIN", "file.example.com")
	t.Setenv("MASTER_APP_PREFIX", "env")

	s := NewSections()
	fs := pflag.NewFlagSet("master", pflag.ContinueOnError)
	s.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--app.port=4000",
		"--app.cors.allow-origins=https://a.example,https://b.example",
	}))

	loaded, err := NewLoader("master").Load(writeConfig(t, sampleConfig), s, fs)
	require.NoError(t, err)

	require.NotNil(t, loaded.App)
	assert.Equal(t, 4000, loaded.App.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, loaded.App.CORS.AllowOrigins)
	assert.Equal(t, "env", loaded.App.Prefix, "environment wins over the file")

	port, err := fs.GetInt("app.port")
	require.NoError(t, err)
	assert.Equal(t, 4000, port)
}

func TestLoader_MissingExplicitFile(t *testing.T) {
	_, err := NewLoader("master").Load(filepath.Join(t.TempDir(), "nope.yaml"), NewSections(), nil)
	assert.Error(t, err)
}
