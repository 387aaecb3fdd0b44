package config

import (
	"reflect"

	"dario.cat/mergo"
	"github.com/spf13/pflag"

	"github.com/kart-io/launchpad/pkg/options/app"
	"github.com/kart-io/launchpad/pkg/options/database"
	"github.com/kart-io/launchpad/pkg/options/i18n"
	"github.com/kart-io/launchpad/pkg/options/jwt"
	"github.com/kart-io/launchpad/pkg/options/logger"
	"github.com/kart-io/launchpad/pkg/options/middleware"
	"github.com/kart-io/launchpad/pkg/options/swagger"
)

// Section keys as they appear in config files.
const (
	KeyApp        = "app"
	KeyLog        = "log"
	KeySwagger    = "swagger"
	KeyI18n       = "i18n"
	KeyDatabase   = "database"
	KeyMiddleware = "middleware"
	KeyJWT        = "jwt"
)

// Sections is the root configuration. A nil section is absent.
type Sections struct {
	App        *app.Options        `json:"app" mapstructure:"app"`
	Log        *logger.Options     `json:"log" mapstructure:"log"`
	Swagger    *swagger.Options    `json:"swagger" mapstructure:"swagger"`
	I18n       *i18n.Options       `json:"i18n" mapstructure:"i18n"`
	Database   *database.Options   `json:"database" mapstructure:"database"`
	Middleware *middleware.Options `json:"middleware" mapstructure:"middleware"`
	JWT        *jwt.Options        `json:"jwt" mapstructure:"jwt"`
}

// NewSections returns every section populated with defaults.
func NewSections() *Sections {
	return &Sections{
		App:        app.NewOptions(),
		Log:        logger.NewOptions(),
		Swagger:    swagger.NewOptions(),
		I18n:       i18n.NewOptions(),
		Database:   database.NewOptions(),
		Middleware: middleware.NewOptions(),
		JWT:        jwt.NewOptions(),
	}
}

// AddFlags registers the flags of every section.
func (s *Sections) AddFlags(fs *pflag.FlagSet) {
	s.App.AddFlags(fs)
	s.Log.AddFlags(fs)
	s.Swagger.AddFlags(fs)
	s.I18n.AddFlags(fs)
	s.Database.AddFlags(fs)
	s.Middleware.AddFlags(fs)
	s.JWT.AddFlags(fs)
}

// WithDefaults fills the zero fields of the present sections from their
// defaults and returns s. Absent sections stay absent. Boolean switches that
// default to true cannot be turned off this way; load them from a file.
func (s *Sections) WithDefaults() (*Sections, error) {
	defaults := NewSections()
	pairs := []struct{ dst, src interface{} }{
		{s.App, defaults.App},
		{s.Log, defaults.Log},
		{s.Swagger, defaults.Swagger},
		{s.I18n, defaults.I18n},
		{s.Database, defaults.Database},
		{s.Middleware, defaults.Middleware},
		{s.JWT, defaults.JWT},
	}
	for _, p := range pairs {
		if isNil(p.dst) {
			continue
		}
		if err := mergo.Merge(p.dst, p.src); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func isNil(v interface{}) bool {
	rv := reflect.ValueOf(v)
	return !rv.IsValid() || rv.IsNil()
}
