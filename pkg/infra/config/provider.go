// Package config supplies the typed, validated configuration sections every
// bootstrap stage consumes. Sections are loaded from YAML files, the process
// environment and command line flags with viper.
package config

import (
	stderrors "errors"

	"github.com/kart-io/launchpad/pkg/options"
	"github.com/kart-io/launchpad/pkg/options/app"
	"github.com/kart-io/launchpad/pkg/options/database"
	"github.com/kart-io/launchpad/pkg/options/i18n"
	"github.com/kart-io/launchpad/pkg/options/jwt"
	"github.com/kart-io/launchpad/pkg/options/logger"
	"github.com/kart-io/launchpad/pkg/options/middleware"
	"github.com/kart-io/launchpad/pkg/options/swagger"
	"github.com/kart-io/launchpad/pkg/utils/errors"
)

// Provider supplies configuration sections. An absent section yields an
// error matching errors.ErrConfigMissing; an invalid one errors.ErrConfigInvalid.
type Provider interface {
	App() (*app.Options, error)
	Logger() (*logger.Options, error)
	Swagger() (*swagger.Options, error)
	I18n() (*i18n.Options, error)
	Database() (*database.Options, error)
	Middleware() (*middleware.Options, error)
	JWT() (*jwt.Options, error)
}

// IsMissing reports whether err signals an absent section.
func IsMissing(err error) bool {
	return stderrors.Is(err, errors.ErrConfigMissing)
}

type sectionProvider struct {
	s *Sections
}

var _ Provider = (*sectionProvider)(nil)

// NewProvider returns a Provider serving the given sections. Each getter
// completes and validates its section before returning it.
func NewProvider(s *Sections) Provider {
	if s == nil {
		s = &Sections{}
	}
	return &sectionProvider{s: s}
}

func (p *sectionProvider) App() (*app.Options, error) {
	return resolve(KeyApp, p.s.App)
}

func (p *sectionProvider) Logger() (*logger.Options, error) {
	return resolve(KeyLog, p.s.Log)
}

func (p *sectionProvider) Swagger() (*swagger.Options, error) {
	return resolve(KeySwagger, p.s.Swagger)
}

func (p *sectionProvider) I18n() (*i18n.Options, error) {
	return resolve(KeyI18n, p.s.I18n)
}

func (p *sectionProvider) Database() (*database.Options, error) {
	return resolve(KeyDatabase, p.s.Database)
}

func (p *sectionProvider) Middleware() (*middleware.Options, error) {
	return resolve(KeyMiddleware, p.s.Middleware)
}

func (p *sectionProvider) JWT() (*jwt.Options, error) {
	return resolve(KeyJWT, p.s.JWT)
}

type section interface {
	comparable
	options.IOptions
}

func resolve[T section](key string, opts T) (T, error) {
	var zero T
	if opts == zero {
		return zero, errors.ErrConfigMissing.WithMessagef("config section %q not found", key)
	}
	if c, ok := any(opts).(options.Completer); ok {
		if err := c.Complete(); err != nil {
			return zero, errors.ErrConfigInvalid.WithMessagef("config section %q", key).WithCause(err)
		}
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return zero, errors.ErrConfigInvalid.
			WithMessagef("config section %q", key).
			WithCause(stderrors.Join(errs...))
	}
	return opts, nil
}
