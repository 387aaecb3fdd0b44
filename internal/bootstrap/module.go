// Package bootstrap assembles an HTTP application from its configuration in
// a fixed order and starts it.
package bootstrap

import (
	"net/http"
	"os"

	"github.com/kart-io/logger/core"
	"github.com/swaggo/swag"

	"github.com/kart-io/launchpad/pkg/infra/config"
	"github.com/kart-io/launchpad/pkg/infra/datasource"
	"github.com/kart-io/launchpad/pkg/infra/pool"
	"github.com/kart-io/launchpad/pkg/infra/seed"
	logopts "github.com/kart-io/launchpad/pkg/options/logger"
)

// Module describes the application to bootstrap.
type Module struct {
	// Name identifies the application in logs.
	Name string

	// Config supplies the configuration sections. Required.
	Config config.Provider

	// Routes registers the application's handlers.
	Routes func(r *Router) error

	Seeders   []seed.Seeder
	Factories []seed.Factory

	// HTTPMiddleware runs net/http middleware on every request, after the
	// compatibility shim and before routing.
	HTTPMiddleware []func(http.Handler) http.Handler

	// DataSource overrides the database opened from the database section.
	DataSource datasource.Resolver

	// Logger builds the structured logger from the log section. Nil uses
	// the kart-io logger the section describes.
	Logger func(opts *logopts.Options) (core.Logger, error)

	// OpenAPI is the document served when the swagger section is present.
	// Nil serves an empty document.
	OpenAPI *swag.Spec

	// Background configures the background worker pool.
	Background *pool.Config

	// Signals that trigger graceful shutdown. Nil means SIGINT and SIGTERM.
	Signals []os.Signal
}
