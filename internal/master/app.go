// Package master is the tenant management service built on the bootstrap
// orchestrator.
package master

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kart-io/launchpad/internal/bootstrap"
	"github.com/kart-io/launchpad/internal/master/docs"
	"github.com/kart-io/launchpad/internal/master/router"
	"github.com/kart-io/launchpad/internal/master/seeder"
	"github.com/kart-io/launchpad/pkg/infra/app"
	"github.com/kart-io/launchpad/pkg/infra/config"
	"github.com/kart-io/launchpad/pkg/infra/seed"
)

const (
	appName        = "master"
	appDescription = `Master Service

Manages tenants and their owners.

This server provides:
  - Tenant management
  - Role based access with bearer tokens
  - Seeded demo tenants`
)

// NewApp creates the master command.
func NewApp() *app.App {
	return app.NewApp(
		app.WithName(appName),
		app.WithShortDescription("Master tenant service"),
		app.WithDescription(appDescription),
		app.WithArgs(cobra.NoArgs),
		app.WithRunFunc(func(ctx context.Context, cfg config.Provider) error {
			return bootstrap.Run(ctx, NewModule(cfg))
		}),
	)
}

// NewModule describes the master service for the bootstrap orchestrator.
func NewModule(cfg config.Provider) *bootstrap.Module {
	return &bootstrap.Module{
		Name:   appName,
		Config: cfg,
		Routes: func(r *bootstrap.Router) error {
			return router.Register(r, cfg)
		},
		Seeders:   []seed.Seeder{seeder.NewTenantSeeder(seeder.DefaultTenantCount)},
		Factories: []seed.Factory{seeder.NewTenantFactory()},
		OpenAPI:   docs.SwaggerInfo,
	}
}
