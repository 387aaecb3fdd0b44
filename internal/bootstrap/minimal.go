package bootstrap

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/kart-io/launchpad/pkg/infra/lifecycle"
	transporthttp "github.com/kart-io/launchpad/pkg/infra/server/transport/http"
	appopts "github.com/kart-io/launchpad/pkg/options/app"
)

// MinimalPrefix is the route prefix of BootstrapMinimal.
const MinimalPrefix = "api"

// BootstrapMinimal starts routes under /api on $PORT (default 3000) with
// request ids and nothing else: no config sections, filters or seeding.
func BootstrapMinimal(ctx context.Context, routes func(r *Router) error) (*Result, error) {
	app := appopts.NewOptions()
	if err := app.Complete(); err != nil {
		return nil, err
	}

	server := transporthttp.NewServer(
		transporthttp.WithAddr(app.Addr()),
		transporthttp.WithMaxBodySize(MaxBodySize),
	)
	engine := server.Engine()
	engine.Use(transporthttp.Compat(false))

	if routes != nil {
		if err := routes(newRouter(engine, MinimalPrefix, app.DefaultVersion)); err != nil {
			return nil, fmt.Errorf("register routes: %w", err)
		}
	}

	if err := server.Start(ctx); err != nil {
		return nil, err
	}
	coordinator := lifecycle.NewShutdownCoordinator()
	coordinator.Register("http-server", 0, server.Stop)

	logger.Infow(fmt.Sprintf("App successfully started! Listening on port: %d", app.Port), "port", app.Port)
	return &Result{
		Server:   server,
		URL:      fmt.Sprintf("http://0.0.0.0:%d/%s", app.Port, MinimalPrefix),
		Shutdown: coordinator,
	}, nil
}
