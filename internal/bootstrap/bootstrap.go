package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"

	"github.com/kart-io/launchpad/pkg/infra/lifecycle"
	infralogger "github.com/kart-io/launchpad/pkg/infra/logger"
	"github.com/kart-io/launchpad/pkg/infra/optional"
	"github.com/kart-io/launchpad/pkg/infra/pool"
	transporthttp "github.com/kart-io/launchpad/pkg/infra/server/transport/http"
	appopts "github.com/kart-io/launchpad/pkg/options/app"
	"github.com/kart-io/launchpad/pkg/options/database"
	swaggeropts "github.com/kart-io/launchpad/pkg/options/swagger"
	"github.com/kart-io/launchpad/pkg/utils/errors"
)

// Result is a started application.
type Result struct {
	Server *transporthttp.Server
	// URL is the base address, http://0.0.0.0:{port}/{prefix}.
	URL string
	// Shutdown stops the server and the other resources bootstrap opened.
	Shutdown *lifecycle.ShutdownCoordinator
	// Background is the worker pool shared with the routes.
	Background *pool.Pool
}

// stage is one bootstrap step. A returned error aborts bootstrap.
type stage struct {
	name string
	run  func(ctx context.Context) error
}

// bootstrapper carries state between stages.
type bootstrapper struct {
	module *Module

	// log is a buffer until the configured logger is bound.
	log   core.Logger
	boot  *infralogger.Buffer
	bound bool

	server      *transporthttp.Server
	coordinator *lifecycle.ShutdownCoordinator
	background  *pool.Pool
	engine      *gin.Engine
	language    string
	app         *appopts.Options
	router      *Router

	database optional.Optional[*database.Options]
	swagger  optional.Optional[*swaggeropts.Options]

	url string
}

// Bootstrap assembles the module and starts listening. It returns once the
// listener is bound; use Result.Shutdown to stop.
func Bootstrap(ctx context.Context, m *Module) (*Result, error) {
	if m == nil || m.Config == nil {
		return nil, errors.ErrConfigMissing.WithMessage("module config provider is required")
	}

	boot := infralogger.NewBuffer()
	b := &bootstrapper{module: m, log: boot, boot: boot}

	for _, s := range b.stages() {
		b.log.Debugw("Bootstrap stage", "stage", s.name)
		if err := s.run(ctx); err != nil {
			b.abort()
			return nil, fmt.Errorf("bootstrap %s: %w", s.name, err)
		}
	}

	return &Result{
		Server:     b.server,
		URL:        b.url,
		Shutdown:   b.coordinator,
		Background: b.background,
	}, nil
}

// Run bootstraps the module and blocks until a shutdown signal arrives or
// ctx is done, then shuts down gracefully.
func Run(ctx context.Context, m *Module) error {
	res, err := Bootstrap(ctx, m)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Flush() }()

	if err := res.Shutdown.Wait(ctx); err != nil {
		logger.Errorw("Graceful shutdown finished with errors", "error", err.Error())
		return err
	}
	return nil
}

func (b *bootstrapper) stages() []stage {
	return []stage{
		{"transactional context", b.initTransactionalContext},
		{"server", b.createServer},
		{"compatibility", b.applyCompat},
		{"shutdown hooks", b.registerShutdown},
		{"logger", b.bindLogger},
		{"error trap", b.installErrorTrap},
		{"http adapter", b.resolveAdapter},
		{"validation", b.installValidation},
		{"exception filters", b.installFilters},
		{"interceptors", b.installInterceptors},
		{"app", b.applyApp},
		{"optional config", b.resolveOptional},
		{"routes", b.registerRoutes},
		{"swagger", b.publishSwagger},
		{"seeds", b.runSeeds},
		{"listen", b.listen},
		{"url", b.logURL},
	}
}

// abort releases what earlier stages acquired. Entries still buffered are
// written to the global logger so a failed start is not silent.
func (b *bootstrapper) abort() {
	if !b.bound {
		b.boot.Replay(logger.Global())
	}
	if b.coordinator != nil {
		_ = b.coordinator.Shutdown(context.Background())
	}
}
