package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"

	"github.com/kart-io/launchpad/pkg/infra/datasource"
	"github.com/kart-io/launchpad/pkg/infra/filter"
	"github.com/kart-io/launchpad/pkg/infra/interceptor"
	"github.com/kart-io/launchpad/pkg/infra/lifecycle"
	infralogger "github.com/kart-io/launchpad/pkg/infra/logger"
	"github.com/kart-io/launchpad/pkg/infra/middleware"
	"github.com/kart-io/launchpad/pkg/infra/middleware/observability"
	"github.com/kart-io/launchpad/pkg/infra/middleware/security"
	"github.com/kart-io/launchpad/pkg/infra/optional"
	"github.com/kart-io/launchpad/pkg/infra/pool"
	"github.com/kart-io/launchpad/pkg/infra/seed"
	transporthttp "github.com/kart-io/launchpad/pkg/infra/server/transport/http"
	"github.com/kart-io/launchpad/pkg/infra/swagger"
	"github.com/kart-io/launchpad/pkg/infra/txcontext"
	"github.com/kart-io/launchpad/pkg/options/i18n"
	logopts "github.com/kart-io/launchpad/pkg/options/logger"
	mwopts "github.com/kart-io/launchpad/pkg/options/middleware"
	"github.com/kart-io/launchpad/pkg/utils/errors"
	"github.com/kart-io/launchpad/pkg/utils/validator"
)

// RequestIDHeader is read for inbound request ids and echoed on responses.
const RequestIDHeader = "x-request-id"

// MaxBodySize caps request bodies at 10 MiB.
const MaxBodySize = 10_485_760

func (b *bootstrapper) initTransactionalContext(context.Context) error {
	if txcontext.Current() != nil {
		b.log.Debug("Transactional context already initialized")
		return nil
	}
	txcontext.Initialize()
	return nil
}

func (b *bootstrapper) createServer(context.Context) error {
	mw, _ := optional.Resolve(b.module.Config.Middleware).Get()
	b.server = transporthttp.NewServer(
		transporthttp.WithRequestID(RequestIDHeader, middleware.HeaderOrULID(RequestIDHeader)),
		transporthttp.WithMaxBodySize(MaxBodySize),
		transporthttp.WithMiddlewareOptions(mw),
	)
	return nil
}

// applyCompat reads the deployment environment early, before the app
// section is enforced, to decide whether exchanges count as encrypted.
// Module net/http middleware is mounted behind the shim.
func (b *bootstrapper) applyCompat(context.Context) error {
	production := false
	if app, ok := optional.Resolve(b.module.Config.App).Get(); ok {
		production = app.IsProduction()
	}
	engine := b.server.Engine()
	engine.Use(transporthttp.Compat(production))
	for _, mw := range b.module.HTTPMiddleware {
		engine.Use(transporthttp.WrapHTTP(mw))
	}
	return nil
}

func (b *bootstrapper) registerShutdown(context.Context) error {
	var opts []lifecycle.ShutdownOption
	if len(b.module.Signals) > 0 {
		opts = append(opts, lifecycle.WithSignals(b.module.Signals...))
	}
	b.coordinator = lifecycle.NewShutdownCoordinator(opts...)
	b.coordinator.Register("http-server", 0, b.server.Stop)
	return nil
}

func (b *bootstrapper) bindLogger(context.Context) error {
	opts := optional.Resolve(b.module.Config.Logger).OrElse(logopts.NewOptions())

	build := b.module.Logger
	if build == nil {
		build = func(o *logopts.Options) (core.Logger, error) { return o.CreateLogger() }
	}

	log, err := build(opts)
	if err != nil || log == nil {
		log = logger.Global()
		log.Warnw("Failed to create the configured logger, using the default", "error", fmt.Sprint(err))
	}
	logger.SetGlobal(log)

	b.log = log
	b.bound = true
	b.boot.Replay(log)

	b.server.Engine().Use(observability.Logger(observability.LoggerOptions{}))
	return nil
}

func (b *bootstrapper) installErrorTrap(context.Context) error {
	if _, installed := lifecycle.InstallErrorTrap(b.log); !installed {
		b.log.Debug("Process error trap already installed")
	}

	cfg := b.module.Background
	if cfg == nil {
		cfg = pool.DefaultConfig()
	}
	p, err := pool.New("background", cfg)
	if err != nil {
		return fmt.Errorf("create background pool: %w", err)
	}
	b.background = p
	b.coordinator.Register("background-pool", 0, p.Shutdown)
	return nil
}

func (b *bootstrapper) resolveAdapter(context.Context) error {
	b.engine = b.server.Engine()
	if b.engine == nil {
		return errors.ErrInternal.WithMessage("http adapter is not available")
	}
	return nil
}

func (b *bootstrapper) installValidation(context.Context) error {
	lang := optional.Resolve(b.module.Config.I18n).OrElse(i18n.NewOptions())
	b.language = lang.Language()
	validator.Install(validator.NewPipe(nil, b.language))

	mw := optional.Resolve(b.module.Config.Middleware).OrElse(mwopts.NewOptions())
	headers := mw.SecurityHeaders
	if headers == nil {
		headers = mwopts.NewSecurityHeadersOptions()
	}
	b.engine.Use(security.Headers(*headers))
	return nil
}

func (b *bootstrapper) installFilters(context.Context) error {
	fallback := b.language
	filter.Default(func(c *gin.Context) string {
		return interceptor.Language(c, fallback)
	}).Install(b.engine)
	return nil
}

func (b *bootstrapper) installInterceptors(context.Context) error {
	b.engine.Use(interceptor.ErrorLogging(), interceptor.Serialize())
	return nil
}

func (b *bootstrapper) applyApp(context.Context) error {
	app, err := b.module.Config.App()
	if err != nil {
		return err
	}
	b.app = app

	cors, err := security.CORS(*app.CORS)
	if err != nil {
		return errors.ErrConfigInvalid.WithMessage("app cors policy").WithCause(err)
	}
	b.engine.Use(cors)

	b.router = newRouter(b.engine, app.Prefix, app.DefaultVersion)
	return nil
}

func (b *bootstrapper) resolveOptional(context.Context) error {
	b.database = optional.Resolve(b.module.Config.Database)
	b.swagger = optional.Resolve(b.module.Config.Swagger)

	if !b.database.IsPresent() {
		b.log.Debugw("Database config not provided, seeding disabled", "reason", fmt.Sprint(b.database.Err()))
	}
	if !b.swagger.IsPresent() {
		b.log.Debugw("Swagger config not provided", "reason", fmt.Sprint(b.swagger.Err()))
	}

	b.router.db = b.module.DataSource
	if dbOpts, ok := b.database.Get(); ok && b.router.db == nil {
		lazy := datasource.NewLazy(dbOpts)
		b.router.db = lazy.Resolve
		b.coordinator.Register("database", 0, lazy.Close)
	}
	return nil
}

func (b *bootstrapper) registerRoutes(context.Context) error {
	b.router.background = b.background
	if b.module.Routes != nil {
		if err := b.module.Routes(b.router); err != nil {
			return fmt.Errorf("register routes: %w", err)
		}
	}
	return nil
}

func (b *bootstrapper) publishSwagger(context.Context) error {
	opts, ok := b.swagger.Get()
	if !ok {
		b.log.Info("Swagger config not provided, documentation is turned off")
		return nil
	}
	if !opts.IsEnabled() {
		b.log.Info("Swagger is disabled by config, skipping...")
		return nil
	}
	path := swagger.Publish(b.engine, b.app.Prefix, opts, b.module.OpenAPI)
	b.log.Infow("Swagger is listening on: "+path, "path", path)
	return nil
}

// runSeeds never fails bootstrap: seeding errors and panics are logged.
func (b *bootstrapper) runSeeds(ctx context.Context) error {
	opts, ok := b.database.Get()
	if !ok || !opts.RunSeeds {
		return nil
	}

	if len(b.module.Seeders) == 0 {
		return seed.Run(ctx, nil, nil, nil)
	}

	defer func() {
		if r := recover(); r != nil {
			b.log.Errorw("Database seeding failed", "panic", fmt.Sprint(r))
		}
	}()

	db, err := b.router.db(ctx)
	if err != nil {
		b.log.Warnw("Seeding skipped, the data source could not be resolved", infralogger.ErrorFields(err)...)
		return nil
	}
	if err := seed.Run(ctx, db, b.module.Seeders, b.module.Factories); err != nil {
		b.log.Errorw("Database seeding failed", infralogger.ErrorFields(err)...)
	}
	return nil
}

func (b *bootstrapper) listen(ctx context.Context) error {
	b.server.SetAddr(b.app.Addr())
	return b.server.Start(ctx)
}

func (b *bootstrapper) logURL(context.Context) error {
	b.url = fmt.Sprintf("http://0.0.0.0:%d/%s", b.app.Port, b.app.Prefix)
	b.log.Infow("App successfully started. Listening on: "+b.url,
		"app", b.module.Name,
		"url", b.url,
		"addr", b.server.Addr(),
	)
	return nil
}
