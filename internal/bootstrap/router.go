package bootstrap

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kart-io/launchpad/pkg/infra/datasource"
	"github.com/kart-io/launchpad/pkg/infra/pool"
	"github.com/kart-io/launchpad/pkg/infra/swagger"
	"github.com/kart-io/launchpad/pkg/utils/errors"
)

// Router is handed to Module.Routes. Every group it returns sits under the
// app prefix.
type Router struct {
	engine         *gin.Engine
	root           *gin.RouterGroup
	defaultVersion string
	background     *pool.Pool
	db             datasource.Resolver
}

func newRouter(engine *gin.Engine, prefix, defaultVersion string) *Router {
	return &Router{
		engine:         engine,
		root:           engine.Group(swagger.JoinPath(prefix)),
		defaultVersion: defaultVersion,
	}
}

// Engine returns the gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Root returns the prefix group.
func (r *Router) Root() *gin.RouterGroup {
	return r.root
}

// Version returns the group for URI version v, e.g. /api/v2.
func (r *Router) Version(v string) *gin.RouterGroup {
	return r.root.Group("/v" + v)
}

// Default returns the group of the app's default version.
func (r *Router) Default() *gin.RouterGroup {
	return r.Version(r.defaultVersion)
}

// Background returns the background worker pool. Panics in its tasks are
// reported to the process error trap.
func (r *Router) Background() *pool.Pool {
	return r.background
}

// DB resolves the application database.
func (r *Router) DB(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, errors.ErrConfigMissing.WithMessage("no database configured")
	}
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, errors.ErrConfigMissing.WithMessage("no database configured")
	}
	return db, nil
}
