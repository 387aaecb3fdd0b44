// Package router registers the master service routes.
package router

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/launchpad/internal/bootstrap"
	"github.com/kart-io/launchpad/internal/master/handler"
	"github.com/kart-io/launchpad/internal/master/model"
	"github.com/kart-io/launchpad/internal/master/store"
	"github.com/kart-io/launchpad/pkg/infra/app"
	"github.com/kart-io/launchpad/pkg/infra/config"
	"github.com/kart-io/launchpad/pkg/infra/interceptor"
	"github.com/kart-io/launchpad/pkg/security/auth/jwt"
	"github.com/kart-io/launchpad/pkg/security/authz/roles"
)

// Register registers the master routes on the default API version. Tenant
// routes need the database section; authentication needs the jwt section.
func Register(r *bootstrap.Router, cfg config.Provider) error {
	logger.Info("Registering master routes...")

	v1 := r.Default()
	v1.GET("/health", func(c *gin.Context) {
		interceptor.OK(c, gin.H{"status": "ok", "version": app.BuildVersion()})
	})

	checker := roles.NewTokenChecker[model.RoleType](logger.Global())
	var authenticated, readers, admins []gin.HandlerFunc
	opts, err := cfg.JWT()
	switch {
	case err == nil:
		auth, err := jwt.New[model.RoleType](opts)
		if err != nil {
			return fmt.Errorf("create authenticator: %w", err)
		}
		authenticated = []gin.HandlerFunc{auth.Middleware()}
		readers = []gin.HandlerFunc{roles.RequireAny(checker, model.RoleAdmin, model.RoleRegular)}
		admins = []gin.HandlerFunc{roles.RequireEach(checker, model.RoleAdmin)}
	case config.IsMissing(err):
		logger.Info("JWT config not provided, master routes are not authenticated")
	default:
		return err
	}
	v1.GET("/me", chain(authenticated, handler.Me)...)

	db, err := r.DB(context.Background())
	if err != nil {
		if config.IsMissing(err) {
			logger.Info("Database config not provided, tenant routes are disabled")
			return nil
		}
		return fmt.Errorf("open database: %w", err)
	}

	s := store.NewTenantStore(db)
	if err := s.Migrate(context.Background()); err != nil {
		return fmt.Errorf("migrate tenants: %w", err)
	}
	h := handler.NewTenantHandler(s, r.Background())

	tenants := v1.Group("/tenants", authenticated...)
	{
		tenants.GET("", chain(readers, h.List)...)
		tenants.GET("/:tenantId", chain(readers, h.Get)...)
		tenants.POST("", chain(admins, h.Create)...)
		tenants.PATCH("/:tenantId/status", chain(admins, h.UpdateStatus)...)
	}

	logger.Info("Master routes registered")
	return nil
}

func chain(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards)+1)
	out = append(out, guards...)
	return append(out, h)
}
