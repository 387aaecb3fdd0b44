// Package http is the gin-based HTTP transport.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/launchpad/pkg/infra/lifecycle"
	"github.com/kart-io/launchpad/pkg/infra/middleware"
	"github.com/kart-io/launchpad/pkg/infra/middleware/resilience"
	"github.com/kart-io/launchpad/pkg/infra/server/transport"
	mwopts "github.com/kart-io/launchpad/pkg/options/middleware"
)

// Server is the HTTP server.
type Server struct {
	opts   *Options
	engine *gin.Engine

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

var _ transport.Transport = (*Server)(nil)

// NewServer creates a gin engine with request ids and the body cap
// installed. Everything else is added by the caller.
func NewServer(opts ...Option) *Server {
	o := NewOptions()
	for _, opt := range opts {
		opt(o)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.ContextWithFallback = true

	engine.Use(
		resilience.Recovery(),
		middleware.RequestID(mwopts.RequestIDOptions{Header: o.RequestIDHeader}, o.RequestID),
		resilience.BodyLimitWithOptions(mwopts.BodyLimitOptions{
			MaxSize:   o.MaxBodySize,
			SkipPaths: o.BodyLimitSkipPaths,
		}),
	)

	return &Server{opts: o, engine: engine}
}

// Name returns the transport name.
func (s *Server) Name() string {
	return "http"
}

// Engine returns the underlying gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// SetAddr changes the listen address. It has no effect once started.
func (s *Server) SetAddr(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Addr = addr
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.opts.Addr
}

// Start binds the listener and serves in the background. A bind failure is
// returned; a later serve failure is reported to the error trap.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return fmt.Errorf("http server already started on %s", s.listener.Addr())
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
		IdleTimeout:       s.opts.IdleTimeout,
	}
	s.server = srv
	s.listener = ln

	lifecycle.Go("http-server", func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lifecycle.Reject("http serve", err)
		}
	})

	logger.Debugw("HTTP server listening", "addr", ln.Addr().String())
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
