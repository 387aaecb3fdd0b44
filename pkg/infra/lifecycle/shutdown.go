package lifecycle

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kart-io/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultHookTimeout bounds a hook registered without its own timeout.
const DefaultHookTimeout = 10 * time.Second

// Hook is invoked once on shutdown.
type Hook func(ctx context.Context) error

type registeredHook struct {
	name    string
	timeout time.Duration
	hook    Hook
}

// ShutdownCoordinator runs the registered hooks when the process is asked to
// stop. Hooks run concurrently, each bounded by its own timeout, and the
// coordinator waits for all of them.
type ShutdownCoordinator struct {
	mu       sync.Mutex
	hooks    []registeredHook
	signals  []os.Signal
	started  bool
	once     sync.Once
	done     chan struct{}
	err      error
	received os.Signal
}

// ShutdownOption configures a ShutdownCoordinator.
type ShutdownOption func(*ShutdownCoordinator)

// WithSignals replaces the signals Wait listens to.
func WithSignals(sig ...os.Signal) ShutdownOption {
	return func(c *ShutdownCoordinator) {
		c.signals = sig
	}
}

// NewShutdownCoordinator creates a coordinator listening to SIGINT and SIGTERM.
func NewShutdownCoordinator(opts ...ShutdownOption) *ShutdownCoordinator {
	c := &ShutdownCoordinator{
		signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds a hook. A non-positive timeout uses DefaultHookTimeout.
// Hooks registered after shutdown started are ignored.
func (c *ShutdownCoordinator) Register(name string, timeout time.Duration, hook Hook) {
	if hook == nil {
		return
	}
	if timeout <= 0 {
		timeout = DefaultHookTimeout
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		logger.Warnw("Shutdown hook registered after shutdown started, ignoring", "hook", name)
		return
	}
	c.hooks = append(c.hooks, registeredHook{name: name, timeout: timeout, hook: hook})
}

// Hooks returns the names of the registered hooks in registration order.
func (c *ShutdownCoordinator) Hooks() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, len(c.hooks))
	for i, h := range c.hooks {
		names[i] = h.name
	}
	return names
}

// Wait blocks until a termination signal arrives or ctx is done, then runs
// the hooks. It returns the joined hook errors.
func (c *ShutdownCoordinator) Wait(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, c.signals...)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		c.mu.Lock()
		c.received = sig
		c.mu.Unlock()
		logger.Infow("Received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Infow("Context done, shutting down", "reason", context.Cause(ctx))
	case <-c.done:
		return c.err
	}

	return c.Shutdown(context.Background())
}

// Shutdown runs every hook once, concurrently, and waits for all of them or
// their timeouts. Later calls return the first result.
func (c *ShutdownCoordinator) Shutdown(ctx context.Context) error {
	c.once.Do(func() {
		c.mu.Lock()
		c.started = true
		hooks := append([]registeredHook(nil), c.hooks...)
		c.mu.Unlock()

		var (
			g      errgroup.Group
			errsMu sync.Mutex
			errs   []error
		)
		for _, h := range hooks {
			g.Go(func() error {
				err := runHook(ctx, h)
				if err != nil {
					logger.Errorw("Shutdown hook failed", "hook", h.name, "error", err.Error())
					errsMu.Lock()
					errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
					errsMu.Unlock()
				}
				return err
			})
		}
		_ = g.Wait()

		c.err = stderrors.Join(errs...)
		close(c.done)
		logger.Infow("Shutdown completed", "hooks", len(hooks), "failed", len(errs))
	})
	<-c.done
	return c.err
}

// Done is closed once every hook has finished.
func (c *ShutdownCoordinator) Done() <-chan struct{} {
	return c.done
}

// Signal returns the signal that triggered shutdown, if any.
func (c *ShutdownCoordinator) Signal() os.Signal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.received
}

func runHook(parent context.Context, h registeredHook) error {
	ctx, cancel := context.WithTimeout(parent, h.timeout)
	defer cancel()

	result := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("hook panicked: %v", r)
			}
		}()
		result <- h.hook(ctx)
	}()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return fmt.Errorf("hook did not finish within %s: %w", h.timeout, ctx.Err())
	}
}
