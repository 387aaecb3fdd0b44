// Package lifecycle holds the process-scoped error trap and the shutdown
// coordinator.
//
// Go has no process-wide hook for uncaught panics, so the trap is a sink that
// background work reports to: Go recovers panics of the goroutines it starts
// and Reject records failed asynchronous operations. Neither ever exits.
package lifecycle

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"
)

// ErrorTrap logs uncaught panics and unhandled rejections.
type ErrorTrap struct {
	log        core.Logger
	uncaught   atomic.Int64
	rejections atomic.Int64
}

var (
	trapMu sync.Mutex
	trap   *ErrorTrap
)

// InstallErrorTrap installs the process trap. Only the first call installs;
// later calls return the existing trap and ignore log.
func InstallErrorTrap(log core.Logger) (*ErrorTrap, bool) {
	trapMu.Lock()
	defer trapMu.Unlock()
	if trap != nil {
		return trap, false
	}
	trap = &ErrorTrap{log: log}
	return trap, true
}

// UninstallErrorTrap removes the process trap so a test can install again.
func UninstallErrorTrap() {
	trapMu.Lock()
	trap = nil
	trapMu.Unlock()
}

// InstalledTrap returns the process trap, or nil.
func InstalledTrap() *ErrorTrap {
	trapMu.Lock()
	defer trapMu.Unlock()
	return trap
}

func (t *ErrorTrap) logger() core.Logger {
	if t == nil || t.log == nil {
		return logger.Global()
	}
	return t.log
}

// Uncaught records a recovered panic from the named unit of work.
func (t *ErrorTrap) Uncaught(name string, recovered interface{}) {
	if t != nil {
		t.uncaught.Add(1)
	}
	t.logger().Errorw("Uncaught exception",
		"source", name,
		"error", fmt.Sprint(recovered),
		"stack", string(debug.Stack()),
	)
}

// Reject records a failed asynchronous operation.
func (t *ErrorTrap) Reject(operation string, err error) {
	if err == nil {
		return
	}
	if t != nil {
		t.rejections.Add(1)
	}
	t.logger().Errorw("Unhandled rejection",
		"operation", operation,
		"error", err.Error(),
	)
}

// Go runs fn in a goroutine; a panic is recovered and reported.
func (t *ErrorTrap) Go(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				t.Uncaught(name, r)
			}
		}()
		fn()
	}()
}

// GoErr runs fn in a goroutine; a returned error is reported as a rejection.
func (t *ErrorTrap) GoErr(operation string, fn func() error) {
	t.Go(operation, func() {
		t.Reject(operation, fn())
	})
}

// Counts returns how many panics and rejections were reported.
func (t *ErrorTrap) Counts() (uncaught, rejections int64) {
	return t.uncaught.Load(), t.rejections.Load()
}

// Go runs fn through the installed trap, or the global logger when none is
// installed.
func Go(name string, fn func()) {
	InstalledTrap().Go(name, fn)
}

// Reject reports err through the installed trap.
func Reject(operation string, err error) {
	InstalledTrap().Reject(operation, err)
}

// ReportPanic reports a panic recovered elsewhere, e.g. by a worker pool.
func ReportPanic(name string, recovered interface{}) {
	InstalledTrap().Uncaught(name, recovered)
}
