// Package logtest provides an in-memory core.Logger for assertions on what
// a component logged.
package logtest

import (
	"strings"
	"sync"

	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"

	infralogger "github.com/kart-io/launchpad/pkg/infra/logger"
)

// Recorder records every log call.
type Recorder struct {
	*infralogger.Buffer
}

// New creates an empty Recorder.
func New() *Recorder {
	return &Recorder{Buffer: infralogger.NewBuffer()}
}

// globalMu serializes tests that swap the global logger.
var globalMu sync.Mutex

// InstallGlobal makes a new Recorder the global kart-io logger until the
// test ends.
func InstallGlobal(t interface {
	Helper()
	Cleanup(func())
}) *Recorder {
	t.Helper()
	globalMu.Lock()
	previous := logger.Global()
	r := New()
	logger.SetGlobal(r)
	t.Cleanup(func() {
		logger.SetGlobal(previous)
		globalMu.Unlock()
	})
	return r
}

// Find returns the entries whose message contains substr.
func (r *Recorder) Find(substr string) []infralogger.Entry {
	var out []infralogger.Entry
	for _, e := range r.Entries() {
		if strings.Contains(e.Message, substr) {
			out = append(out, e)
		}
	}
	return out
}

// CountAt returns how many entries were logged at level.
func (r *Recorder) CountAt(level core.Level) int {
	n := 0
	for _, e := range r.Entries() {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Has reports whether an entry at level contains substr.
func (r *Recorder) Has(level core.Level, substr string) bool {
	for _, e := range r.Find(substr) {
		if e.Level == level {
			return true
		}
	}
	return false
}
