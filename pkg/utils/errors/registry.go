package errors

import (
	"fmt"
	"sort"
	"sync"
)

// errnoRegistry stores all registered error codes for uniqueness validation.
var (
	errnoRegistry = make(map[int]*Errno)
	registryMu    sync.RWMutex
)

// Register registers an Errno and validates uniqueness.
// Panics if the code is already registered.
func Register(e *Errno) *Errno {
	registryMu.Lock()
	defer registryMu.Unlock()

	if existing, ok := errnoRegistry[e.Code]; ok {
		panic(fmt.Sprintf("errno code %d already registered: %s", e.Code, existing.MessageEN))
	}
	errnoRegistry[e.Code] = e
	return e
}

// Lookup returns the registered Errno for the given code.
func Lookup(code int) (*Errno, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := errnoRegistry[code]
	return e, ok
}

// RegisteredCodes returns every registered code in ascending order.
func RegisteredCodes() []int {
	registryMu.RLock()
	defer registryMu.RUnlock()

	codes := make([]int, 0, len(errnoRegistry))
	for k := range errnoRegistry {
		codes = append(codes, k)
	}
	sort.Ints(codes)
	return codes
}
