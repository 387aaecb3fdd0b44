// Package optional resolves dependencies that may legitimately be missing.
// Resolution errors and panics become an absent value instead of aborting
// the caller.
package optional

import "fmt"

// Optional holds a value that may be absent.
type Optional[T any] struct {
	value   T
	present bool
	err     error
}

// Of returns a present Optional.
func Of[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// Empty returns an absent Optional.
func Empty[T any]() Optional[T] {
	return Optional[T]{}
}

// Resolve calls fn and converts an error or panic into an absent result.
// The reason is kept and available through Err.
func Resolve[T any](fn func() (T, error)) (opt Optional[T]) {
	defer func() {
		if r := recover(); r != nil {
			opt = Optional[T]{err: fmt.Errorf("resolver panicked: %v", r)}
		}
	}()

	v, err := fn()
	if err != nil {
		return Optional[T]{err: err}
	}
	return Of(v)
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// IsPresent reports whether a value was resolved.
func (o Optional[T]) IsPresent() bool {
	return o.present
}

// OrElse returns the value, or fallback when absent.
func (o Optional[T]) OrElse(fallback T) T {
	if o.present {
		return o.value
	}
	return fallback
}

// Err returns why resolution produced no value, if anything failed.
func (o Optional[T]) Err() error {
	return o.err
}
