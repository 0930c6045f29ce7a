// Package assets provides lazily-resolving references to loaded resources and
// an asynchronous cache that decodes image files on a worker pool while the
// render thread keeps ownership of all device uploads.
package assets

import "sync"

// Handle is a lazily-resolving reference to a resource of type T. A handle
// starts pending, then transitions exactly once to resolved or failed.
// Consumers that need a value every frame (materials binding texture slots)
// treat a pending or failed handle as "use the fallback".
type Handle[T any] struct {
	mu    sync.Mutex
	value T
	ready bool
	err   error
}

// NewPendingHandle creates a Handle that has not resolved yet.
//
// Returns:
//   - *Handle[T]: a new pending handle
func NewPendingHandle[T any]() *Handle[T] {
	return &Handle[T]{}
}

// NewResolvedHandle creates a Handle already resolved to the given value,
// for callers that have the resource in hand and do not need async loading.
//
// Parameters:
//   - value: the resolved resource
//
// Returns:
//   - *Handle[T]: a new resolved handle
func NewResolvedHandle[T any](value T) *Handle[T] {
	return &Handle[T]{value: value, ready: true}
}

// Resolve transitions the handle to resolved with the given value. Later
// calls to Resolve or Fail are ignored; the first transition wins.
//
// Parameters:
//   - value: the resolved resource
func (h *Handle[T]) Resolve(value T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ready || h.err != nil {
		return
	}
	h.value = value
	h.ready = true
}

// Fail transitions the handle to failed. Later calls to Resolve or Fail are
// ignored; the first transition wins.
//
// Parameters:
//   - err: the load failure
func (h *Handle[T]) Fail(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ready || h.err != nil {
		return
	}
	h.err = err
}

// Ready reports whether the handle has resolved to a value.
//
// Returns:
//   - bool: true once Resolve has been applied
func (h *Handle[T]) Ready() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ready
}

// Value retrieves the resolved resource.
//
// Returns:
//   - T: the resolved value, or the zero value while pending or failed
//   - bool: true when the handle has resolved
func (h *Handle[T]) Value() (T, bool) {
	var zero T
	if h == nil {
		return zero, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.ready {
		return zero, false
	}
	return h.value, true
}

// Err retrieves the load failure, if any.
//
// Returns:
//   - error: the failure recorded by Fail, nil while pending or resolved
func (h *Handle[T]) Err() error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}
