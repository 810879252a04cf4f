// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about gestures and position-store writes.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetGestureHooks(&myGestureHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// The engine calls hooks to emit events:
//
//	observability.Gesture().OnGestureStart("drag", blockID)
//	// ... pointer moves ...
//	observability.Gesture().OnGestureEnd("drag", blockID, elapsed, false)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Gesture Hooks
// =============================================================================

// GestureHooks receives events from the drag/resize state machine.
type GestureHooks interface {
	// OnGestureStart records a gesture acquiring the operation lock.
	OnGestureStart(kind, blockID string)

	// OnGestureRejected records a gesture start ignored because another
	// gesture holds the lock.
	OnGestureRejected(kind, blockID string)

	// OnGestureEnd records a gesture releasing the lock. forced is true when
	// the safety timeout ended the gesture instead of a pointer-up.
	OnGestureEnd(kind, blockID string, duration time.Duration, forced bool)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from the position store.
type StoreHooks interface {
	// OnInitialize records a block receiving its first position in a viewport.
	OnInitialize(viewport, blockID string)

	// OnUpdate records a partial position update.
	OnUpdate(viewport, blockID string)

	// OnPrune records removal of phantom positions.
	OnPrune(viewport string, count int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGestureHooks is a no-op implementation of GestureHooks.
type NoopGestureHooks struct{}

func (NoopGestureHooks) OnGestureStart(string, string)                    {}
func (NoopGestureHooks) OnGestureRejected(string, string)                 {}
func (NoopGestureHooks) OnGestureEnd(string, string, time.Duration, bool) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnInitialize(string, string) {}
func (NoopStoreHooks) OnUpdate(string, string)     {}
func (NoopStoreHooks) OnPrune(string, int)         {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	gestureHooks GestureHooks = NoopGestureHooks{}
	storeHooks   StoreHooks   = NoopStoreHooks{}
	hooksMu      sync.RWMutex
)

// SetGestureHooks registers custom gesture hooks.
// This should be called once at application startup before any gesture starts.
func SetGestureHooks(h GestureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gestureHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Gesture returns the registered gesture hooks.
func Gesture() GestureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gestureHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	gestureHooks = NoopGestureHooks{}
	storeHooks = NoopStoreHooks{}
}
