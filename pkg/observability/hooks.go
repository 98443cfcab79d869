// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about board interactions and document store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The board engine is synchronous and has no context, so [BoardHooks] methods
// take plain values. Store operations block on I/O and carry a context.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBoardHooks(&myBoardHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Board().OnDrop(boardID, "fromPalette", target, ok)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Board Hooks
// =============================================================================

// BoardHooks receives events from the board engine.
type BoardHooks interface {
	// OnDrop records a drop attempt and whether it was applied.
	OnDrop(boardID, kind, target string, applied bool)

	// OnResize records a committed resize.
	OnResize(boardID, widgetID string, rowSpan, colSpan int)

	// OnImport records a document import.
	OnImport(boardID string, cells, placeholders int)

	// OnHeal records placeholder widgets swapped for their real type.
	OnHeal(boardID string, healed int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from document store operations.
type StoreHooks interface {
	// OnLoad records a document read.
	OnLoad(ctx context.Context, backend, id string, duration time.Duration, err error)

	// OnSave records a document write of the given number of cells.
	OnSave(ctx context.Context, backend, id string, cells int, duration time.Duration, err error)

	// OnDelete records a document removal.
	OnDelete(ctx context.Context, backend, id string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBoardHooks is a no-op implementation of BoardHooks.
type NoopBoardHooks struct{}

func (NoopBoardHooks) OnDrop(string, string, string, bool) {}
func (NoopBoardHooks) OnResize(string, string, int, int)   {}
func (NoopBoardHooks) OnImport(string, int, int)           {}
func (NoopBoardHooks) OnHeal(string, int)                  {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, string, time.Duration, error)      {}
func (NoopStoreHooks) OnSave(context.Context, string, string, int, time.Duration, error) {}
func (NoopStoreHooks) OnDelete(context.Context, string, string, error)                   {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	boardHooks BoardHooks = NoopBoardHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	hooksMu    sync.RWMutex
)

// SetBoardHooks registers custom board hooks.
// This should be called once at application startup before any board operations.
func SetBoardHooks(h BoardHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		boardHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Board returns the registered board hooks.
func Board() BoardHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return boardHooks
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
	boardHooks = NoopBoardHooks{}
	storeHooks = NoopStoreHooks{}
}
