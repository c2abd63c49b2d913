// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline stages, cache operations, and Bluetooth
// transfers.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, plain logs, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetTransportHooks(&myTransportHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnRenderStart(ctx, lineCount, fontSize)
//	// ... render ...
//	observability.Pipeline().OnRenderComplete(ctx, width, height, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the print pipeline.
type PipelineHooks interface {
	// Render events (text layout engine)
	OnRenderStart(ctx context.Context, lineCount, fontSize int)
	OnRenderComplete(ctx context.Context, width, height int, duration time.Duration, err error)

	// Binarize events (dithering)
	OnBinarizeStart(ctx context.Context, algorithm string)
	OnBinarizeComplete(ctx context.Context, algorithm string, duration time.Duration, err error)

	// Encode events (printer command stream)
	OnEncodeStart(ctx context.Context, rows int)
	OnEncodeComplete(ctx context.Context, bytes int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Transport Hooks
// =============================================================================

// TransportHooks receives events from the Bluetooth transport.
type TransportHooks interface {
	// OnConnect records a successful device connection.
	OnConnect(ctx context.Context, device string)

	// OnChunk records one transmitted chunk: sent bytes so far out of total.
	OnChunk(ctx context.Context, device string, sent, total int)

	// OnDisconnect records the end of a transfer session.
	OnDisconnect(ctx context.Context, device string, sent int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRenderStart(context.Context, int, int)                           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, int, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnBinarizeStart(context.Context, string)                           {}
func (NoopPipelineHooks) OnBinarizeComplete(context.Context, string, time.Duration, error)  {}
func (NoopPipelineHooks) OnEncodeStart(context.Context, int)                                {}
func (NoopPipelineHooks) OnEncodeComplete(context.Context, int, time.Duration, error)       {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopTransportHooks is a no-op implementation of TransportHooks.
type NoopTransportHooks struct{}

func (NoopTransportHooks) OnConnect(context.Context, string)                                 {}
func (NoopTransportHooks) OnChunk(context.Context, string, int, int)                         {}
func (NoopTransportHooks) OnDisconnect(context.Context, string, int, time.Duration, error)   {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks  PipelineHooks  = NoopPipelineHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	transportHooks TransportHooks = NoopTransportHooks{}
	hooksMu        sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetTransportHooks registers custom transport hooks.
// This should be called once at application startup before any transfers.
func SetTransportHooks(h TransportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		transportHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Transport returns the registered transport hooks.
func Transport() TransportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return transportHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	transportHooks = NoopTransportHooks{}
}
