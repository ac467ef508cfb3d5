// Package observability provides hooks and tracing for outdated.
//
// Libraries emit events through a small set of hook interfaces; main decides
// what to do with them. The CLI registers logging hooks in verbose mode and
// leaves the no-op defaults otherwise.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.SetWalkHooks(&myWalkHooks{})
//	observability.SetHTTPHooks(&myHTTPHooks{})
//
// Libraries call hooks to emit events:
//
//	observability.Walk().OnWalkStart(ctx, root, depth)
//	// ... walk the tree ...
//	observability.Walk().OnWalkComplete(ctx, root, findings, duration, err)
//
// Tracing is configured separately with [InitTracing].
package observability

import (
	"context"
	"sync"
	"time"
)

// WalkHooks receives events from the dependency walker.
type WalkHooks interface {
	// OnWalkStart fires once before the root is evaluated.
	OnWalkStart(ctx context.Context, root string, depth int)

	// OnTolerated fires when a dependency is omitted because the registry
	// reported it absent, forbidden or unsatisfiable.
	OnTolerated(ctx context.Context, name string, err error)

	// OnWalkComplete fires once after the walk returns.
	OnWalkComplete(ctx context.Context, root string, findings int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, key string)
	OnCacheMiss(ctx context.Context, key string)
	OnCacheSet(ctx context.Context, key string, size int)
}

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopWalkHooks is a no-op implementation of WalkHooks.
type NoopWalkHooks struct{}

func (NoopWalkHooks) OnWalkStart(context.Context, string, int)                         {}
func (NoopWalkHooks) OnTolerated(context.Context, string, error)                       {}
func (NoopWalkHooks) OnWalkComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

var (
	walkHooks  WalkHooks  = NoopWalkHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetWalkHooks registers custom walk hooks. Nil is ignored.
func SetWalkHooks(h WalkHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		walkHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Walk returns the registered walk hooks.
func Walk() WalkHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return walkHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	walkHooks = NoopWalkHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
