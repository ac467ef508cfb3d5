package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/outdated/pkg/errors"
	"github.com/matzehuels/outdated/pkg/observability"
)

// logHooks reports walk, cache and HTTP events at debug level.
type logHooks struct {
	logger *log.Logger
}

// EnableVerboseHooks routes observability events to the CLI logger.
func (c *CLI) EnableVerboseHooks() {
	h := &logHooks{logger: c.Logger}
	observability.SetWalkHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *logHooks) OnWalkStart(_ context.Context, root string, depth int) {
	h.logger.Debug("walk started", "root", root, "depth", depth)
}

func (h *logHooks) OnTolerated(_ context.Context, name string, err error) {
	h.logger.Debug("package skipped", "package", name, "code", errors.GetCode(err))
}

func (h *logHooks) OnWalkComplete(_ context.Context, root string, findings int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("walk failed", "root", root, "elapsed", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("walk complete", "root", root, "findings", findings, "elapsed", d.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h *logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h *logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "elapsed", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}
