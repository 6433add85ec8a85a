package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines, and
// warnings for failures.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates log-backed hooks. A nil logger uses log.Default().
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("obs")}
}

func (h *LogHooks) OnBuildStart(_ context.Context, kind, id string) {
	h.logger.Debug("build start", "kind", kind, "id", id)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, kind, id string, stats BuildStats, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("build failed", "kind", kind, "id", id, "err", err)
		return
	}
	h.logger.Debug("build done", "kind", kind, "id", id,
		"nodes", stats.Nodes, "edges", stats.Edges, "skipped", stats.Skipped, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, kind, id, format string) {
	h.logger.Debug("render start", "kind", kind, "id", id, "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, kind, id, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "kind", kind, "id", id, "format", format, "err", err)
		return
	}
	h.logger.Debug("render done", "kind", kind, "id", id, "format", format, "bytes", size, "took", d)
}

func (h *LogHooks) OnIndexBuild(_ context.Context, records int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("search index failed", "err", err)
		return
	}
	h.logger.Debug("search index built", "records", records, "took", d)
}

func (h *LogHooks) OnQuery(_ context.Context, query string, results int, d time.Duration) {
	h.logger.Debug("search", "q", query, "results", results, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "route", route, "status", status, "took", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ SearchHooks   = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
