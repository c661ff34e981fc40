package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plugindex/pkg/errors"
	"github.com/matzehuels/plugindex/pkg/plugin"
)

// consoleReporter prints one line per enriched or failed plugin.
type consoleReporter struct {
	w io.Writer
}

func newConsoleReporter(w io.Writer) *consoleReporter {
	return &consoleReporter{w: w}
}

func (r *consoleReporter) Enriched(rec plugin.Record) {
	fmt.Fprintln(r.w, successLine("%s", rec.Reference()))
}

func (r *consoleReporter) Failed(ref plugin.Reference, err error) {
	fmt.Fprintln(r.w, errorLine("%s: %s", ref, errors.UserMessage(err)))
}

// logHooks writes observability events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnScrapeComplete(_ context.Context, source string, refs int, d time.Duration, err error) {
	h.logger.Debug("scrape complete", "source", source, "refs", refs, "took", d.Round(time.Millisecond), "error", err)
}

func (h *logHooks) OnEnrichStart(_ context.Context, ref string) {
	h.logger.Debug("enrich", "ref", ref)
}

func (h *logHooks) OnEnrichComplete(_ context.Context, ref string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("enrich failed", "ref", ref, "took", d.Round(time.Millisecond), "error", err)
		return
	}
	h.logger.Debug("enriched", "ref", ref, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnIndexComplete(_ context.Context, added, failed int, d time.Duration, err error) {
	h.logger.Debug("index complete", "added", added, "failed", failed, "took", d.Round(time.Millisecond), "error", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}
