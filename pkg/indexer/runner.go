package indexer

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plugindex/pkg/markdown"
	"github.com/matzehuels/plugindex/pkg/plugin"
)

// Enricher turns a reference into a full record.
type Enricher interface {
	Enrich(ctx context.Context, ref plugin.Reference) (plugin.Record, error)
}

// FileFetcher retrieves a file from a repository.
type FileFetcher interface {
	FetchFile(ctx context.Context, ref plugin.Reference, path string) (string, error)
}

// Reporter receives the outcome of every enrichment as it happens.
type Reporter interface {
	Enriched(rec plugin.Record)
	Failed(ref plugin.Reference, err error)
}

// Source names the README that lists the plugins.
type Source struct {
	Repo plugin.Reference
	Path string
}

func (s Source) String() string { return s.Repo.String() + "/" + s.Path }

// DefaultSource is the curated awesome-neovim list.
var DefaultSource = Source{
	Repo: plugin.Reference{Owner: "rockerBOO", Name: "awesome-neovim"},
	Path: "README.md",
}

// Runner executes index operations.
type Runner struct {
	Enricher  Enricher
	Fetcher   FileFetcher
	Extractor *markdown.Extractor
	Reporter  Reporter
	Logger    *log.Logger
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.New(io.Discard)
}

func (r *Runner) extractor(logger *log.Logger) *markdown.Extractor {
	if r.Extractor != nil {
		return r.Extractor
	}
	return markdown.NewExtractor(logger)
}

func (r *Runner) reporter() Reporter {
	if r.Reporter != nil {
		return r.Reporter
	}
	return nopReporter{}
}

type nopReporter struct{}

func (nopReporter) Enriched(plugin.Record)          {}
func (nopReporter) Failed(plugin.Reference, error) {}
