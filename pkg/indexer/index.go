package indexer

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/plugindex/pkg/errors"
	"github.com/matzehuels/plugindex/pkg/observability"
	"github.com/matzehuels/plugindex/pkg/plugin"
	"github.com/matzehuels/plugindex/pkg/store"
)

// IndexOptions configures [Runner.Index].
type IndexOptions struct {
	Output string
	Source Source
	Pretty bool
}

// Failure is a reference that could not be enriched.
type Failure struct {
	Ref plugin.Reference
	Err error
}

// IndexResult summarizes an index run.
type IndexResult struct {
	RunID      string
	Scraped    int
	Preserved  []plugin.Reference
	Added      int
	Duplicates int
	Failed     []Failure
	Duration   time.Duration
}

// Index regenerates the index at opts.Output.
//
// Records already in the output survive even if the README no longer lists
// them. A reference that fails to enrich is reported and skipped; failing
// to load the existing index, to fetch the README or to write the result
// aborts the run. Cancelling ctx aborts before anything is written.
func (r *Runner) Index(ctx context.Context, opts IndexOptions) (res *IndexResult, err error) {
	if opts.Source == (Source{}) {
		opts.Source = DefaultSource
	}
	runID := uuid.NewString()
	logger := r.logger().With("run", runID[:8])
	start := time.Now()
	res = &IndexResult{RunID: runID}

	defer func() {
		res.Duration = time.Since(start)
		observability.Index().OnIndexComplete(ctx, res.Added, len(res.Failed), res.Duration, err)
	}()

	existing, err := store.Load(opts.Output)
	if err != nil {
		return res, err
	}
	logger.Debug("loaded existing index", "path", opts.Output, "records", len(existing))

	scrapeStart := time.Now()
	readme, err := r.Fetcher.FetchFile(ctx, opts.Source.Repo, opts.Source.Path)
	if err != nil {
		observability.Index().OnScrapeComplete(ctx, opts.Source.String(), 0, time.Since(scrapeStart), err)
		return res, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeNetwork), err, "fetch %s", opts.Source)
	}
	scraped := r.extractor(logger).Extract([]byte(readme))
	res.Scraped = scraped.Len()
	observability.Index().OnScrapeComplete(ctx, opts.Source.String(), res.Scraped, time.Since(scrapeStart), nil)
	logger.Info("scraped references", "source", opts.Source, "count", res.Scraped)

	merged, preserved := plugin.Merge(scraped, existing)
	res.Preserved = preserved
	for _, ref := range preserved {
		logger.Info("preserving entry missing from source", "ref", ref)
	}

	idx := plugin.NewIndex()
	rep := r.reporter()
	for ref := range merged.All() {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		enrichStart := time.Now()
		observability.Index().OnEnrichStart(ctx, ref.String())
		rec, err := r.Enricher.Enrich(ctx, ref)
		observability.Index().OnEnrichComplete(ctx, ref.String(), time.Since(enrichStart), err)

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && stderrors.Is(err, ctxErr) {
				return res, ctxErr
			}
			logger.Debug("enrich failed", "ref", ref, "err", err)
			res.Failed = append(res.Failed, Failure{Ref: ref, Err: err})
			rep.Failed(ref, err)
			continue
		}
		if !idx.Add(rec) {
			res.Duplicates++
			logger.Debug("skipping duplicate", "ref", ref, "record", rec.Reference())
			continue
		}
		res.Added++
		rep.Enriched(rec)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := store.Save(opts.Output, idx.Records(), opts.Pretty); err != nil {
		return res, err
	}
	logger.Info("wrote index", "path", opts.Output, "records", idx.Len(), "failed", len(res.Failed))
	return res, nil
}
