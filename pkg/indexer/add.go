package indexer

import (
	"context"

	"github.com/matzehuels/plugindex/pkg/plugin"
	"github.com/matzehuels/plugindex/pkg/store"
)

// AddResult is the outcome of [Runner.Add]. Added is false when a record
// with the same identity was already present and nothing was written.
type AddResult struct {
	Record plugin.Record
	Added  bool
}

// Add enriches the "owner/name" reference raw and appends it to the index
// at output, which is then written pretty-printed. Nothing is written when
// validation or enrichment fails.
func (r *Runner) Add(ctx context.Context, raw, output string) (*AddResult, error) {
	ref, err := plugin.ParseReference(raw)
	if err != nil {
		return nil, err
	}
	logger := r.logger().With("ref", ref)

	rec, err := r.Enricher.Enrich(ctx, ref)
	if err != nil {
		return nil, err
	}

	existing, err := store.Load(output)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if e.SameIdentity(rec) {
			logger.Info("plugin already indexed", "path", output)
			return &AddResult{Record: rec}, nil
		}
	}

	if err := store.Save(output, append(existing, rec), true); err != nil {
		return nil, err
	}
	logger.Debug("wrote index", "path", output, "records", len(existing)+1)
	return &AddResult{Record: rec, Added: true}, nil
}
