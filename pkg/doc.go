// Package pkg provides the core libraries for plugindex.
//
// # Overview
//
// Plugindex builds a JSON index of Neovim plugins. It scrapes the curated
// awesome-neovim README for owner/name references, enriches each one with
// its GitHub repository metadata and writes the records to a file that a web
// client searches.
//
// # Architecture
//
// The typical data flow through an index run:
//
//	awesome-neovim README.md
//	         ↓
//	    [markdown] package (list items → owner/name references)
//	         ↓
//	    [plugin] package (merge with references already indexed)
//	         ↓
//	    [integrations/github] package (references → records, cached)
//	         ↓
//	    [store] package (sorted JSON array, atomic write)
//
// [indexer] drives these steps for the index and add commands; [server]
// serves the resulting file over HTTP.
//
// # Main Packages
//
// [plugin] - References, records, the ordered reference set and the merge of
// scraped and existing entries.
//
// [markdown] - Markdown event stream (goldmark) and the list-item reference
// extractor.
//
// [integrations] - Shared HTTP client plumbing: authenticated transport,
// status mapping and the cached fetch helper.
//
// [integrations/github] - Repository metadata and file contents from the
// GitHub API.
//
// [store] - Loading, saving and schema validation of index files.
//
// [indexer] - Index and add operations over an enricher and a file fetcher.
//
// [server] - Read-only HTTP API over an index file.
//
// ## Infrastructure
//
// [cache] - Cache interface with file, redis and null backends.
//
// [httputil] - Retry with exponential backoff.
//
// [errors] - Coded errors and the command-level error presenter.
//
// [observability] - Hooks for index, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/markdown/...           # Specific package
//	go test -tags integration ./pkg/...  # Include integration tests
//
// [plugin]: https://pkg.go.dev/github.com/matzehuels/plugindex/pkg/plugin
// [markdown]: https://pkg.go.dev/github.com/matzehuels/plugindex/pkg/markdown
// [integrations]: https://pkg.go.dev/github.com/matzehuels/plugindex/pkg/integrations
// [integrations/github]: https://pkg.go.dev/github.com/matzehuels/plugindex/pkg/integrations/github
// [store]: https://pkg.go.dev/github.com/matzehuels/plugindex/pkg/store
// [indexer]: https://pkg.go.dev/github.com/matzehuels/plugindex/pkg/indexer
// [server]: https://pkg.go.dev/github.com/matzehuels/plugindex/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/plugindex/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/plugindex/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/plugindex/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/plugindex/pkg/observability
package pkg
