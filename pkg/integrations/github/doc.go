// Package github enriches plugin references with GitHub repository metadata.
//
// # Overview
//
// [Client] wraps github.com/google/go-github with the shared caching and
// retry plumbing from [integrations]. It offers two operations:
//
//   - [Client.Enrich]: one GET /repos/{owner}/{name} call turned into a
//     [plugin.Record]
//   - [Client.FetchFile]: a file from the contents API, base64-decoded
//
// # Usage
//
//	httpClient := integrations.NewHTTPClient(token, 30*time.Second)
//	client, err := github.NewClient(httpClient, github.Options{
//	    Cache: fileCache,
//	    TTL:   6 * time.Hour,
//	})
//
//	rec, err := client.Enrich(ctx, plugin.Reference{Owner: "nvim-lua", Name: "plenary.nvim"})
//
// # Errors
//
// Every failure is a [*RepoError] naming the reference. Its cause carries an
// error code from [errors] (NOT_FOUND, UNAUTHORIZED, RATE_LIMITED,
// NETWORK_ERROR, INVALID_REPO_REF, DECODE_ERROR), so callers can branch with
// errors.Is(err, errors.ErrCodeNotFound). References are validated against
// GitHub naming rules before any request is made.
//
// # Caching
//
// Enrich results are cached under github:repo:owner/name. Set
// [Options.Refresh] to skip cache reads while still refreshing entries.
// FetchFile is never cached.
//
// [integrations]: github.com/matzehuels/plugindex/pkg/integrations
// [plugin.Record]: github.com/matzehuels/plugindex/pkg/plugin.Record
// [errors]: github.com/matzehuels/plugindex/pkg/errors
package github
