// Package integrations provides the HTTP plumbing shared by API clients.
//
// # Overview
//
// Clients for remote APIs live in subpackages ([github] is the only one
// today). This package supplies what they have in common:
//
//   - [NewHTTPClient]: an *http.Client with a timeout, optional bearer-token
//     authentication via golang.org/x/oauth2, and request instrumentation
//   - [NewTransport]: the instrumented RoundTripper that reports every
//     request to [observability.HTTP]
//   - [Client]: response caching through [cache.Cache] with retry on
//     transient failures
//   - [StatusError]: mapping of HTTP status codes to coded errors
//
// # Client Pattern
//
//	httpClient := integrations.NewHTTPClient(token, 30*time.Second)
//	shared := integrations.NewClient(c, "github:repo", 6*time.Hour, httpClient)
//
//	var v payload
//	err := shared.Cached(ctx, "owner/name", refresh, &v, func() error {
//	    return fetchInto(ctx, &v)
//	})
//
// [github]: github.com/matzehuels/plugindex/pkg/integrations/github
// [observability.HTTP]: github.com/matzehuels/plugindex/pkg/observability.HTTP
// [cache.Cache]: github.com/matzehuels/plugindex/pkg/cache.Cache
package integrations
