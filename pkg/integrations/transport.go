package integrations

import (
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/matzehuels/plugindex/pkg/observability"
)

// DefaultTimeout bounds a single HTTP request, including reading the body.
const DefaultTimeout = 30 * time.Second

// NewHTTPClient creates an HTTP client for API requests. When token is not
// empty every request carries it as a bearer token.
func NewHTTPClient(token string, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var rt http.RoundTripper = NewTransport(nil)
	if token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   rt,
		}
	}
	return &http.Client{Transport: rt, Timeout: timeout}
}

// NewTransport wraps base so that every request is reported to the
// registered [observability.HTTPHooks]. A nil base uses
// http.DefaultTransport.
func NewTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &instrumentedTransport{base: base}
}

type instrumentedTransport struct {
	base http.RoundTripper
}

func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}
