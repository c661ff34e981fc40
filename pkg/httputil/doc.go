// Package httputil provides retry helpers for the GitHub client.
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff when it fails with a
// transient error. Callers mark transient failures (network errors, 5xx
// responses) by wrapping them in [RetryableError]; every other error is
// returned immediately.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    repo, resp, err := gh.Repositories.Get(ctx, owner, name)
//	    if isTransient(resp, err) {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    return err
//	})
//
// The defaults used by [RetryWithBackoff] are 3 attempts with a 1 second
// initial delay that doubles after each failure.
package httputil
