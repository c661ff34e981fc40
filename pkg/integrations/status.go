package integrations

import (
	"net/http"

	"github.com/matzehuels/plugindex/pkg/errors"
	"github.com/matzehuels/plugindex/pkg/httputil"
)

// StatusError maps an HTTP status code to a coded error wrapping cause.
// It returns nil for 2xx codes. 5xx responses are marked retryable.
func StatusError(code int, cause error) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.Wrap(errors.ErrCodeNotFound, cause, "not found")
	case code == http.StatusUnauthorized:
		return errors.Wrap(errors.ErrCodeUnauthorized, cause, "bad credentials")
	case code == http.StatusForbidden:
		return errors.Wrap(errors.ErrCodeUnauthorized, cause, "access forbidden")
	case code == http.StatusTooManyRequests:
		return errors.Wrap(errors.ErrCodeRateLimited, cause, "rate limited")
	case code >= 500:
		return &httputil.RetryableError{
			Err: errors.Wrap(errors.ErrCodeNetwork, cause, "server error (status %d)", code),
		}
	default:
		return errors.Wrap(errors.ErrCodeNetwork, cause, "unexpected status %d", code)
	}
}

// NetworkError marks a transport failure (timeout, connection refused) as
// a retryable network error.
func NetworkError(cause error) error {
	return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, cause, "request failed")}
}
