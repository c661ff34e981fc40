package github

import (
	"context"
	stderrors "errors"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/matzehuels/plugindex/pkg/errors"
	"github.com/matzehuels/plugindex/pkg/httputil"
	"github.com/matzehuels/plugindex/pkg/integrations"
	"github.com/matzehuels/plugindex/pkg/plugin"
)

// RepoError reports a failed operation on one repository.
type RepoError struct {
	Ref plugin.Reference
	Err error
}

func (e *RepoError) Error() string { return e.Ref.String() + ": " + e.Err.Error() }
func (e *RepoError) Unwrap() error { return e.Err }

func repoError(ref plugin.Reference, err error) *RepoError {
	var re *httputil.RetryableError
	if stderrors.As(err, &re) {
		err = re.Err
	}
	return &RepoError{Ref: ref, Err: err}
}

// classify turns a go-github failure into a coded error. Transport failures,
// 5xx responses and secondary rate limits with a Retry-After come back
// retryable.
func classify(resp *gh.Response, err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rateErr *gh.RateLimitError
	if stderrors.As(err, &rateErr) {
		return errors.Wrap(errors.ErrCodeRateLimited, err,
			"rate limit exceeded, resets at %s", rateErr.Rate.Reset.Format(time.RFC3339))
	}
	var abuseErr *gh.AbuseRateLimitError
	if stderrors.As(err, &abuseErr) {
		var after time.Duration
		if abuseErr.RetryAfter != nil {
			after = *abuseErr.RetryAfter
		}
		coded := errors.Wrap(errors.ErrCodeRateLimited,
			&errors.RateLimitedError{RetryAfter: int(after.Seconds()), Message: abuseErr.Message},
			"secondary rate limit exceeded")
		if after > 0 {
			return &httputil.RetryableError{Err: coded, After: after}
		}
		return coded
	}

	if resp != nil && resp.Response != nil {
		if coded := integrations.StatusError(resp.StatusCode, err); coded != nil {
			return coded
		}
	}
	return integrations.NetworkError(err)
}
