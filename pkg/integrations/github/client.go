package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/matzehuels/plugindex/pkg/buildinfo"
	"github.com/matzehuels/plugindex/pkg/cache"
	"github.com/matzehuels/plugindex/pkg/errors"
	"github.com/matzehuels/plugindex/pkg/httputil"
	"github.com/matzehuels/plugindex/pkg/integrations"
	"github.com/matzehuels/plugindex/pkg/plugin"
)

// CacheNamespace prefixes the cache keys of repository metadata.
const CacheNamespace = "github:repo"

// Options configures a [Client].
type Options struct {
	// Cache stores Enrich results. Nil disables caching.
	Cache cache.Cache
	// TTL is the lifetime of cached entries. Zero keeps them forever.
	TTL time.Duration
	// Refresh skips cache reads; fresh results are still written.
	Refresh bool
	// BaseURL overrides the API endpoint, e.g. for GitHub Enterprise or tests.
	BaseURL string
}

// Client provides access to the GitHub API for repository metadata enrichment.
type Client struct {
	shared  *integrations.Client
	api     *gh.Client
	refresh bool
}

// NewClient creates a GitHub client that sends requests through httpClient.
// Authentication is the responsibility of httpClient (see
// [integrations.NewHTTPClient]).
func NewClient(httpClient *http.Client, opts Options) (*Client, error) {
	if httpClient == nil {
		httpClient = integrations.NewHTTPClient("", integrations.DefaultTimeout)
	}
	api := gh.NewClient(httpClient)
	api.UserAgent = buildinfo.UserAgent()
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid GitHub API url %q", opts.BaseURL)
		}
		api.BaseURL = u
	}
	return &Client{
		shared:  integrations.NewClient(opts.Cache, CacheNamespace, opts.TTL, httpClient),
		api:     api,
		refresh: opts.Refresh,
	}, nil
}

// Enrich fetches the repository metadata of ref and converts it to a record.
//
// The record's owner is ref.Owner as given; its name is the name GitHub
// reports, which may differ in case or after a rename.
func (c *Client) Enrich(ctx context.Context, ref plugin.Reference) (plugin.Record, error) {
	if err := ValidateRepoRef(ref.Owner, ref.Name); err != nil {
		return plugin.Record{}, repoError(ref, err)
	}

	var rec plugin.Record
	err := c.shared.Cached(ctx, ref.String(), c.refresh, &rec, func() error {
		repo, resp, err := c.api.Repositories.Get(ctx, ref.Owner, ref.Name)
		if err != nil {
			return classify(resp, err)
		}
		rec = recordFromRepo(ref, repo)
		return nil
	})
	if err != nil {
		return plugin.Record{}, repoError(ref, err)
	}
	return rec, nil
}

func recordFromRepo(ref plugin.Reference, repo *gh.Repository) plugin.Record {
	rec := plugin.Record{
		Name:        repo.GetName(),
		Owner:       ref.Owner,
		Description: repo.Description,
		Topics:      repo.Topics,
		Stars:       uint(max(repo.GetStargazersCount(), 0)),
		Watchers:    uint(max(repo.GetSubscribersCount(), 0)),
	}
	if rec.Name == "" {
		rec.Name = ref.Name
	}
	if repo.CreatedAt != nil {
		t := repo.CreatedAt.Time
		rec.CreatedAt = &t
	}
	if repo.UpdatedAt != nil {
		t := repo.UpdatedAt.Time
		rec.UpdatedAt = &t
	}
	return rec
}

// FetchFile returns the decoded text of the file at path in the default
// branch of ref.
func (c *Client) FetchFile(ctx context.Context, ref plugin.Reference, path string) (string, error) {
	if err := ValidateRepoRef(ref.Owner, ref.Name); err != nil {
		return "", repoError(ref, err)
	}
	if err := errors.ValidatePath(path); err != nil {
		return "", repoError(ref, err)
	}

	var file *gh.RepositoryContent
	err := httputil.RetryWithBackoff(ctx, func() error {
		f, _, resp, err := c.api.Repositories.GetContents(ctx, ref.Owner, ref.Name, path, nil)
		if err != nil {
			return classify(resp, err)
		}
		file = f
		return nil
	})
	if err != nil {
		return "", repoError(ref, err)
	}
	if file == nil {
		return "", repoError(ref, errors.New(errors.ErrCodeNotFound, "%s is a directory, not a file", path))
	}

	content, err := file.GetContent()
	if err != nil {
		return "", repoError(ref, errors.Wrap(errors.ErrCodeDecode, err, "decode %s", path))
	}
	return content, nil
}
