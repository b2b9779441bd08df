package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
)

const (
	// DefaultAPIURL is the public GitHub REST endpoint.
	DefaultAPIURL = "https://api.github.com"

	userAgent = "prscan"

	// maxPerPage is the largest page size GitHub accepts.
	maxPerPage = 100
	// maxPullCommits is the most commits the pull commits endpoint will ever return.
	maxPullCommits = 250
)

// API is the set of forge operations prscan uses. *Client and *CachingClient implement it.
type API interface {
	CompareCommits(ctx context.Context, owner, repo, base, head string) ([]Commit, error)
	GetCommit(ctx context.Context, owner, repo, sha string) (*Commit, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error)
	ListPullRequests(ctx context.Context, owner, repo string, opts ListPullsOptions) ([]PullRequest, error)
	ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]Commit, error)
}

// Options configures a Client.
type Options struct {
	Token      string
	APIURL     string
	Timeout    time.Duration
	MaxRetries int
}

// Client provides access to the GitHub REST API through go-github, adding
// rate-limit retries and prscan's error types. It is safe for concurrent use.
type Client struct {
	rest       *gh.Client
	apiURL     string
	maxRetries int
}

// NewClient creates a new GitHub client. A token is required. APIURL selects
// a GitHub Enterprise endpoint such as https://ghe.example.com/api/v3.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, fmt.Errorf("GitHub token is not set")
	}

	apiURL := opts.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	apiURL = strings.TrimRight(apiURL, "/")
	base, err := url.Parse(apiURL + "/")
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid GitHub API URL %q", opts.APIURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := gh.NewClient(&http.Client{Timeout: timeout}).WithAuthToken(opts.Token)
	client.BaseURL = base
	client.UserAgent = userAgent

	return &Client{
		rest:       client,
		apiURL:     apiURL,
		maxRetries: opts.MaxRetries,
	}, nil
}

// APIURL returns the base URL requests are sent to.
func (c *Client) APIURL() string {
	return c.apiURL
}

// CompareCommits returns the commits reachable from head but not from base,
// in the order the compare endpoint lists them.
func (c *Client) CompareCommits(ctx context.Context, owner, repo, base, head string) ([]Commit, error) {
	resource := fmt.Sprintf("comparison %s...%s in %s/%s", base, head, owner, repo)

	var commits []Commit
	for page := 1; ; {
		var (
			cmp  *gh.CommitsComparison
			resp *gh.Response
		)
		err := c.call(ctx, resource, func() (*gh.Response, error) {
			var err error
			cmp, resp, err = c.rest.Repositories.CompareCommits(ctx, owner, repo, base, head,
				&gh.ListOptions{Page: page, PerPage: maxPerPage})
			return resp, err
		})
		if err != nil {
			return nil, fmt.Errorf("comparing %s...%s: %w", base, head, err)
		}
		for _, rc := range cmp.Commits {
			commits = append(commits, commitFrom(rc))
		}

		if len(cmp.Commits) < maxPerPage || len(commits) >= cmp.GetTotalCommits() {
			break
		}
		page = nextPage(resp, page)
	}
	return commits, nil
}

// GetCommit fetches a single commit including its parents.
func (c *Client) GetCommit(ctx context.Context, owner, repo, sha string) (*Commit, error) {
	var rc *gh.RepositoryCommit
	err := c.call(ctx, fmt.Sprintf("commit %s in %s/%s", sha, owner, repo), func() (*gh.Response, error) {
		var (
			resp *gh.Response
			err  error
		)
		rc, resp, err = c.rest.Repositories.GetCommit(ctx, owner, repo, sha, nil)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching commit: %w", err)
	}
	commit := commitFrom(rc)
	return &commit, nil
}

// GetPullRequest fetches a pull request by number.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	var pr *gh.PullRequest
	err := c.call(ctx, fmt.Sprintf("PR #%d in %s/%s", number, owner, repo), func() (*gh.Response, error) {
		var (
			resp *gh.Response
			err  error
		)
		pr, resp, err = c.rest.PullRequests.Get(ctx, owner, repo, number)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching PR: %w", err)
	}
	out := pullRequestFrom(pr)
	return &out, nil
}

// ListPullRequests fetches a single page of pull requests.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo string, opts ListPullsOptions) ([]PullRequest, error) {
	list := &gh.PullRequestListOptions{
		State:     opts.State,
		Sort:      opts.Sort,
		Direction: opts.Direction,
		ListOptions: gh.ListOptions{
			Page:    opts.Page,
			PerPage: min(opts.PerPage, maxPerPage),
		},
	}

	var prs []*gh.PullRequest
	err := c.call(ctx, fmt.Sprintf("pull requests of %s/%s", owner, repo), func() (*gh.Response, error) {
		var (
			resp *gh.Response
			err  error
		)
		prs, resp, err = c.rest.PullRequests.List(ctx, owner, repo, list)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("listing PRs: %w", err)
	}

	out := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, pullRequestFrom(pr))
	}
	return out, nil
}

// ListPullRequestCommits fetches all commits of a pull request.
func (c *Client) ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]Commit, error) {
	resource := fmt.Sprintf("commits of PR #%d in %s/%s", number, owner, repo)

	var commits []Commit
	for page := 1; len(commits) < maxPullCommits; {
		var (
			batch []*gh.RepositoryCommit
			resp  *gh.Response
		)
		err := c.call(ctx, resource, func() (*gh.Response, error) {
			var err error
			batch, resp, err = c.rest.PullRequests.ListCommits(ctx, owner, repo, number,
				&gh.ListOptions{Page: page, PerPage: maxPerPage})
			return resp, err
		})
		if err != nil {
			return nil, fmt.Errorf("listing PR commits: %w", err)
		}
		for _, rc := range batch {
			commits = append(commits, commitFrom(rc))
		}
		if len(batch) < maxPerPage {
			break
		}
		page = nextPage(resp, page)
	}
	return commits, nil
}

// call runs one go-github request with rate-limit retries and maps its
// failure onto prscan's error types.
func (c *Client) call(ctx context.Context, resource string, do func() (*gh.Response, error)) error {
	return retryWithBackoff(ctx, c.maxRetries, func() error {
		_, err := do()
		return classify(err, resource, time.Now())
	})
}

// nextPage follows the Link header when present and otherwise counts up.
func nextPage(resp *gh.Response, page int) int {
	if resp != nil && resp.NextPage > page {
		return resp.NextPage
	}
	return page + 1
}
