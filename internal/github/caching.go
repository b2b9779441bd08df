package github

import (
	"context"
	"regexp"
	"strconv"
	"sync"

	"github.com/dshills/prscan/internal/cache"
)

var fullSHARe = regexp.MustCompile(`^[0-9a-f]{40}$`)

// CachingClient wraps an API and serves immutable responses from a file cache.
//
// Commits are cached only when addressed by a full SHA. Pull requests and
// their commit lists are cached only once the pull request is known to be
// merged, either from a by-number fetch or from a listing.
type CachingClient struct {
	api   API
	cache *cache.Cache
	scope string

	mu     sync.Mutex
	merged map[string]bool
}

// NewCachingClient creates a caching wrapper. scope separates entries of
// different forge instances, typically the API URL.
func NewCachingClient(api API, c *cache.Cache, scope string) *CachingClient {
	return &CachingClient{
		api:    api,
		cache:  c,
		scope:  scope,
		merged: make(map[string]bool),
	}
}

// CompareCommits is never cached; refs may be branch names.
func (c *CachingClient) CompareCommits(ctx context.Context, owner, repo, base, head string) ([]Commit, error) {
	return c.api.CompareCommits(ctx, owner, repo, base, head)
}

// GetCommit fetches a commit, caching it when sha is a full object name.
func (c *CachingClient) GetCommit(ctx context.Context, owner, repo, sha string) (*Commit, error) {
	if !fullSHARe.MatchString(sha) {
		return c.api.GetCommit(ctx, owner, repo, sha)
	}
	key := c.key(owner, repo, cache.KindCommit, sha)

	var commit Commit
	if c.cache.Load(key, &commit) {
		return &commit, nil
	}

	fetched, err := c.api.GetCommit(ctx, owner, repo, sha)
	if err != nil {
		return nil, err
	}
	c.store(key, fetched)
	return fetched, nil
}

// GetPullRequest fetches a pull request, caching it once merged.
func (c *CachingClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	key := c.key(owner, repo, cache.KindPullRequest, strconv.Itoa(number))

	var pr PullRequest
	if c.cache.Load(key, &pr) {
		c.markMerged(owner, repo, pr)
		return &pr, nil
	}

	fetched, err := c.api.GetPullRequest(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	if fetched.Merged() {
		c.markMerged(owner, repo, *fetched)
		c.store(key, fetched)
	}
	return fetched, nil
}

// ListPullRequests is never cached; it records which listed pull requests are merged.
func (c *CachingClient) ListPullRequests(ctx context.Context, owner, repo string, opts ListPullsOptions) ([]PullRequest, error) {
	prs, err := c.api.ListPullRequests(ctx, owner, repo, opts)
	if err != nil {
		return nil, err
	}
	for _, pr := range prs {
		c.markMerged(owner, repo, pr)
	}
	return prs, nil
}

// ListPullRequestCommits fetches a pull request's commits, caching them when the pull request is merged.
func (c *CachingClient) ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]Commit, error) {
	key := c.key(owner, repo, cache.KindPullCommits, strconv.Itoa(number))

	var commits []Commit
	if c.cache.Load(key, &commits) {
		return commits, nil
	}

	fetched, err := c.api.ListPullRequestCommits(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	if c.isMerged(owner, repo, number) {
		c.store(key, fetched)
	}
	return fetched, nil
}

func (c *CachingClient) key(owner, repo string, kind cache.Kind, id string) cache.Key {
	return cache.Key{Scope: c.scope, Owner: owner, Repo: repo, Kind: kind, ID: id}
}

// store is best effort; a failed write only costs a future API call.
func (c *CachingClient) store(key cache.Key, v any) {
	_ = c.cache.Store(key, v)
}

func (c *CachingClient) markMerged(owner, repo string, pr PullRequest) {
	if !pr.Merged() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.merged[mergedKey(owner, repo, pr.Number)] = true
}

func (c *CachingClient) isMerged(owner, repo string, number int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.merged[mergedKey(owner, repo, number)]
}

func mergedKey(owner, repo string, number int) string {
	return owner + "/" + repo + "#" + strconv.Itoa(number)
}
