package github

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dshills/prscan/internal/cache"
)

type countingAPI struct {
	calls map[string]int
	prs   map[int]PullRequest
}

func newCountingAPI() *countingAPI {
	merged := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return &countingAPI{
		calls: make(map[string]int),
		prs: map[int]PullRequest{
			1: {Number: 1, Title: "merged", MergedAt: &merged},
			2: {Number: 2, Title: "closed unmerged"},
		},
	}
}

func (f *countingAPI) CompareCommits(ctx context.Context, owner, repo, base, head string) ([]Commit, error) {
	f.calls["compare"]++
	return []Commit{{SHA: "a"}}, nil
}

func (f *countingAPI) GetCommit(ctx context.Context, owner, repo, sha string) (*Commit, error) {
	f.calls["commit"]++
	return &Commit{SHA: sha, Parents: []CommitRef{{SHA: "p"}}}, nil
}

func (f *countingAPI) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	f.calls["pull"]++
	pr := f.prs[number]
	return &pr, nil
}

func (f *countingAPI) ListPullRequests(ctx context.Context, owner, repo string, opts ListPullsOptions) ([]PullRequest, error) {
	f.calls["list"]++
	return []PullRequest{f.prs[1], f.prs[2]}, nil
}

func (f *countingAPI) ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]Commit, error) {
	f.calls["pull-commits"]++
	return []Commit{{SHA: "c"}}, nil
}

func newCachingClient(t *testing.T) (*CachingClient, *countingAPI) {
	t.Helper()
	c, err := cache.New(true, t.TempDir(), 0)
	if err != nil {
		t.Fatalf("cache.New error: %v", err)
	}
	api := newCountingAPI()
	return NewCachingClient(api, c, "https://api.github.com"), api
}

func TestCachingClient_CommitByFullSHA(t *testing.T) {
	cc, api := newCachingClient(t)
	ctx := context.Background()
	sha := strings.Repeat("ab", 20)

	for i := 0; i < 3; i++ {
		commit, err := cc.GetCommit(ctx, "org", "repo", sha)
		if err != nil {
			t.Fatalf("GetCommit error: %v", err)
		}
		if commit.SHA != sha {
			t.Errorf("SHA = %q", commit.SHA)
		}
	}
	if api.calls["commit"] != 1 {
		t.Errorf("commit calls = %d, want 1", api.calls["commit"])
	}
}

func TestCachingClient_ShortSHANotCached(t *testing.T) {
	cc, api := newCachingClient(t)
	ctx := context.Background()

	cc.GetCommit(ctx, "org", "repo", "abc123")
	cc.GetCommit(ctx, "org", "repo", "abc123")
	if api.calls["commit"] != 2 {
		t.Errorf("commit calls = %d, want 2", api.calls["commit"])
	}
}

func TestCachingClient_OnlyMergedPullRequestsCached(t *testing.T) {
	cc, api := newCachingClient(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := cc.GetPullRequest(ctx, "org", "repo", 1); err != nil {
			t.Fatalf("GetPullRequest error: %v", err)
		}
		if _, err := cc.GetPullRequest(ctx, "org", "repo", 2); err != nil {
			t.Fatalf("GetPullRequest error: %v", err)
		}
	}
	// #1 once, #2 twice
	if api.calls["pull"] != 3 {
		t.Errorf("pull calls = %d, want 3", api.calls["pull"])
	}
}

func TestCachingClient_PullCommitsCachedAfterListingShowsMerged(t *testing.T) {
	cc, api := newCachingClient(t)
	ctx := context.Background()

	// Unknown merge state: not cached.
	cc.ListPullRequestCommits(ctx, "org", "repo", 1)
	cc.ListPullRequestCommits(ctx, "org", "repo", 1)
	if api.calls["pull-commits"] != 2 {
		t.Fatalf("pull-commits calls = %d, want 2", api.calls["pull-commits"])
	}

	if _, err := cc.ListPullRequests(ctx, "org", "repo", ListPullsOptions{State: "closed"}); err != nil {
		t.Fatalf("ListPullRequests error: %v", err)
	}

	cc.ListPullRequestCommits(ctx, "org", "repo", 1)
	commits, err := cc.ListPullRequestCommits(ctx, "org", "repo", 1)
	if err != nil {
		t.Fatalf("ListPullRequestCommits error: %v", err)
	}
	if len(commits) != 1 || commits[0].SHA != "c" {
		t.Errorf("commits = %+v", commits)
	}
	if api.calls["pull-commits"] != 3 {
		t.Errorf("pull-commits calls = %d, want 3", api.calls["pull-commits"])
	}

	// #2 is closed but not merged.
	cc.ListPullRequestCommits(ctx, "org", "repo", 2)
	cc.ListPullRequestCommits(ctx, "org", "repo", 2)
	if api.calls["pull-commits"] != 5 {
		t.Errorf("pull-commits calls = %d, want 5", api.calls["pull-commits"])
	}
}

func TestCachingClient_ComparePassesThrough(t *testing.T) {
	cc, api := newCachingClient(t)
	ctx := context.Background()

	cc.CompareCommits(ctx, "org", "repo", "a", "b")
	cc.CompareCommits(ctx, "org", "repo", "a", "b")
	if api.calls["compare"] != 2 {
		t.Errorf("compare calls = %d, want 2", api.calls["compare"])
	}
}
