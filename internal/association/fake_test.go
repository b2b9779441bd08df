package association

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/prscan/internal/github"
)

type fakeForge struct {
	mu sync.Mutex

	compare    []github.Commit
	compareErr error

	commits   map[string]github.Commit
	commitErr map[string]error

	pulls   map[int]github.PullRequest
	pullErr map[int]error

	listing    []github.PullRequest
	listingErr error
	listOpts   []github.ListPullsOptions

	prCommits    map[int][]string
	prCommitsErr map[int]error
	inspected    []int

	calls    map[string]int
	trace    []string
	onCommit func(sha string)
}

func newFakeForge() *fakeForge {
	return &fakeForge{
		commits:      make(map[string]github.Commit),
		commitErr:    make(map[string]error),
		pulls:        make(map[int]github.PullRequest),
		pullErr:      make(map[int]error),
		prCommits:    make(map[int][]string),
		prCommitsErr: make(map[int]error),
		calls:        make(map[string]int),
	}
}

func (f *fakeForge) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeForge) CompareCommits(ctx context.Context, owner, repo, base, head string) ([]github.Commit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["compare"]++
	if f.compareErr != nil {
		return nil, f.compareErr
	}
	return f.compare, nil
}

func (f *fakeForge) GetCommit(ctx context.Context, owner, repo, sha string) (*github.Commit, error) {
	if f.onCommit != nil {
		defer f.onCommit(sha)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["commit"]++
	f.trace = append(f.trace, "commit:"+sha)
	if err := f.commitErr[sha]; err != nil {
		return nil, err
	}
	c, ok := f.commits[sha]
	if !ok {
		c = github.Commit{SHA: sha, Parents: []github.CommitRef{{SHA: "parent"}}}
	}
	return &c, nil
}

func (f *fakeForge) GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["pull"]++
	if err := f.pullErr[number]; err != nil {
		return nil, err
	}
	pr, ok := f.pulls[number]
	if !ok {
		return nil, &github.NotFoundError{Resource: fmt.Sprintf("pull request #%d", number)}
	}
	return &pr, nil
}

func (f *fakeForge) ListPullRequests(ctx context.Context, owner, repo string, opts github.ListPullsOptions) ([]github.PullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	f.listOpts = append(f.listOpts, opts)
	if f.listingErr != nil {
		return nil, f.listingErr
	}
	return f.listing, nil
}

func (f *fakeForge) ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]github.Commit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["pull-commits"]++
	f.inspected = append(f.inspected, number)
	if err := f.prCommitsErr[number]; err != nil {
		return nil, err
	}
	var out []github.Commit
	for _, sha := range f.prCommits[number] {
		out = append(out, github.Commit{SHA: sha})
	}
	return out, nil
}

var testMerged = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func mergedPR(number int, title string) github.PullRequest {
	merged := testMerged
	sha := fmt.Sprintf("merge%d", number)
	return github.PullRequest{
		Number:         number,
		Title:          title,
		HTMLURL:        fmt.Sprintf("https://github.com/org/app/pull/%d", number),
		State:          "closed",
		User:           github.User{Login: "dev"},
		CreatedAt:      testMerged.Add(-time.Hour),
		MergedAt:       &merged,
		MergeCommitSHA: &sha,
	}
}

func closedPR(number int) github.PullRequest {
	return github.PullRequest{Number: number, Title: "abandoned", State: "closed"}
}

func rangeCommit(sha, message string) github.Commit {
	c := github.Commit{SHA: sha}
	c.Commit.Message = message
	c.Commit.Author = github.Signature{Name: "Dev", Email: "dev@example.com", Date: testMerged}
	return c
}
