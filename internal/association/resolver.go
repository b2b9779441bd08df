package association

import (
	"context"
	"fmt"

	"github.com/dshills/prscan/internal/github"
)

// Forge is the subset of the GitHub API the resolver and engine depend on.
type Forge interface {
	CompareCommits(ctx context.Context, owner, repo, base, head string) ([]github.Commit, error)
	GetCommit(ctx context.Context, owner, repo, sha string) (*github.Commit, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error)
	ListPullRequests(ctx context.Context, owner, repo string, opts github.ListPullsOptions) ([]github.PullRequest, error)
	ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]github.Commit, error)
}

// ResolveCommits lists the commits reachable from newRef but not from oldRef,
// in the order the forge's compare reports them. Any forge failure, including
// an unknown ref, is returned as a *RangeError.
func ResolveCommits(ctx context.Context, forge Forge, owner, repo, oldRef, newRef string) ([]CommitRecord, error) {
	raw, err := forge.CompareCommits(ctx, owner, repo, oldRef, newRef)
	if err != nil {
		return nil, &RangeError{
			Repository: fmt.Sprintf("%s/%s", owner, repo),
			OldRef:     oldRef,
			NewRef:     newRef,
			Err:        err,
		}
	}
	commits := make([]CommitRecord, 0, len(raw))
	for _, c := range raw {
		commits = append(commits, commitRecord(c))
	}
	return commits, nil
}
