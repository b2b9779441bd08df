package association

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/dshills/prscan/internal/github"
	"github.com/dshills/prscan/internal/redact"
)

const (
	// DefaultCommitDelay is the pause before each commit is looked up.
	DefaultCommitDelay = time.Second
	// DefaultCandidateDelay is the pause after each fallback candidate.
	DefaultCandidateDelay = 200 * time.Millisecond
	// DefaultCandidateFetchLimit is how many closed pull requests are listed per fallback search.
	DefaultCandidateFetchLimit = 50
	// DefaultCandidateInspectLimit is how many merged candidates are inspected per commit.
	DefaultCandidateInspectLimit = 20
)

// Options tunes the engine's pacing and search window.
type Options struct {
	// CommitDelay is the pause before each commit is resolved.
	CommitDelay time.Duration
	// CandidateDelay is the pause after each fallback candidate is inspected.
	CandidateDelay time.Duration
	// CandidateFetchLimit is the page size of the closed pull request listing.
	CandidateFetchLimit int
	// CandidateInspectLimit caps how many merged candidates are inspected per commit.
	CandidateInspectLimit int
	// Secrets are literal credential values scrubbed from error messages.
	Secrets []string
	// Logger receives progress and lookup warnings. Nil uses slog.Default.
	Logger *slog.Logger
}

// DefaultOptions returns the pacing used against the public GitHub API.
func DefaultOptions() Options {
	return Options{
		CommitDelay:           DefaultCommitDelay,
		CandidateDelay:        DefaultCandidateDelay,
		CandidateFetchLimit:   DefaultCandidateFetchLimit,
		CandidateInspectLimit: DefaultCandidateInspectLimit,
	}
}

// Engine maps commits to the pull requests that introduced them.
//
// Each commit is first checked for a GitHub merge commit whose message names
// its pull request. When that does not yield a pull request, the most
// recently updated merged pull requests are searched for the commit. All forge
// calls for one repository are sequential; an Engine may be shared by
// goroutines working on different repositories.
type Engine struct {
	forge Forge
	opts  Options
	log   *slog.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

// NewEngine creates an engine. Zero limits fall back to the defaults;
// negative delays are treated as zero.
func NewEngine(forge Forge, opts Options) *Engine {
	if opts.CandidateFetchLimit <= 0 {
		opts.CandidateFetchLimit = DefaultCandidateFetchLimit
	}
	if opts.CandidateInspectLimit <= 0 {
		opts.CandidateInspectLimit = DefaultCandidateInspectLimit
	}
	if opts.CommitDelay < 0 {
		opts.CommitDelay = 0
	}
	if opts.CandidateDelay < 0 {
		opts.CandidateDelay = 0
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Engine{forge: forge, opts: opts, log: log, sleep: sleepContext}
}

// Analyze resolves the request's range and associates every commit with its
// pull requests. It never returns an error: failures are reported in the
// result with credentials removed from the message.
func (e *Engine) Analyze(ctx context.Context, req Request) RepositoryRunResult {
	log := e.log.With("repository", req.Repository)

	owner, repo := req.Owner, req.Repo
	if owner == "" || repo == "" {
		var err error
		owner, repo, err = github.SplitRepository(req.Repository)
		if err != nil {
			log.Error("invalid repository", "error", err)
			return Failed(req, e.scrub(err))
		}
	}

	log.Info("resolving commit range", "old", req.OldCommit, "new", req.NewCommit)
	commits, err := ResolveCommits(ctx, e.forge, owner, repo, req.OldCommit, req.NewCommit)
	if err != nil {
		log.Error("range resolution failed", "error", e.scrub(err))
		return Failed(req, e.scrub(err))
	}
	log.Info("found commits in range", "count", len(commits))

	commits, prs, err := e.Associate(ctx, owner, repo, commits)
	if err != nil {
		log.Error("association interrupted", "error", err)
		return Failed(req, e.scrub(err))
	}
	log.Info("repository processed", "commits", len(commits), "pull_requests", len(prs))
	return Succeeded(req, commits, prs)
}

// Associate fills in AssociatedPRs for each commit, in order, and returns the
// repository's deduplicated pull requests in first-discovery order. Forge
// failures for individual commits are logged and leave that commit with no
// pull requests. The only error returned is the context's.
func (e *Engine) Associate(ctx context.Context, owner, repo string, commits []CommitRecord) ([]CommitRecord, []PullRequestRecord, error) {
	seen := newPRSet()
	out := make([]CommitRecord, len(commits))
	copy(out, commits)

	for i := range out {
		if err := e.sleep(ctx, e.opts.CommitDelay); err != nil {
			return nil, nil, err
		}
		prs := e.resolveCommit(ctx, owner, repo, out[i].SHA)
		if prs == nil {
			prs = []PullRequestRecord{}
		}
		out[i].AssociatedPRs = prs
		for _, pr := range prs {
			seen.add(pr)
		}
		e.log.Debug("commit resolved",
			"repository", owner+"/"+repo,
			"commit", ShortSHA(out[i].SHA),
			"pull_requests", len(prs))
	}
	return out, seen.list(), nil
}

func (e *Engine) resolveCommit(ctx context.Context, owner, repo, sha string) []PullRequestRecord {
	log := e.log.With("repository", owner+"/"+repo, "commit", ShortSHA(sha))
	log.Info("looking up pull requests for commit")

	detail, err := e.forge.GetCommit(ctx, owner, repo, sha)
	if err != nil {
		e.warn(log, &LookupError{Step: StepCommitDetail, Ref: sha, Err: err})
		return nil
	}

	if detail.IsMerge() {
		if number, ok := ExtractPRNumber(detail.Commit.Message); ok {
			pr, err := e.forge.GetPullRequest(ctx, owner, repo, number)
			if err == nil {
				log.Info("matched merge commit to pull request", "number", number)
				return []PullRequestRecord{pullRequestRecord(*pr)}
			}
			e.warn(log, &LookupError{Step: StepPullRequest, Ref: "#" + strconv.Itoa(number), Err: err})
		}
	}

	return e.searchRecentMerged(ctx, log, owner, repo, sha)
}

// searchRecentMerged inspects the most recently updated merged pull requests
// and returns every one whose commit list contains sha.
func (e *Engine) searchRecentMerged(ctx context.Context, log *slog.Logger, owner, repo, sha string) []PullRequestRecord {
	listing, err := e.forge.ListPullRequests(ctx, owner, repo, github.ListPullsOptions{
		State:     "closed",
		Sort:      "updated",
		Direction: "desc",
		PerPage:   e.opts.CandidateFetchLimit,
		Page:      1,
	})
	if err != nil {
		e.warn(log, &LookupError{Step: StepCandidateListing, Ref: owner + "/" + repo, Err: err})
		return nil
	}

	candidates := make([]github.PullRequest, 0, e.opts.CandidateInspectLimit)
	for _, pr := range listing {
		if !pr.Merged() {
			continue
		}
		candidates = append(candidates, pr)
		if len(candidates) == e.opts.CandidateInspectLimit {
			break
		}
	}
	log.Debug("searching merged pull requests", "candidates", len(candidates))

	var matches []PullRequestRecord
	for i, pr := range candidates {
		log.Debug("checking pull request", "number", pr.Number, "index", i+1, "of", len(candidates))
		commits, err := e.forge.ListPullRequestCommits(ctx, owner, repo, pr.Number)
		if err != nil {
			e.warn(log, &LookupError{Step: StepCandidateCommits, Ref: "#" + strconv.Itoa(pr.Number), Err: err})
		} else if containsSHA(commits, sha) {
			log.Info("found commit in pull request", "number", pr.Number)
			matches = append(matches, pullRequestRecord(pr))
		}
		if err := e.sleep(ctx, e.opts.CandidateDelay); err != nil {
			break
		}
	}
	return matches
}

func (e *Engine) warn(log *slog.Logger, err *LookupError) {
	attrs := []any{"step", string(err.Step), "error", e.scrub(err.Err)}
	if github.IsAuthError(err.Err) || github.IsRateLimited(err.Err) {
		log.Warn("lookup failed; check token scope and rate limit", attrs...)
		return
	}
	log.Warn("lookup failed", attrs...)
}

func (e *Engine) scrub(err error) string {
	if err == nil {
		return ""
	}
	return redact.Tokens(err.Error(), e.opts.Secrets...)
}

func containsSHA(commits []github.Commit, sha string) bool {
	for _, c := range commits {
		if c.SHA == sha {
			return true
		}
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsRangeError reports whether err came from range resolution.
func IsRangeError(err error) bool {
	var re *RangeError
	return errors.As(err, &re)
}
