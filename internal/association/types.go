package association

import (
	"time"

	"github.com/dshills/prscan/internal/github"
)

// PullRequestRecord identifies a pull request within one repository. Number is the key.
type PullRequestRecord struct {
	Number         int        `json:"number"`
	Title          string     `json:"title"`
	URL            string     `json:"url"`
	Author         string     `json:"author"`
	CreatedAt      time.Time  `json:"createdAt"`
	MergedAt       *time.Time `json:"mergedAt,omitempty"`
	MergeCommitSHA string     `json:"mergeCommitSha,omitempty"`
}

// CommitRecord is one commit of a range and the pull requests it was resolved to.
type CommitRecord struct {
	SHA           string              `json:"sha"`
	Message       string              `json:"message"`
	Author        string              `json:"author"`
	Date          time.Time           `json:"date"`
	AssociatedPRs []PullRequestRecord `json:"associatedPRs"`
}

// Request asks for the pull requests behind OldCommit..NewCommit of one repository.
// Owner and Repo are derived from Repository when empty.
type Request struct {
	Repository string
	Owner      string
	Repo       string
	OldCommit  string
	NewCommit  string
}

// RepositoryRunResult is the outcome for one Request. Either Success is true
// and the commit and pull request lists are populated, or Success is false
// and ErrorMessage is set and both lists are empty.
type RepositoryRunResult struct {
	RepositoryName string              `json:"repositoryName"`
	OldCommit      string              `json:"oldCommit"`
	NewCommit      string              `json:"newCommit"`
	Commits        []CommitRecord      `json:"commits"`
	PullRequests   []PullRequestRecord `json:"pullRequests"`
	Success        bool                `json:"success"`
	ErrorMessage   string              `json:"errorMessage,omitempty"`
}

// Succeeded builds a successful result.
func Succeeded(req Request, commits []CommitRecord, prs []PullRequestRecord) RepositoryRunResult {
	if commits == nil {
		commits = []CommitRecord{}
	}
	if prs == nil {
		prs = []PullRequestRecord{}
	}
	return RepositoryRunResult{
		RepositoryName: req.Repository,
		OldCommit:      req.OldCommit,
		NewCommit:      req.NewCommit,
		Commits:        commits,
		PullRequests:   prs,
		Success:        true,
	}
}

// Failed builds a failed result. An empty message is replaced so the result is never ambiguous.
func Failed(req Request, message string) RepositoryRunResult {
	if message == "" {
		message = "unknown error"
	}
	return RepositoryRunResult{
		RepositoryName: req.Repository,
		OldCommit:      req.OldCommit,
		NewCommit:      req.NewCommit,
		Commits:        []CommitRecord{},
		PullRequests:   []PullRequestRecord{},
		Success:        false,
		ErrorMessage:   message,
	}
}

func commitRecord(c github.Commit) CommitRecord {
	return CommitRecord{
		SHA:           c.SHA,
		Message:       c.Commit.Message,
		Author:        c.Commit.Author.Name,
		Date:          c.Commit.Author.Date,
		AssociatedPRs: []PullRequestRecord{},
	}
}

func pullRequestRecord(pr github.PullRequest) PullRequestRecord {
	rec := PullRequestRecord{
		Number:    pr.Number,
		Title:     pr.Title,
		URL:       pr.HTMLURL,
		Author:    pr.User.Login,
		CreatedAt: pr.CreatedAt,
		MergedAt:  pr.MergedAt,
	}
	if pr.MergeCommitSHA != nil {
		rec.MergeCommitSHA = *pr.MergeCommitSHA
	}
	return rec
}

// prSet keeps the first record seen for each pull request number, in discovery order.
type prSet struct {
	index map[int]struct{}
	items []PullRequestRecord
}

func newPRSet() *prSet {
	return &prSet{index: make(map[int]struct{})}
}

func (s *prSet) add(pr PullRequestRecord) {
	if _, ok := s.index[pr.Number]; ok {
		return
	}
	s.index[pr.Number] = struct{}{}
	s.items = append(s.items, pr)
}

func (s *prSet) list() []PullRequestRecord {
	if s.items == nil {
		return []PullRequestRecord{}
	}
	return s.items
}
