package github

import "time"

// Signature is the author or committer block of a git commit.
type Signature struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

// CommitDetail is the git-level part of a commit payload.
type CommitDetail struct {
	Message string    `json:"message"`
	Author  Signature `json:"author"`
}

// CommitRef points at another commit, e.g. a parent.
type CommitRef struct {
	SHA string `json:"sha"`
}

// Commit is a commit as returned by the commits, compare and pull commits endpoints.
type Commit struct {
	SHA     string       `json:"sha"`
	HTMLURL string       `json:"html_url"`
	Commit  CommitDetail `json:"commit"`
	Parents []CommitRef  `json:"parents"`
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// User is the subset of a GitHub account we read.
type User struct {
	Login string `json:"login"`
}

// PullRequest is a pull request as returned by the pulls endpoints.
type PullRequest struct {
	Number         int        `json:"number"`
	Title          string     `json:"title"`
	HTMLURL        string     `json:"html_url"`
	State          string     `json:"state"`
	User           User       `json:"user"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	MergedAt       *time.Time `json:"merged_at"`
	MergeCommitSHA *string    `json:"merge_commit_sha"`
}

// Merged reports whether the pull request has a merge timestamp.
func (p PullRequest) Merged() bool {
	return p.MergedAt != nil
}

// Comparison is the body of the compare endpoint.
type Comparison struct {
	Status       string   `json:"status"`
	AheadBy      int      `json:"ahead_by"`
	BehindBy     int      `json:"behind_by"`
	TotalCommits int      `json:"total_commits"`
	Commits      []Commit `json:"commits"`
}

// ListPullsOptions selects and pages the pull request listing.
type ListPullsOptions struct {
	State     string // open, closed, all
	Sort      string // created, updated, popularity, long-running
	Direction string // asc, desc
	PerPage   int
	Page      int
}
