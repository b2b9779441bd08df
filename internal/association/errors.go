package association

import "fmt"

// RangeError means the two refs of a request could not be compared. It fails
// the whole repository.
type RangeError struct {
	Repository string
	OldRef     string
	NewRef     string
	Err        error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("cannot resolve range %s..%s in %s: %v", e.OldRef, e.NewRef, e.Repository, e.Err)
}

func (e *RangeError) Unwrap() error { return e.Err }

// LookupStep names the sub-step of a commit's resolution that failed.
type LookupStep string

const (
	StepCommitDetail     LookupStep = "commit-detail"
	StepPullRequest      LookupStep = "pull-request"
	StepCandidateListing LookupStep = "candidate-listing"
	StepCandidateCommits LookupStep = "candidate-commits"
)

// LookupError is a failed forge call inside the association engine. It is
// logged and treated as "no result" for that step; it never fails a repository.
type LookupError struct {
	Step LookupStep
	Ref  string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s lookup for %s failed: %v", e.Step, e.Ref, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }
