package batch

import (
	"time"

	"github.com/dshills/prscan/internal/association"
	"github.com/google/uuid"
)

// Summary aggregates a run. Commit and pull request totals count successful
// repositories only. Pull requests are not deduplicated across repositories.
type Summary struct {
	TotalRepositories      int `json:"totalRepositories"`
	SuccessfulRepositories int `json:"successfulRepositories"`
	FailedRepositories     int `json:"failedRepositories"`
	TotalCommits           int `json:"totalCommits"`
	TotalPRs               int `json:"totalPRs"`
}

// Summarize computes the aggregate counts of results.
func Summarize(results []association.RepositoryRunResult) Summary {
	s := Summary{TotalRepositories: len(results)}
	for _, r := range results {
		if !r.Success {
			s.FailedRepositories++
			continue
		}
		s.SuccessfulRepositories++
		s.TotalCommits += len(r.Commits)
		s.TotalPRs += len(r.PullRequests)
	}
	return s
}

// Document is the persisted output of a run.
type Document struct {
	RunID       string    `json:"runId"`
	ProcessedAt time.Time `json:"processedAt"`
	Summary
	Results []association.RepositoryRunResult `json:"results"`
}

// NewDocument stamps results with a fresh run ID and the given completion time.
func NewDocument(results []association.RepositoryRunResult, processedAt time.Time) Document {
	if results == nil {
		results = []association.RepositoryRunResult{}
	}
	return Document{
		RunID:       uuid.NewString(),
		ProcessedAt: processedAt.UTC(),
		Summary:     Summarize(results),
		Results:     results,
	}
}
