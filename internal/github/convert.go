package github

import (
	gh "github.com/google/go-github/v66/github"
)

func commitFrom(rc *gh.RepositoryCommit) Commit {
	if rc == nil {
		return Commit{}
	}
	detail := rc.GetCommit()
	author := detail.GetAuthor()
	c := Commit{
		SHA:     rc.GetSHA(),
		HTMLURL: rc.GetHTMLURL(),
		Commit: CommitDetail{
			Message: detail.GetMessage(),
			Author: Signature{
				Name:  author.GetName(),
				Email: author.GetEmail(),
				Date:  author.GetDate().Time,
			},
		},
	}
	for _, p := range rc.Parents {
		c.Parents = append(c.Parents, CommitRef{SHA: p.GetSHA()})
	}
	return c
}

func pullRequestFrom(pr *gh.PullRequest) PullRequest {
	if pr == nil {
		return PullRequest{}
	}
	out := PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		HTMLURL:   pr.GetHTMLURL(),
		State:     pr.GetState(),
		User:      User{Login: pr.GetUser().GetLogin()},
		CreatedAt: pr.GetCreatedAt().Time,
		UpdatedAt: pr.GetUpdatedAt().Time,
	}
	if pr.MergedAt != nil {
		merged := pr.MergedAt.Time
		out.MergedAt = &merged
	}
	if pr.MergeCommitSHA != nil {
		sha := pr.GetMergeCommitSHA()
		out.MergeCommitSHA = &sha
	}
	return out
}
