package output

import (
	"io"
	"strings"

	"github.com/dshills/prscan/internal/batch"
)

// MarkdownWriter outputs a summary suitable for release notes or a PR comment.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, doc *batch.Document) error {
	ew := &errWriter{w: w}

	ew.printf("## Pull Requests by Commit Range\n\n")
	ew.printf("| Metric | Count |\n")
	ew.printf("|--------|-------|\n")
	ew.printf("| Repositories | %d |\n", doc.TotalRepositories)
	ew.printf("| Successful | %d |\n", doc.SuccessfulRepositories)
	ew.printf("| Failed | %d |\n", doc.FailedRepositories)
	ew.printf("| Commits | %d |\n", doc.TotalCommits)
	ew.printf("| **Pull requests** | **%d** |\n\n", doc.TotalPRs)

	for _, r := range doc.Results {
		ew.printf("### %s\n\n", mdEscape(r.RepositoryName))
		ew.printf("`%s...%s`\n\n", r.OldCommit, r.NewCommit)
		if !r.Success {
			ew.printf(":x: %s\n\n", mdEscape(r.ErrorMessage))
			continue
		}
		if len(r.PullRequests) == 0 {
			ew.printf("%s, no pull requests found.\n\n", plural(len(r.Commits), "commit", "commits"))
			continue
		}
		ew.printf("<details>\n<summary>%s, %s</summary>\n\n",
			plural(len(r.Commits), "commit", "commits"),
			plural(len(r.PullRequests), "pull request", "pull requests"))
		for _, pr := range sortedPRs(r.PullRequests) {
			title := mdEscape(pr.Title)
			if pr.URL != "" {
				ew.printf("- [#%d](%s) %s (@%s)\n", pr.Number, pr.URL, title, pr.Author)
			} else {
				ew.printf("- #%d %s (@%s)\n", pr.Number, title, pr.Author)
			}
		}
		ew.printf("\n</details>\n\n")
	}

	ew.printf("*Run %s at %s*\n", doc.RunID, doc.ProcessedAt.Format("2006-01-02 15:04 MST"))
	return ew.err
}

var mdReplacer = strings.NewReplacer("|", `\|`, "<", "&lt;", ">", "&gt;", "\n", " ")

func mdEscape(s string) string {
	return mdReplacer.Replace(s)
}
