package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dshills/prscan/internal/batch"
	"github.com/muesli/termenv"
)

var (
	colorGreen    = lipgloss.Color("#00FF00")
	colorRed      = lipgloss.Color("#FF0000")
	colorCyan     = lipgloss.Color("#00FFFF")
	colorYellow   = lipgloss.Color("#FFFF00")
	colorDarkGray = lipgloss.Color("8")
)

// TextWriter outputs a human-readable summary. Colors follow the terminal's
// capabilities unless NoColor is set.
type TextWriter struct {
	NoColor bool
}

type textStyles struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	fail    lipgloss.Style
	number  lipgloss.Style
	dim     lipgloss.Style
	heading lipgloss.Style
}

func (t *TextWriter) styles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	if t.NoColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return textStyles{
		title:   r.NewStyle().Bold(true).Foreground(colorCyan),
		ok:      r.NewStyle().Foreground(colorGreen),
		fail:    r.NewStyle().Foreground(colorRed),
		number:  r.NewStyle().Foreground(colorYellow),
		dim:     r.NewStyle().Foreground(colorDarkGray),
		heading: r.NewStyle().Bold(true),
	}
}

func (t *TextWriter) Write(w io.Writer, doc *batch.Document) error {
	st := t.styles(w)
	ew := &errWriter{w: w}

	ew.println(st.title.Render("=== SUMMARY ==="))
	ew.printf("Run: %s (%s)\n", doc.RunID, doc.ProcessedAt.Format("2006-01-02 15:04:05 MST"))
	ew.println(st.dim.Render(strings.Repeat("─", 60)))
	ew.printf("Total Repositories: %d\n", doc.TotalRepositories)
	ew.printf("Successful: %s\n", st.ok.Render(fmt.Sprint(doc.SuccessfulRepositories)))
	ew.printf("Failed: %s\n", failCount(st, doc.FailedRepositories))
	ew.printf("Total Commits Found: %d\n", doc.TotalCommits)
	ew.printf("Total PRs Found: %d\n", doc.TotalPRs)
	ew.println(st.dim.Render(strings.Repeat("─", 60)))

	if len(doc.Results) == 0 {
		ew.println("\nNo repositories processed.")
		return ew.err
	}

	for _, r := range doc.Results {
		ew.println("")
		if !r.Success {
			ew.printf("%s %s: %s\n", st.fail.Render("❌"), st.heading.Render(r.RepositoryName), r.ErrorMessage)
			continue
		}
		ew.printf("%s %s: %s, %s\n",
			st.ok.Render("✅"),
			st.heading.Render(r.RepositoryName),
			plural(len(r.Commits), "commit", "commits"),
			plural(len(r.PullRequests), "PR", "PRs"))
		if len(r.PullRequests) == 0 {
			continue
		}
		ew.println("   Pull Requests:")
		for _, pr := range sortedPRs(r.PullRequests) {
			ew.printf("     - %s: %s by %s\n", st.number.Render(fmt.Sprintf("#%d", pr.Number)), pr.Title, pr.Author)
		}
	}
	return ew.err
}

func failCount(st textStyles, n int) string {
	if n == 0 {
		return fmt.Sprint(n)
	}
	return st.fail.Render(fmt.Sprint(n))
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
