package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/dshills/prscan/internal/association"
	"github.com/dshills/prscan/internal/batch"
)

// Writer writes a run document in a specific format.
type Writer interface {
	Write(w io.Writer, doc *batch.Document) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string, noColor bool) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{NoColor: noColor}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

const resultsFileMode = 0o644

// WriteFile writes the document as JSON to path. The file is replaced
// atomically so a failed run never leaves a truncated document behind.
func WriteFile(path string, doc *batch.Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prscan-*.json")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	tmpName := tmp.Name()

	// CreateTemp uses 0600; results are shared with CI readers.
	if err := tmp.Chmod(resultsFileMode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting output file mode: %w", err)
	}
	if err := (&JSONWriter{}).Write(tmp, doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing output file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// sortedPRs returns a copy of prs ordered by number.
func sortedPRs(prs []association.PullRequestRecord) []association.PullRequestRecord {
	out := make([]association.PullRequestRecord, len(prs))
	copy(out, prs)
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
