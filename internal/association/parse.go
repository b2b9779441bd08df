package association

import (
	"regexp"
	"strconv"
)

var mergePRPattern = regexp.MustCompile(`Merge pull request #(\d+)`)

// ExtractPRNumber returns the pull request number of a GitHub merge commit
// message ("Merge pull request #N from owner/branch").
func ExtractPRNumber(message string) (int, bool) {
	m := mergePRPattern.FindStringSubmatch(message)
	if len(m) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ShortSHA abbreviates a commit hash for display.
func ShortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
