package github

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// scp-like remotes: user@host:owner/repo
var scpRemoteRe = regexp.MustCompile(`^[^@/\s]+@[^:/\s]+:(.+)$`)

// ParseRemoteURL extracts owner/repo from a git remote or repository web URL.
// Accepted forms are scheme URLs (https, http, ssh, git) and scp-like SSH
// remotes. Path segments after owner/repo, such as /tree/main, are ignored.
func ParseRemoteURL(remote string) (owner, repo string, err error) {
	remote = strings.TrimSpace(remote)

	var path string
	switch {
	case strings.Contains(remote, "://"):
		u, perr := url.Parse(remote)
		if perr != nil || u.Host == "" {
			return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", remote)
		}
		path = u.Path
	case scpRemoteRe.MatchString(remote):
		path = scpRemoteRe.FindStringSubmatch(remote)[1]
	default:
		return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", remote)
	}

	parts := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(parts) < 2 {
		return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", remote)
	}
	owner, repo = parts[0], strings.TrimSuffix(parts[1], ".git")
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", remote)
	}
	return owner, repo, nil
}

// SplitRepository splits an "owner/repo" identifier.
func SplitRepository(name string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSpace(name), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository name format: %s. Expected format: owner/repo", name)
	}
	return parts[0], parts[1], nil
}
