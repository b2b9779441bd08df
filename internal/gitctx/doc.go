// Package gitctx inspects a local git checkout with go-git.
//
// It supplies defaults for single-range analysis: the owner/repo coordinates
// parsed from a remote URL, commit hashes for symbolic refs such as tags or
// HEAD, and a local preview of the commits a range contains.
package gitctx
