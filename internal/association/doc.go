// Package association resolves a commit range into its commits and maps each
// commit to the pull requests that introduced it.
//
// ResolveCommits asks the forge for the commits between two refs. Engine then
// walks those commits in order using two strategies: a merge commit whose
// message reads "Merge pull request #N" is matched to pull request N
// directly, and anything else is searched for among the most recently
// updated merged pull requests. Lookup failures on a single commit are logged
// and never fail the repository.
package association
