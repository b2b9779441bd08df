// Package github wraps go-github with the calls prscan needs to reconcile
// commits against pull requests.
//
// It can compare two refs, fetch a single commit, fetch a pull request by
// number, list a repository's pull requests, and list a pull request's
// commits. go-github failures are mapped onto [NotFoundError], [AuthError],
// [APIError] and a rate-limit error; rate limits are retried with backoff that
// honors the Retry-After and X-RateLimit-Reset headers. [CachingClient] stores
// the responses that can no longer change (commits addressed by full SHA and
// merged pull requests) in a file cache.
package github
