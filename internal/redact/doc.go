// Package redact removes credentials from text before it is logged or
// written into a run result.
//
// Detection uses regex heuristics covering common credential shapes: GitHub
// personal access and app tokens, bearer authorization headers, JWTs,
// basic-auth userinfo embedded in URLs, and key/token/password assignments.
// Known credential values (the configured GitHub and Azure DevOps tokens) can
// also be scrubbed literally with Tokens, which catches values that do not
// match any heuristic.
package redact
