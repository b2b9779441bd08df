// Package output renders run documents for display or machine consumption.
//
// Three formats are supported:
//   - text    : styled terminal summary (default)
//   - json    : the full run document
//   - markdown: summary table and per-repository pull request lists
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*batch.Document]. [WriteFile]
// persists the JSON document atomically.
package output
