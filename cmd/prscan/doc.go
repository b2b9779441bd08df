// Prscan is a CLI that maps commit ranges to the GitHub pull requests that
// introduced them.
//
// For each configured repository it lists the commits between an old and a
// new ref, resolves every commit to its pull requests (merge-commit messages
// first, then a scan of recently merged pull requests), and writes a JSON
// results document plus a console summary.
//
// Usage:
//
//	prscan run                              # analyze every range in the range file
//	prscan run --ranges ranges.yaml --out results.json
//	prscan range org/app --old v1.2.0 --new v1.3.0
//	prscan range --old v1.2.0 --dry-run     # preview the range from local history
//	prscan config init                      # write a starter config
//	prscan cache clear                      # drop cached API responses
package main
