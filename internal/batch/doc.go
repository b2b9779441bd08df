// Package batch runs repository analyses with bounded parallelism and
// aggregates their results into the run document.
package batch
