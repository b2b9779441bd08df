// Package cli wires together the Cobra command tree for the prscan binary.
//
// It defines the root command and all subcommands (run, range, config, cache,
// version), binds flags, reads configuration, drives the batch dispatcher,
// and returns deterministic exit codes for scripting.
package cli
