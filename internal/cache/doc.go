// Package cache stores forge API responses that can no longer change.
//
// Entries are grouped by [Kind] (commits addressed by full SHA, merged pull
// requests, and the commit lists of merged pull requests) and written as
// JSON files under one subdirectory per kind. A [Key] is hashed with SHA-256
// to name its file. Entries older than the configured TTL are ignored on
// read and removed by [Cache.Prune].
//
// The default directory is $XDG_CACHE_HOME/prscan, or the OS user cache
// directory.
package cache
