// Command moviebuddy recommends similar movies from a precomputed similarity
// matrix and decorates the results with OMDb metadata.
//
// Subcommands cover the HTTP API (serve), one-off lookups (recommend, info,
// titles), artifact import into SQLite (import) and configuration helpers.
package main
