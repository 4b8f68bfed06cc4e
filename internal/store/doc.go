// Package store persists imported artifacts in SQLite so the server can start
// without re-parsing the source JSON or CSV files.
//
// The database holds one snapshot. Import replaces it atomically; Load
// rebuilds the catalog and matrix from it and re-validates both.
package store
