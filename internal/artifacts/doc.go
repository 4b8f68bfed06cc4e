// Package artifacts decodes the precomputed title table and similarity matrix
// from disk.
//
// Titles come either as JSON (a list of records, or the column-to-row-map
// layout produced by DataFrame.to_dict / to_json) or as CSV with a header row.
// Both need a title column; movie_id is optional. The similarity matrix is a
// JSON array of numeric rows indexed like the title table.
package artifacts
