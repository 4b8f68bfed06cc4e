// Package recommend ranks catalog entries against a selected title using the
// precomputed similarity matrix.
//
// A Recommender is built once at startup from an immutable catalog and matrix
// and is safe for concurrent use. Ranking is a stable sort of the selected
// row by score descending, so equal scores keep ascending catalog order and
// repeated calls return identical results.
package recommend
