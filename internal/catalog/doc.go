// Package catalog holds the ordered movie corpus the similarity matrix is
// indexed by.
//
// A Catalog is built once from the precomputed title artifact and never
// mutated afterwards, so it is safe to share between goroutines. Entry
// positions are the matrix row/column indices. Title lookup is exact and,
// when the artifact repeats a title, always resolves to the first
// occurrence.
package catalog
