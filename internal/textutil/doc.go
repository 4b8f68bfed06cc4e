// Package textutil provides the token fingerprints used to suggest catalog
// titles that resemble a query the catalog does not contain.
//
// Tokenization case-folds text with golang.org/x/text/cases, splits on
// anything that is not a letter or digit, and drops single-character tokens.
// Fingerprints are term-frequency vectors optionally reweighted with inverse
// document frequencies gathered over the whole title corpus, so words such as
// "the" or "of" contribute little to the score.
package textutil
