// Package similarity holds the precomputed pairwise score matrix that backs
// recommendations. Matrix rows and columns are indexed by catalog position.
package similarity
