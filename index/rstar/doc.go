// Package rstar adapts the rstree R*-tree to the index.Index contract,
// providing sublinear kNN lookups over identified points with the same
// serialized format as the brute-force baseline.
package rstar
