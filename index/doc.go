// Package index defines a minimal abstraction for point indexes that can be
// built from coordinates, queried for kNN by Euclidean distance, and
// serialized for persistence. Implementations in this module include a
// brute-force baseline and an R*-tree.
package index
