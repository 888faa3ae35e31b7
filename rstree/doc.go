// Package rstree implements a generic, in-memory R*-tree that maps
// D-dimensional point keys to arbitrary stored values and answers
// k-nearest-neighbor queries with a branch-and-bound traversal.
//
// The tree is tuned for nearest-tabulated-point lookups: collaborators insert
// (coordinate, payload) pairs once and then query for the closest entries to
// an arbitrary coordinate, optionally filtered by a predicate. Removal,
// bulk-loading, and persistence are out of scope.
package rstree
