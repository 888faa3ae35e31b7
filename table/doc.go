// Package table stores tabulated data points durably in SQLite and answers
// nearest-point lookups through an in-memory R*-tree. It is the bridge
// between tabular datasets (e.g. thermodynamic property tables keyed by a
// (temperature, pressure) coordinate) and the rstree index: rows are
// persisted once, and queries return the rows closest to an arbitrary
// coordinate, optionally restricted by a payload predicate.
package table
