package table

import "context"

// Row is one tabulated data point: a D-dimensional coordinate and the
// payload recorded at it. Payload is modeled as a raw string (typically JSON
// or a serialized property record) to stay agnostic of the dataset schema.
type Row struct {
	ID      string
	Coords  []float64
	Payload string
}

// Match is a single nearest-lookup hit.
type Match struct {
	Row      Row
	Distance float64
}

// Store defines the tabulated-point store API: durable rows plus
// nearest-coordinate lookup.
type Store interface {
	// AddRows inserts rows into the store. Row.ID must be non-empty and
	// coordinates must match the store's dimensionality.
	AddRows(ctx context.Context, rows []Row) error

	// Nearest returns up to k rows closest to coords by Euclidean distance,
	// nearest first.
	Nearest(ctx context.Context, coords []float64, k int) ([]Match, error)

	// NearestWhere behaves like Nearest but skips rows rejected by accept
	// without consuming the k budget. A nil accept keeps every row.
	NearestWhere(ctx context.Context, coords []float64, k int, accept func(Row) bool) ([]Match, error)

	// Remove deletes the row with the given ID from the database and
	// invalidates the in-memory index.
	Remove(ctx context.Context, id string) error
}
