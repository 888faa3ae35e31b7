package index

// Index defines a generic point index with basic lifecycle methods. It
// enables building from (id, coordinate) pairs, kNN queries, and binary
// serialization for persistence.
type Index interface {
	// Build constructs the index from the given ids and points. ids and
	// points must have the same length; points must be non-nil and share a
	// single dimensionality.
	Build(ids []string, points [][]float32) error

	// Query runs a kNN search against the index with the provided query
	// point and returns up to k matches as parallel slices of ids and
	// Euclidean distances, ordered ascending (nearest first).
	Query(point []float32, k int) (ids []string, dists []float64, err error)

	// MarshalBinary serializes the index into a byte slice.
	MarshalBinary() ([]byte, error)

	// UnmarshalBinary reconstructs the index from a serialized byte slice.
	UnmarshalBinary(data []byte) error
}
