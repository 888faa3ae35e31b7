package table

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeCoords encodes coordinates into a BLOB representation suitable for
// storage in SQLite. The encoding is a little-endian sequence of IEEE 754
// float64 values without a length prefix; the dimensionality is derived from
// the BLOB size on decode.
func EncodeCoords(coords []float64) ([]byte, error) {
	if len(coords) == 0 {
		return nil, nil
	}
	b := make([]byte, len(coords)*8)
	for i, v := range coords {
		binary.LittleEndian.PutUint64(b[i*8:], math.Float64bits(v))
	}
	return b, nil
}

// DecodeCoords decodes a BLOB produced by EncodeCoords back into a slice of
// float64 coordinates.
func DecodeCoords(b []byte) ([]float64, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("table: invalid coordinate blob length %d (not multiple of 8)", len(b))
	}
	n := len(b) / 8
	coords := make([]float64, n)
	for i := 0; i < n; i++ {
		coords[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return coords, nil
}
