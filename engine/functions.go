package engine

import (
	"database/sql"
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"

	sqlite "modernc.org/sqlite"
)

// RegisterDistanceFunctions registers coord_l2 and coord_l2sq with the
// driver so they are available on new connections opened after this call.
// Both take two coordinate BLOBs (little-endian float64 sequences, see the
// table package) and return the Euclidean distance or its square.
// Note: existing open connections will not see new functions.
func RegisterDistanceFunctions(_ *sql.DB) error {
	// Idempotent registration; the driver rejects duplicates but we ignore errors silently here.
	_ = sqlite.RegisterDeterministicScalarFunction("coord_l2", 2, coordL2Impl)
	_ = sqlite.RegisterDeterministicScalarFunction("coord_l2sq", 2, coordL2SqImpl)
	return nil
}

func asCoords(arg driver.Value) ([]float64, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return decodeCoords(v)
	default:
		return nil, fmt.Errorf("engine: unsupported argument type %T for coordinates; want BLOB", arg)
	}
}

func coordL2Impl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	d, err := coordL2SqImpl(nil, args)
	if err != nil || d == nil {
		return nil, err
	}
	return math.Sqrt(d.(float64)), nil
}

func coordL2SqImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("coord_l2sq: expected 2 arguments, got %d", len(args))
	}
	a, err := asCoords(args[0])
	if err != nil {
		return nil, err
	}
	b, err := asCoords(args[1])
	if err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, nil
	}
	if len(a) != len(b) {
		return nil, fmt.Errorf("engine: coordinate dim mismatch %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum, nil
}

// Local minimal decoder to avoid import cycles in tests; the canonical codec
// lives in the table package.
func decodeCoords(b []byte) ([]float64, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("engine: invalid coordinate blob length %d", len(b))
	}
	n := len(b) / 8
	coords := make([]float64, n)
	for i := 0; i < n; i++ {
		coords[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return coords, nil
}
