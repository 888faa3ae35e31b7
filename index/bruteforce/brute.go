package bruteforce

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/viant/vec/search"
)

// Index is a simple brute-force point index ranking entries by Euclidean
// distance with a full scan per query.
type Index struct {
	ids []string
	pts [][]float32
	dim int
}

// Build loads ids and points after validating their shape.
func (i *Index) Build(ids []string, points [][]float32) error {
	if len(ids) != len(points) {
		return fmt.Errorf("bruteforce: ids and points length mismatch: %d != %d", len(ids), len(points))
	}
	if len(ids) == 0 {
		i.ids, i.pts, i.dim = nil, nil, 0
		return nil
	}
	dim := len(points[0])
	for j := range points {
		if len(points[j]) != dim {
			return fmt.Errorf("bruteforce: inconsistent point dims %d vs %d", len(points[j]), dim)
		}
	}
	i.ids = append([]string(nil), ids...)
	i.pts = append([][]float32(nil), points...)
	i.dim = dim
	return nil
}

// Query returns up to k ids by increasing Euclidean distance to the query
// point.
func (i *Index) Query(point []float32, k int) ([]string, []float64, error) {
	if i.dim == 0 || len(i.pts) == 0 {
		return nil, nil, nil
	}
	if len(point) != i.dim {
		return nil, nil, fmt.Errorf("bruteforce: query dim %d != index dim %d", len(point), i.dim)
	}
	type scored struct {
		idx  int
		dist float64
	}
	q := search.Float32s(point)
	scoreds := make([]scored, 0, len(i.pts))
	for j := range i.pts {
		d := float64(q.EuclideanDistance(i.pts[j]))
		if math.IsNaN(d) {
			continue
		}
		scoreds = append(scoreds, scored{idx: j, dist: d})
	}
	sort.Slice(scoreds, func(a, b int) bool { return scoreds[a].dist < scoreds[b].dist })
	if k <= 0 || k > len(scoreds) {
		k = len(scoreds)
	}
	outIDs := make([]string, k)
	outDists := make([]float64, k)
	for n := 0; n < k; n++ {
		outIDs[n] = i.ids[scoreds[n].idx]
		outDists[n] = scoreds[n].dist
	}
	return outIDs, outDists, nil
}

// MarshalBinary serializes the index with Encode.
func (i *Index) MarshalBinary() ([]byte, error) {
	return Encode(i.ids, i.pts)
}

// UnmarshalBinary restores the index from bytes produced by Encode.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, pts, err := Decode(data)
	if err != nil {
		return err
	}
	return i.Build(ids, pts)
}

// Encode serializes ids and points as dim(uint32), n(uint32), then for each
// item: idLen(uint32), id bytes, point (float32[dim]), all little-endian.
// The format is shared by every index implementation in this module so that
// any of them can load another's payload.
func Encode(ids []string, points [][]float32) ([]byte, error) {
	if len(ids) != len(points) {
		return nil, fmt.Errorf("bruteforce: ids and points length mismatch: %d != %d", len(ids), len(points))
	}
	if len(ids) == 0 {
		out := make([]byte, 0, 8)
		out = binary.LittleEndian.AppendUint32(out, 0)
		return binary.LittleEndian.AppendUint32(out, 0), nil
	}
	dim := len(points[0])
	size := 8
	for _, id := range ids {
		size += 4 + len(id) + 4*dim
	}
	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, uint32(dim))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(ids)))
	for idx, id := range ids {
		if len(points[idx]) != dim {
			return nil, fmt.Errorf("bruteforce: inconsistent point dims %d vs %d", len(points[idx]), dim)
		}
		out = binary.LittleEndian.AppendUint32(out, uint32(len(id)))
		out = append(out, id...)
		for _, v := range points[idx] {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
	}
	return out, nil
}

// Decode reverses Encode.
func Decode(data []byte) ([]string, [][]float32, error) {
	if len(data) < 8 {
		return nil, nil, errors.New("bruteforce: invalid data")
	}
	off := 0
	getU32 := func() uint32 {
		v := binary.LittleEndian.Uint32(data[off : off+4])
		off += 4
		return v
	}
	dim := int(getU32())
	n := int(getU32())
	ids := make([]string, n)
	pts := make([][]float32, n)
	for idx := 0; idx < n; idx++ {
		if off+4 > len(data) {
			return nil, nil, errors.New("bruteforce: truncated")
		}
		idLen := int(getU32())
		if off+idLen > len(data) {
			return nil, nil, errors.New("bruteforce: truncated id")
		}
		ids[idx] = string(data[off : off+idLen])
		off += idLen
		pt := make([]float32, dim)
		for j := 0; j < dim; j++ {
			if off+4 > len(data) {
				return nil, nil, errors.New("bruteforce: truncated point")
			}
			pt[j] = math.Float32frombits(getU32())
		}
		pts[idx] = pt
	}
	return ids, pts, nil
}
