package rstar

import (
	"fmt"
	"math"

	"github.com/logngine/rstree/index/bruteforce"
	"github.com/logngine/rstree/rstree"
)

// fanout is the node capacity of the backing tree. Sixteen keeps nodes
// cache-friendly while holding tree depth down for table-sized datasets.
const fanout = 16

// Index answers kNN queries through an R*-tree built over the stored
// points. It serializes with the brute-force encoding so either
// implementation can load the other's payload.
type Index struct {
	ids  []string
	pts  [][]float32
	dim  int
	tree *rstree.Tree[int]
}

// Build constructs the R*-tree from the given ids and points.
func (i *Index) Build(ids []string, points [][]float32) error {
	if len(ids) != len(points) {
		return fmt.Errorf("rstar: ids and points length mismatch: %d != %d", len(ids), len(points))
	}
	if len(ids) == 0 {
		i.ids, i.pts, i.dim, i.tree = nil, nil, 0, nil
		return nil
	}
	dim := len(points[0])
	tree, err := rstree.NewDefault[int](dim, fanout)
	if err != nil {
		return fmt.Errorf("rstar: %w", err)
	}
	for j := range points {
		if len(points[j]) != dim {
			return fmt.Errorf("rstar: inconsistent point dims %d vs %d", len(points[j]), dim)
		}
		tree.Insert(toFloat64(points[j]), j)
	}
	i.ids = append([]string(nil), ids...)
	i.pts = append([][]float32(nil), points...)
	i.dim = dim
	i.tree = tree
	return nil
}

// Query returns up to k ids ordered by increasing Euclidean distance to the
// query point.
func (i *Index) Query(point []float32, k int) ([]string, []float64, error) {
	if i.dim == 0 || i.tree == nil {
		return nil, nil, nil
	}
	if len(point) != i.dim {
		return nil, nil, fmt.Errorf("rstar: query dim %d != index dim %d", len(point), i.dim)
	}
	if k <= 0 {
		k = len(i.pts)
	}
	key := toFloat64(point)
	matches := i.tree.Query(key, k)
	ids := make([]string, len(matches))
	dists := make([]float64, len(matches))
	for n, m := range matches {
		ids[n] = i.ids[m]
		dists[n] = euclidean(key, i.pts[m])
	}
	return ids, dists, nil
}

// MarshalBinary uses the brute-force encoding for persistence.
func (i *Index) MarshalBinary() ([]byte, error) {
	return bruteforce.Encode(i.ids, i.pts)
}

// UnmarshalBinary loads the brute-force encoding and rebuilds the tree.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, pts, err := bruteforce.Decode(data)
	if err != nil {
		return fmt.Errorf("rstar: %w", err)
	}
	return i.Build(ids, pts)
}

func toFloat64(point []float32) []float64 {
	out := make([]float64, len(point))
	for i, v := range point {
		out[i] = float64(v)
	}
	return out
}

// euclidean accumulates in float64 so result order stays consistent with the
// tree's own distance comparisons.
func euclidean(key []float64, point []float32) float64 {
	var sum float64
	for i := range key {
		d := key[i] - float64(point[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
