package rstree

import "math"

// MBR is an axis-aligned minimum bounding region in D-dimensional space.
// Min[i] <= Max[i] holds on every axis once the region covers at least one
// point; an empty region keeps Min at +Inf and Max at -Inf so that expanding
// it by any point or region yields exactly that point or region.
type MBR struct {
	Min []float64
	Max []float64
}

// emptyMBR returns a region covering nothing.
func emptyMBR(dims int) MBR {
	m := MBR{Min: make([]float64, dims), Max: make([]float64, dims)}
	for i := 0; i < dims; i++ {
		m.Min[i] = math.Inf(1)
		m.Max[i] = math.Inf(-1)
	}
	return m
}

// pointMBR returns the degenerate region covering exactly the given point.
func pointMBR(point []float64) MBR {
	return MBR{
		Min: append([]float64(nil), point...),
		Max: append([]float64(nil), point...),
	}
}

func (m MBR) clone() MBR {
	return MBR{
		Min: append([]float64(nil), m.Min...),
		Max: append([]float64(nil), m.Max...),
	}
}

// Area returns the product of per-axis extents. Degenerate regions can yield
// zero or negative products; callers compare areas and must not assume
// positivity.
func (m MBR) Area() float64 {
	area := 1.0
	for i := range m.Min {
		area *= m.Max[i] - m.Min[i]
	}
	return area
}

// Contains reports whether the point lies inside the region, boundaries
// included.
func (m MBR) Contains(point []float64) bool {
	for i := range m.Min {
		if point[i] < m.Min[i] || point[i] > m.Max[i] {
			return false
		}
	}
	return true
}

// Overlaps reports whether the two regions intersect. Regions that touch on
// a boundary overlap. The test is the separating-axis theorem: the regions
// are disjoint iff some axis separates them.
func (m MBR) Overlaps(other MBR) bool {
	for i := range m.Min {
		if m.Max[i] < other.Min[i] || m.Min[i] > other.Max[i] {
			return false
		}
	}
	return true
}

// ExpandPoint grows the region in place to cover the given point.
func (m *MBR) ExpandPoint(point []float64) {
	for i := range m.Min {
		if point[i] < m.Min[i] {
			m.Min[i] = point[i]
		}
		if point[i] > m.Max[i] {
			m.Max[i] = point[i]
		}
	}
}

// Expand grows the region in place to cover other.
func (m *MBR) Expand(other MBR) {
	for i := range m.Min {
		if other.Min[i] < m.Min[i] {
			m.Min[i] = other.Min[i]
		}
		if other.Max[i] > m.Max[i] {
			m.Max[i] = other.Max[i]
		}
	}
}

// overlapVolume returns the volume of the intersection of a and b, or zero
// when any axis separates them.
func overlapVolume(a, b MBR) float64 {
	volume := 1.0
	for i := range a.Min {
		extent := math.Min(a.Max[i], b.Max[i]) - math.Max(a.Min[i], b.Min[i])
		if extent <= 0 {
			return 0
		}
		volume *= extent
	}
	return volume
}

// marginSum returns the sum of per-axis extents over both regions, a
// perimeter-like quantity used as a split tie-breaker.
func marginSum(a, b MBR) float64 {
	sum := 0.0
	for i := range a.Min {
		sum += (a.Max[i] - a.Min[i]) + (b.Max[i] - b.Min[i])
	}
	return sum
}

// pointBoxDistSq returns the squared Euclidean distance from a point to the
// nearest face of the region, or zero when the point lies inside it. Each
// axis is clamped to the region's extent and the residual accumulated.
func pointBoxDistSq(point []float64, m MBR) float64 {
	distSq := 0.0
	for i := range point {
		if d := m.Min[i] - point[i]; d > 0 {
			distSq += d * d
		} else if d := point[i] - m.Max[i]; d > 0 {
			distSq += d * d
		}
	}
	return distSq
}

// pointDistSq returns the squared Euclidean distance between two points.
func pointDistSq(a, b []float64) float64 {
	distSq := 0.0
	for i := range a {
		d := a[i] - b[i]
		distSq += d * d
	}
	return distSq
}
