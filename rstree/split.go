package rstree

import (
	"fmt"
	"math"
	"sort"
)

// minSplitFraction bounds how unbalanced a split may be: each side of a
// split keeps at least max(1, floor(minSplitFraction*capacity)) entries.
const minSplitFraction = 0.25

func minSplitCount(capacity int) int {
	if n := int(minSplitFraction * float64(capacity)); n > 1 {
		return n
	}
	return 1
}

// splitEntry pairs a region with the payload it bounds. The split engine is
// shared by both node variants: the payload is a stored value when splitting
// a leaf and a child node when splitting an internal node.
type splitEntry[P any] struct {
	region  MBR
	payload P
}

// splitChoice records the winning axis and split position together with the
// cost terms that selected it.
type splitChoice struct {
	axis    int
	index   int
	overlap float64
	margin  float64
	area    float64
}

// packEntries gathers a node's live entries plus the incoming one into a
// single slice for the split engine. Parallel storage of unequal length
// means a live slot lost its region or payload, which is a defect in the
// tree itself, never caller input.
func packEntries[P any](regions []MBR, payloads []P, extraRegion MBR, extraPayload P) []splitEntry[P] {
	if len(regions) != len(payloads) {
		panic(fmt.Sprintf("rstree: corrupt node: %d regions for %d payloads", len(regions), len(payloads)))
	}
	entries := make([]splitEntry[P], 0, len(regions)+1)
	for i := range regions {
		entries = append(entries, splitEntry[P]{region: regions[i], payload: payloads[i]})
	}
	return append(entries, splitEntry[P]{region: extraRegion, payload: extraPayload})
}

func sortByAxisMin[P any](entries []splitEntry[P], axis int) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].region.Min[axis] < entries[j].region.Min[axis]
	})
}

// chooseSplit evaluates every axis and admissible split position over the
// packed entries and returns the best candidate by lexicographic
// minimization of (overlap volume, margin sum, area sum). Minimizing overlap
// first keeps query fan-out low; margin and area prefer squarer, more
// compact groups.
func chooseSplit[P any](entries []splitEntry[P], minCount, dims int) splitChoice {
	inf := math.Inf(1)
	best := splitChoice{overlap: inf, margin: inf, area: inf}
	for axis := 0; axis < dims; axis++ {
		sortByAxisMin(entries, axis)
		for k := minCount; k <= len(entries)-minCount; k++ {
			lower := emptyMBR(dims)
			upper := emptyMBR(dims)
			for j := 0; j < k; j++ {
				lower.Expand(entries[j].region)
			}
			for j := k; j < len(entries); j++ {
				upper.Expand(entries[j].region)
			}

			overlap := overlapVolume(lower, upper)
			if overlap > best.overlap {
				continue
			}
			margin := marginSum(lower, upper)
			area := lower.Area() + upper.Area()
			if overlap < best.overlap {
				best = splitChoice{axis: axis, index: k, overlap: overlap, margin: margin, area: area}
				continue
			}
			if margin > best.margin {
				continue
			}
			if margin < best.margin || area < best.area {
				best = splitChoice{axis: axis, index: k, overlap: overlap, margin: margin, area: area}
			}
		}
	}
	if math.IsInf(best.overlap, 1) {
		panic("rstree: no admissible split position")
	}
	return best
}

// partitionEntries re-sorts entries along the winning axis and divides them
// at the winning index, returning each group together with its tight bounds.
// The returned slices alias entries; callers copy them into fresh node
// storage.
func partitionEntries[P any](entries []splitEntry[P], choice splitChoice, dims int) (lower, upper MBR, lowerGroup, upperGroup []splitEntry[P]) {
	sortByAxisMin(entries, choice.axis)
	lower = emptyMBR(dims)
	upper = emptyMBR(dims)
	for j := 0; j < choice.index; j++ {
		lower.Expand(entries[j].region)
	}
	for j := choice.index; j < len(entries); j++ {
		upper.Expand(entries[j].region)
	}
	return lower, upper, entries[:choice.index], entries[choice.index:]
}

// unpackEntries copies a partitioned group into fresh parallel storage with
// the node's capacity.
func unpackEntries[P any](group []splitEntry[P], capacity int) ([]MBR, []P) {
	regions := make([]MBR, 0, capacity)
	payloads := make([]P, 0, capacity)
	for _, e := range group {
		regions = append(regions, e.region)
		payloads = append(payloads, e.payload)
	}
	return regions, payloads
}
