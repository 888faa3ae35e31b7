package rstree

import "math"

// node is the closed set of tree node variants: leaves hold stored values,
// internal nodes hold child nodes. Every node exclusively owns its entries;
// a parent is the sole owner of its children.
type node[S any] interface {
	// insert places the key/value pair somewhere in the subtree. A non-nil
	// result means the node overflowed and split: the receiver keeps the
	// lower group and the result carries the new sibling and its bounds,
	// which the caller must adopt.
	insert(key []float64, value S) *splitOutcome[S]

	// search accumulates up to k nearest candidates into h.
	search(key []float64, k int, filter func(S) bool, h *neighborHeap[S])

	bounds() MBR
}

// splitOutcome carries the sibling produced when a node overflows.
type splitOutcome[S any] struct {
	region  MBR
	sibling node[S]
}

// leaf stores point regions and their values in parallel slices whose length
// is the live entry count and whose capacity is the leaf fanout.
type leaf[S any] struct {
	capacity int
	region   MBR
	regions  []MBR
	values   []S
}

func newLeaf[S any](dims, capacity int) *leaf[S] {
	return &leaf[S]{
		capacity: capacity,
		region:   emptyMBR(dims),
		regions:  make([]MBR, 0, capacity),
		values:   make([]S, 0, capacity),
	}
}

func (l *leaf[S]) bounds() MBR { return l.region }

func (l *leaf[S]) insert(key []float64, value S) *splitOutcome[S] {
	if len(l.values) < l.capacity {
		l.regions = append(l.regions, pointMBR(key))
		l.values = append(l.values, value)
		l.region.ExpandPoint(key)
		return nil
	}

	dims := len(key)
	entries := packEntries(l.regions, l.values, pointMBR(key), value)
	choice := chooseSplit(entries, minSplitCount(l.capacity), dims)
	lower, upper, lowerGroup, upperGroup := partitionEntries(entries, choice, dims)

	l.region = lower
	l.regions, l.values = unpackEntries(lowerGroup, l.capacity)

	sibling := &leaf[S]{capacity: l.capacity, region: upper}
	sibling.regions, sibling.values = unpackEntries(upperGroup, l.capacity)
	return &splitOutcome[S]{region: upper.clone(), sibling: sibling}
}

func (l *leaf[S]) search(key []float64, k int, filter func(S) bool, h *neighborHeap[S]) {
	for i := range l.values {
		if filter != nil && !filter(l.values[i]) {
			continue
		}
		// Leaf regions are degenerate point regions; Min is the point.
		h.offer(l.values[i], pointDistSq(key, l.regions[i].Min), k)
	}
}

// internal holds child subtrees and their bounds in parallel slices whose
// length is the live entry count and whose capacity is the internal fanout.
type internal[S any] struct {
	capacity int
	region   MBR
	regions  []MBR
	children []node[S]
}

func (n *internal[S]) bounds() MBR { return n.region }

func (n *internal[S]) insert(key []float64, value S) *splitOutcome[S] {
	chosen := n.chooseSubtree(key)
	out := n.children[chosen].insert(key, value)
	if out == nil {
		n.regions[chosen].ExpandPoint(key)
		n.region.ExpandPoint(key)
		return nil
	}

	// The chosen child kept only the lower group of its split; refresh its
	// stored bounds so they stay tight.
	n.regions[chosen] = n.children[chosen].bounds().clone()

	if len(n.children) < n.capacity {
		n.region.Expand(n.regions[chosen])
		n.region.Expand(out.region)
		n.regions = append(n.regions, out.region)
		n.children = append(n.children, out.sibling)
		return nil
	}

	dims := len(key)
	entries := packEntries(n.regions, n.children, out.region, out.sibling)
	choice := chooseSplit(entries, minSplitCount(n.capacity), dims)
	lower, upper, lowerGroup, upperGroup := partitionEntries(entries, choice, dims)

	n.region = lower
	n.regions, n.children = unpackEntries(lowerGroup, n.capacity)

	sibling := &internal[S]{capacity: n.capacity, region: upper}
	sibling.regions, sibling.children = unpackEntries(upperGroup, n.capacity)
	return &splitOutcome[S]{region: upper.clone(), sibling: sibling}
}

// chooseSubtree picks the child whose region needs the least area
// enlargement to cover the key, breaking ties by the smaller original area.
// Greedy least-enlargement is O(fanout) per level.
func (n *internal[S]) chooseSubtree(key []float64) int {
	bestIndex := 0
	bestEnlargement := math.Inf(1)
	bestArea := math.Inf(1)
	for i := range n.regions {
		original := n.regions[i].Area()
		grown := n.regions[i].clone()
		grown.ExpandPoint(key)
		enlargement := grown.Area() - original
		if enlargement < bestEnlargement ||
			(enlargement == bestEnlargement && original < bestArea) {
			bestIndex = i
			bestEnlargement = enlargement
			bestArea = original
		}
	}
	return bestIndex
}
