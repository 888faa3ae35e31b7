package rstree

import (
	"container/heap"
	"fmt"
)

// Tree is an in-memory R*-tree over D-dimensional point keys. The zero
// value is unusable; construct trees with New or NewDefault.
//
// The tree is not safe for concurrent mutation: at most one Insert may be in
// flight at a time, and queries must not overlap an in-flight Insert, which
// mutates node regions and entry storage mid-traversal. Concurrent read-only
// queries are safe. Callers needing mixed concurrent access must provide
// external synchronization, e.g. a sync.RWMutex around the whole tree.
type Tree[S any] struct {
	dims       int
	fanout     int
	leafFanout int
	root       node[S]
	count      int
}

// New constructs an empty tree indexing dims-dimensional keys with the given
// internal and leaf fanouts. The parameters are fixed for the lifetime of
// the tree.
func New[S any](dims, fanout, leafFanout int) (*Tree[S], error) {
	if dims < 1 {
		return nil, fmt.Errorf("rstree: dims must be at least 1, got %d", dims)
	}
	if fanout < 2 {
		return nil, fmt.Errorf("rstree: internal fanout must be at least 2, got %d", fanout)
	}
	if leafFanout < 1 {
		return nil, fmt.Errorf("rstree: leaf fanout must be at least 1, got %d", leafFanout)
	}
	return &Tree[S]{dims: dims, fanout: fanout, leafFanout: leafFanout}, nil
}

// NewDefault constructs a tree whose leaf fanout equals the internal fanout.
func NewDefault[S any](dims, fanout int) (*Tree[S], error) {
	return New[S](dims, fanout, fanout)
}

// Insert adds value under the given key. Insert always succeeds; duplicate
// keys coexist as separate entries. A key of the wrong dimensionality is a
// caller defect and panics.
func (t *Tree[S]) Insert(key []float64, value S) {
	t.checkKey(key)
	t.count++

	if t.root == nil {
		root := newLeaf[S](t.dims, t.leafFanout)
		root.insert(key, value)
		t.root = root
		return
	}

	out := t.root.insert(key, value)
	if out == nil {
		return
	}

	// Root split: grow the tree by one level with exactly two children, the
	// old root's lower group and the new sibling.
	lower := t.root.bounds().clone()
	region := lower.clone()
	region.Expand(out.region)
	grown := &internal[S]{
		capacity: t.fanout,
		region:   region,
		regions:  make([]MBR, 0, t.fanout),
		children: make([]node[S], 0, t.fanout),
	}
	grown.regions = append(grown.regions, lower, out.region)
	grown.children = append(grown.children, t.root, out.sibling)
	t.root = grown
}

// Query returns up to max stored values nearest to key by Euclidean
// distance, closest first. An empty tree or max <= 0 yields an empty result.
// Among entries at equal distance the order is not part of the contract; the
// current implementation retains entries reached earlier in traversal order.
func (t *Tree[S]) Query(key []float64, max int) []S {
	return t.QueryWithFilter(key, max, nil)
}

// QueryWithFilter behaves like Query but skips values rejected by filter
// without consuming the max budget. A nil filter accepts everything.
func (t *Tree[S]) QueryWithFilter(key []float64, max int, filter func(S) bool) []S {
	t.checkKey(key)
	if t.root == nil || max <= 0 {
		return nil
	}
	h := make(neighborHeap[S], 0, max)
	t.root.search(key, max, filter, &h)
	if h.Len() == 0 {
		return nil
	}
	out := make([]S, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(neighbor[S]).value
	}
	return out
}

// Len returns the number of stored entries.
func (t *Tree[S]) Len() int { return t.count }

// Dims returns the dimensionality of the tree's keys.
func (t *Tree[S]) Dims() int { return t.dims }

func (t *Tree[S]) checkKey(key []float64) {
	if len(key) != t.dims {
		panic(fmt.Sprintf("rstree: key has %d coordinates, tree indexes %d dimensions", len(key), t.dims))
	}
}
