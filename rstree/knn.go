package rstree

import "container/heap"

// neighbor is a k-NN candidate with its squared distance to the query key.
type neighbor[S any] struct {
	value  S
	distSq float64
}

// neighborHeap is a bounded max-heap over squared distance: the worst
// retained candidate sits at the top and is the first to be evicted.
type neighborHeap[S any] []neighbor[S]

func (h neighborHeap[S]) Len() int           { return len(h) }
func (h neighborHeap[S]) Less(i, j int) bool { return h[i].distSq > h[j].distSq }
func (h neighborHeap[S]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *neighborHeap[S]) Push(x any) {
	*h = append(*h, x.(neighbor[S]))
}

func (h *neighborHeap[S]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// offer records a candidate, evicting the current worst once k candidates
// are held. Only a strictly closer candidate displaces one already retained,
// so among candidates tied at the cutoff distance the ones reached earlier
// in traversal order win.
func (h *neighborHeap[S]) offer(value S, distSq float64, k int) {
	if h.Len() < k {
		heap.Push(h, neighbor[S]{value: value, distSq: distSq})
	} else if distSq < (*h)[0].distSq {
		heap.Pop(h)
		heap.Push(h, neighbor[S]{value: value, distSq: distSq})
	}
}

// subtreeItem orders child subtrees by the minimum possible squared distance
// from the query key to their bounding region. The entry position breaks
// distance ties to keep traversal order deterministic.
type subtreeItem[S any] struct {
	child  node[S]
	distSq float64
	pos    int
}

type subtreeQueue[S any] []subtreeItem[S]

func (q subtreeQueue[S]) Len() int { return len(q) }
func (q subtreeQueue[S]) Less(i, j int) bool {
	if q[i].distSq != q[j].distSq {
		return q[i].distSq < q[j].distSq
	}
	return q[i].pos < q[j].pos
}
func (q subtreeQueue[S]) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *subtreeQueue[S]) Push(x any) {
	*q = append(*q, x.(subtreeItem[S]))
}

func (q *subtreeQueue[S]) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

func (n *internal[S]) search(key []float64, k int, filter func(S) bool, h *neighborHeap[S]) {
	q := make(subtreeQueue[S], 0, len(n.children))
	for i := range n.children {
		q = append(q, subtreeItem[S]{
			child:  n.children[i],
			distSq: pointBoxDistSq(key, n.regions[i]),
			pos:    i,
		})
	}
	heap.Init(&q)
	for q.Len() > 0 {
		item := heap.Pop(&q).(subtreeItem[S])
		// Once k candidates are held, a subtree whose nearest point is
		// farther than the current worst cannot contribute.
		if h.Len() == k && item.distSq > (*h)[0].distSq {
			break
		}
		item.child.search(key, k, filter, h)
	}
}
