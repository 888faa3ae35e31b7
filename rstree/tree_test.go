package rstree

import (
	"math/rand"
	"testing"
)

// checkSubtree verifies the structural invariants of the subtree rooted at
// n: parallel storage is consistent, no node exceeds its capacity, and every
// region is the tight union of its live entries, recursively.
func checkSubtree[S any](t *testing.T, n node[S], dims int) {
	t.Helper()
	switch v := n.(type) {
	case *leaf[S]:
		if len(v.values) != len(v.regions) {
			t.Fatalf("leaf holds %d values for %d regions", len(v.values), len(v.regions))
		}
		if len(v.values) > v.capacity {
			t.Fatalf("leaf size %d exceeds capacity %d", len(v.values), v.capacity)
		}
		tight := emptyMBR(dims)
		for _, r := range v.regions {
			tight.Expand(r)
		}
		assertEqualMBR(t, v.region, tight)
	case *internal[S]:
		if len(v.children) != len(v.regions) {
			t.Fatalf("internal node holds %d children for %d regions", len(v.children), len(v.regions))
		}
		if len(v.children) > v.capacity {
			t.Fatalf("internal node size %d exceeds capacity %d", len(v.children), v.capacity)
		}
		if len(v.children) == 0 {
			t.Fatalf("internal node with no children")
		}
		tight := emptyMBR(dims)
		for i := range v.children {
			assertEqualMBR(t, v.regions[i], v.children[i].bounds())
			tight.Expand(v.regions[i])
			checkSubtree(t, v.children[i], dims)
		}
		assertEqualMBR(t, v.region, tight)
	default:
		t.Fatalf("unexpected node variant %T", n)
	}
}

func assertEqualMBR(t *testing.T, got, want MBR) {
	t.Helper()
	for i := range want.Min {
		if got.Min[i] != want.Min[i] || got.Max[i] != want.Max[i] {
			t.Fatalf("region axis %d: got [%v, %v], want [%v, %v]",
				i, got.Min[i], got.Max[i], want.Min[i], want.Max[i])
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New[string](0, 4, 4); err == nil {
		t.Fatalf("New accepted zero dimensions")
	}
	if _, err := New[string](2, 1, 4); err == nil {
		t.Fatalf("New accepted internal fanout below 2")
	}
	if _, err := New[string](2, 4, 0); err == nil {
		t.Fatalf("New accepted leaf fanout below 1")
	}
}

func TestQueryNearest(t *testing.T) {
	tr, err := New[string](2, 4, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	tr.Insert([]float64{0, 0}, "a")
	tr.Insert([]float64{10, 10}, "b")
	tr.Insert([]float64{1, 1}, "c")

	got := tr.Query([]float64{0, 0}, 2)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("Query = %v, want [a c]", got)
	}
}

func TestQueryWithFilterSkipsWithoutConsumingBudget(t *testing.T) {
	tr, err := New[string](2, 4, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	tr.Insert([]float64{0, 0}, "a")
	tr.Insert([]float64{10, 10}, "b")
	tr.Insert([]float64{1, 1}, "c")

	got := tr.QueryWithFilter([]float64{0, 0}, 2, func(v string) bool { return v != "c" })
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("QueryWithFilter = %v, want [a b]", got)
	}
}

func TestQueryEmptyTree(t *testing.T) {
	tr, err := NewDefault[int](3, 4)
	if err != nil {
		t.Fatalf("NewDefault failed: %v", err)
	}
	if got := tr.Query([]float64{1, 2, 3}, 5); len(got) != 0 {
		t.Fatalf("empty tree Query = %v, want empty", got)
	}
}

func TestQueryZeroMax(t *testing.T) {
	tr, err := NewDefault[int](2, 4)
	if err != nil {
		t.Fatalf("NewDefault failed: %v", err)
	}
	tr.Insert([]float64{1, 1}, 1)
	if got := tr.Query([]float64{1, 1}, 0); len(got) != 0 {
		t.Fatalf("Query with max 0 = %v, want empty", got)
	}
}

func TestQueryMaxExceedsEntries(t *testing.T) {
	tr, err := NewDefault[int](2, 3)
	if err != nil {
		t.Fatalf("NewDefault failed: %v", err)
	}
	tr.Insert([]float64{0, 0}, 1)
	tr.Insert([]float64{1, 0}, 2)
	tr.Insert([]float64{2, 0}, 3)

	got := tr.Query([]float64{0, 0}, 10)
	if len(got) != 3 {
		t.Fatalf("Query returned %d values, want all 3", len(got))
	}
	for i, want := range []int{1, 2, 3} {
		if got[i] != want {
			t.Fatalf("Query = %v, want [1 2 3]", got)
		}
	}
}

func TestQueryFilterExcludesEverything(t *testing.T) {
	tr, err := NewDefault[int](2, 4)
	if err != nil {
		t.Fatalf("NewDefault failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		tr.Insert([]float64{float64(i), 0}, i)
	}
	got := tr.QueryWithFilter([]float64{0, 0}, 3, func(int) bool { return false })
	if len(got) != 0 {
		t.Fatalf("all-rejecting filter returned %v, want empty", got)
	}
}

func TestDuplicateKeysCoexist(t *testing.T) {
	tr, err := NewDefault[string](2, 3)
	if err != nil {
		t.Fatalf("NewDefault failed: %v", err)
	}
	tr.Insert([]float64{1, 1}, "first")
	tr.Insert([]float64{1, 1}, "second")

	if tr.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tr.Len())
	}
	got := tr.Query([]float64{1, 1}, 2)
	if len(got) != 2 {
		t.Fatalf("Query returned %d values, want both duplicates", len(got))
	}
	seen := map[string]bool{got[0]: true, got[1]: true}
	if !seen["first"] || !seen["second"] {
		t.Fatalf("Query = %v, want both first and second", got)
	}
}

func TestInsertMaintainsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr, err := New[int](3, 4, 3)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i := 0; i < 500; i++ {
		key := []float64{rng.Float64() * 100, rng.Float64() * 100, rng.Float64() * 100}
		tr.Insert(key, i)
		if (i+1)%50 == 0 {
			checkSubtree(t, tr.root, 3)
		}
	}
	checkSubtree(t, tr.root, 3)
	if tr.Len() != 500 {
		t.Fatalf("Len = %d, want 500", tr.Len())
	}
}

func TestInsertWrongDimensionPanics(t *testing.T) {
	tr, err := NewDefault[int](2, 4)
	if err != nil {
		t.Fatalf("NewDefault failed: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("Insert with wrong-dimension key did not panic")
		}
	}()
	tr.Insert([]float64{1, 2, 3}, 1)
}

func TestSmallLeafFanout(t *testing.T) {
	// Leaf fanout 1 forces a split on every second insert into a leaf.
	tr, err := New[int](2, 2, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i := 0; i < 32; i++ {
		tr.Insert([]float64{float64(i), float64(i % 5)}, i)
	}
	checkSubtree(t, tr.root, 2)
	got := tr.Query([]float64{0, 0}, 1)
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("Query = %v, want [0]", got)
	}
}
