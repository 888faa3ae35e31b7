package bruteforce

import "testing"

func TestBuildValidation(t *testing.T) {
	var idx Index
	if err := idx.Build([]string{"a"}, nil); err == nil {
		t.Fatalf("Build accepted mismatched lengths")
	}
	if err := idx.Build([]string{"a", "b"}, [][]float32{{1, 2}, {1}}); err == nil {
		t.Fatalf("Build accepted inconsistent dims")
	}
	if err := idx.Build(nil, nil); err != nil {
		t.Fatalf("Build of empty index failed: %v", err)
	}
}

func TestQueryOrdersByDistance(t *testing.T) {
	var idx Index
	ids := []string{"a", "b", "c"}
	pts := [][]float32{{0, 0}, {10, 10}, {1, 1}}
	if err := idx.Build(ids, pts); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	gotIDs, gotDists, err := idx.Query([]float32{0, 0}, 2)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(gotIDs) != 2 || gotIDs[0] != "a" || gotIDs[1] != "c" {
		t.Fatalf("Query ids = %v, want [a c]", gotIDs)
	}
	if gotDists[0] != 0 || gotDists[1] <= gotDists[0] {
		t.Fatalf("Query dists = %v, want ascending starting at 0", gotDists)
	}
}

func TestQueryDimMismatch(t *testing.T) {
	var idx Index
	if err := idx.Build([]string{"a"}, [][]float32{{1, 2}}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, _, err := idx.Query([]float32{1}, 1); err == nil {
		t.Fatalf("Query accepted wrong-dimension point")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ids := []string{"alpha", "", "gamma"}
	pts := [][]float32{{1, 2, 3}, {-4, 5, 6}, {0, 0, 0}}

	data, err := Encode(ids, pts)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	gotIDs, gotPts, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(gotIDs) != len(ids) {
		t.Fatalf("Decode returned %d items, want %d", len(gotIDs), len(ids))
	}
	for i := range ids {
		if gotIDs[i] != ids[i] {
			t.Fatalf("id %d = %q, want %q", i, gotIDs[i], ids[i])
		}
		for j := range pts[i] {
			if gotPts[i][j] != pts[i][j] {
				t.Fatalf("point %d coord %d = %v, want %v", i, j, gotPts[i][j], pts[i][j])
			}
		}
	}
}

func TestDecodeRejectsTruncatedData(t *testing.T) {
	data, err := Encode([]string{"a"}, [][]float32{{1, 2}})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, _, err := Decode(data[:len(data)-3]); err == nil {
		t.Fatalf("Decode accepted truncated data")
	}
	if _, _, err := Decode([]byte{1, 2}); err == nil {
		t.Fatalf("Decode accepted short header")
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	var idx Index
	ids := []string{"x", "y"}
	pts := [][]float32{{3, 4}, {0, 0}}
	if err := idx.Build(ids, pts); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	data, err := idx.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	var restored Index
	if err := restored.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	gotIDs, gotDists, err := restored.Query([]float32{0, 0}, 1)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(gotIDs) != 1 || gotIDs[0] != "y" || gotDists[0] != 0 {
		t.Fatalf("restored Query = %v %v, want [y] [0]", gotIDs, gotDists)
	}
}
