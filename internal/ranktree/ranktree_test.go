package ranktree

import (
	"math/rand"
	"sort"
	"testing"
)

func intLess(a, b int) bool { return a < b }

func checkSizes(t *testing.T, tr *Tree[int], i int32) int32 {
	if i == nilIdx {
		return 0
	}
	ls := checkSizes(t, tr, tr.nodes[i].left)
	rs := checkSizes(t, tr, tr.nodes[i].right)
	want := ls + rs + 1
	if tr.nodes[i].size != want {
		t.Fatalf("node %d: size = %d, want %d (left=%d right=%d)", i, tr.nodes[i].size, want, ls, rs)
	}
	return want
}

func checkBalanced(t *testing.T, tr *Tree[int], i int32) int8 {
	if i == nilIdx {
		return -1
	}
	lh := checkBalanced(t, tr, tr.nodes[i].left)
	rh := checkBalanced(t, tr, tr.nodes[i].right)
	diff := int(lh) - int(rh)
	if diff > 1 || diff < -1 {
		t.Fatalf("node unbalanced: left height %d right height %d", lh, rh)
	}
	h := lh
	if rh > h {
		h = rh
	}
	return h + 1
}

func TestSelectMatchesDescendingOrder(t *testing.T) {
	tr := New[int](intLess)
	vals := []int{40, 10, 70, 20, 60, 30, 90, 50, 80}
	for _, v := range vals {
		tr.Insert(v)
	}
	sorted := append([]int(nil), vals...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for i := 1; i <= len(sorted); i++ {
		got, ok := tr.Select(i)
		if !ok || got != sorted[i-1] {
			t.Errorf("Select(%d) = %v, %v; want %d", i, got, ok, sorted[i-1])
		}
	}
}

func TestSelectOutOfRange(t *testing.T) {
	tr := New[int](intLess)
	tr.Insert(1)
	if _, ok := tr.Select(0); ok {
		t.Errorf("Select(0) should fail")
	}
	if _, ok := tr.Select(2); ok {
		t.Errorf("Select(2) should fail on single-element tree")
	}
}

func TestMinMax(t *testing.T) {
	tr := New[int](intLess)
	if _, ok := tr.Min(); ok {
		t.Errorf("empty tree should have no min")
	}
	for _, v := range []int{5, 1, 9, 3} {
		tr.Insert(v)
	}
	if mn, _ := tr.Min(); mn != 1 {
		t.Errorf("Min() = %d, want 1", mn)
	}
	if mx, _ := tr.Max(); mx != 9 {
		t.Errorf("Max() = %d, want 9", mx)
	}
}

func TestRandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := New[int](intLess)
	present := map[int]bool{}
	for i := 0; i < 3000; i++ {
		k := rng.Intn(400)
		if rng.Intn(3) == 0 && present[k] {
			tr.Erase(k)
			delete(present, k)
		} else {
			tr.Insert(k)
			present[k] = true
		}
		if tr.root != nilIdx {
			checkSizes(t, tr, tr.root)
			checkBalanced(t, tr, tr.root)
		}
		if tr.Len() != len(present) {
			t.Fatalf("len mismatch: tree %d, want %d", tr.Len(), len(present))
		}
	}

	sorted := make([]int, 0, len(present))
	for k := range present {
		sorted = append(sorted, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for i, want := range sorted {
		got, ok := tr.Select(i + 1)
		if !ok || got != want {
			t.Fatalf("Select(%d) = %v, %v; want %d", i+1, got, ok, want)
		}
	}
}

func TestEraseThenReinsert(t *testing.T) {
	tr := New[int](intLess)
	tr.Insert(1)
	tr.Insert(2)
	tr.Erase(1)
	if tr.Find(1) {
		t.Errorf("expected 1 to be erased")
	}
	tr.Insert(1)
	if !tr.Find(1) {
		t.Errorf("expected 1 to be reinserted")
	}
	if tr.Len() != 2 {
		t.Errorf("expected len 2, got %d", tr.Len())
	}
}
