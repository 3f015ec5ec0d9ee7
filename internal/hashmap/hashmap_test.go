package hashmap

import (
	"errors"
	"math/rand"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/watchboom/boom/internal/mocks"
)

func TestInsertGetErase(t *testing.T) {
	h := New[string](DefaultParams(), nil)
	h.Insert(1, "one")
	h.Insert(2, "two")

	v, err := h.Get(1)
	if err != nil || v != "one" {
		t.Fatalf("Get(1) = %q, %v", v, err)
	}
	if !h.Find(2) {
		t.Errorf("expected to find key 2")
	}
	h.Erase(1)
	if h.Find(1) {
		t.Errorf("expected key 1 to be erased")
	}
	if _, err := h.Get(1); err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestInsertOverwriteDoesNotGrowCount(t *testing.T) {
	h := New[int](DefaultParams(), nil)
	h.Insert(5, 1)
	h.Insert(5, 2)
	if h.Len() != 1 {
		t.Errorf("expected len 1, got %d", h.Len())
	}
	v, _ := h.Get(5)
	if v != 2 {
		t.Errorf("expected overwritten value 2, got %d", v)
	}
}

func TestGrowsUnderLoad(t *testing.T) {
	params := Params{Init: 4, Stress: 2, ShrinkGuard: 0.5}
	h := New[int](params, nil)
	initialBuckets := h.BucketCount()
	for i := 0; i < 50; i++ {
		h.Insert(i, i)
	}
	if h.BucketCount() <= initialBuckets {
		t.Errorf("expected bucket count to grow beyond %d, got %d", initialBuckets, h.BucketCount())
	}
	if !h.HasGrown() {
		t.Errorf("expected HasGrown to be true")
	}
	for i := 0; i < 50; i++ {
		v, err := h.Get(i)
		if err != nil || v != i {
			t.Fatalf("Get(%d) = %d, %v after grow", i, v, err)
		}
	}
}

func TestShrinksAfterBulkErase(t *testing.T) {
	params := Params{Init: 4, Stress: 2, ShrinkGuard: 0.5}
	h := New[int](params, nil)
	for i := 0; i < 60; i++ {
		h.Insert(i, i)
	}
	grown := h.BucketCount()
	for i := 0; i < 58; i++ {
		h.Erase(i)
	}
	if h.BucketCount() >= grown {
		t.Errorf("expected bucket count to shrink below %d, got %d", grown, h.BucketCount())
	}
	if _, err := h.Get(58); err != nil {
		t.Errorf("expected surviving key 58 to remain after shrink")
	}
}

func TestNeverShrinksBelowInitWithoutHavingGrown(t *testing.T) {
	params := Params{Init: 16, Stress: 2, ShrinkGuard: 0.5}
	h := New[int](params, nil)
	h.Insert(1, 1)
	h.Erase(1)
	if h.BucketCount() != params.Init {
		t.Errorf("expected bucket count to stay at Init=%d, got %d", params.Init, h.BucketCount())
	}
}

// TestAllocationFailureIsSwallowed exercises the fault-injection seam: a
// mock Allocator that always refuses capacity must leave every mutation
// successful, just with no resize taking effect.
func TestAllocationFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	alloc := mocks.NewMockAllocator(ctrl)
	alloc.EXPECT().TryAlloc(gomock.Any()).Return(errors.New("simulated allocation failure")).AnyTimes()

	params := Params{Init: 4, Stress: 2, ShrinkGuard: 0.5}
	h := New[int](params, alloc)

	for i := 0; i < 50; i++ {
		if err := h.Insert(i, i); err != nil {
			t.Fatalf("Insert(%d) returned error despite swallowed allocation failure: %v", i, err)
		}
	}
	if h.BucketCount() != params.Init {
		t.Errorf("expected bucket count to remain at Init=%d with refused allocator, got %d", params.Init, h.BucketCount())
	}
	if h.HasGrown() {
		t.Errorf("expected HasGrown to remain false when every resize is refused")
	}
	for i := 0; i < 50; i++ {
		if v, err := h.Get(i); err != nil || v != i {
			t.Fatalf("Get(%d) = %d, %v; data must survive a refused resize", i, v, err)
		}
	}
}

func TestAllocationFailureOnlyDelaysGrowth(t *testing.T) {
	ctrl := gomock.NewController(t)
	alloc := mocks.NewMockAllocator(ctrl)
	gomock.InOrder(
		alloc.EXPECT().TryAlloc(gomock.Any()).Return(errors.New("simulated")).Times(1),
		alloc.EXPECT().TryAlloc(gomock.Any()).Return(nil).AnyTimes(),
	)

	params := Params{Init: 2, Stress: 2, ShrinkGuard: 0.5}
	h := New[int](params, alloc)
	for i := 0; i < 30; i++ {
		h.Insert(i, i)
	}
	if !h.HasGrown() {
		t.Errorf("expected a later successful allocation to still grow the table")
	}
}

func TestRandomizedAgainstReferenceMap(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	h := New[int](DefaultParams(), nil)
	ref := map[int]int{}
	for i := 0; i < 4000; i++ {
		k := rng.Intn(300)
		if rng.Intn(3) == 0 {
			h.Erase(k)
			delete(ref, k)
			continue
		}
		h.Insert(k, k*2)
		ref[k] = k * 2
	}
	if h.Len() != len(ref) {
		t.Fatalf("len mismatch: hashmap %d, reference %d", h.Len(), len(ref))
	}
	for k, want := range ref {
		got, err := h.Get(k)
		if err != nil || got != want {
			t.Fatalf("Get(%d) = %d, %v; want %d", k, got, err, want)
		}
	}
}
