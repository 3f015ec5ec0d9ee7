// Package hashmap implements an integer-keyed, open-addressed-by-bucket
// hash map: each bucket is itself a balanced tree (avltree.Tree), so the
// worst case per bucket stays O(log n) instead of degrading to O(n) under
// adversarial hash collisions. The bucket count grows and shrinks in
// response to load factor, following the teacher's closed-chained
// ChainTable design.
package hashmap

import (
	"math"

	"github.com/watchboom/boom/internal/avltree"
	"github.com/watchboom/boom/internal/sparsearray"
)

// ErrKeyNotFound is returned by Get when the key is absent.
var ErrKeyNotFound = avltree.ErrKeyNotFound

// goldenRatioConjugate is phi = (sqrt(5)-1)/2, used as the multiplicative
// hashing constant per Knuth's multiplicative method.
const goldenRatioConjugate = 0.6180339887498949

// Params holds the tunables governing load-factor driven resizing.
type Params struct {
	// Init is the initial bucket count. A shrink is only considered
	// while the table is larger than Init, but the shrunk size itself is
	// not clamped to Init.
	Init int
	// Stress is the load factor ceiling that triggers a grow.
	Stress float64
	// ShrinkGuard is the load factor floor, below which (once the map
	// has ever grown past Init) a shrink is triggered. Must be in
	// (0, Stress).
	ShrinkGuard float64
}

// DefaultParams returns the spec-literal tunables: Init=10, Stress=2,
// ShrinkGuard=0.5.
func DefaultParams() Params {
	return Params{Init: 10, Stress: 2, ShrinkGuard: 0.5}
}

// Allocator is the fault-injection seam for the resize path. The real
// allocator never refuses; tests substitute a mock (see
// internal/mocks) to exercise the swallowed-allocation-failure paths
// deterministically, since Go offers no portable way to force make()
// to fail.
type Allocator interface {
	// TryAlloc is consulted before a resize is attempted for n
	// buckets. A non-nil error aborts the resize without touching the
	// existing table.
	TryAlloc(n int) error
}

type realAllocator struct{}

func (realAllocator) TryAlloc(int) error { return nil }

// RealAllocator is the Allocator used when none is supplied to New.
var RealAllocator Allocator = realAllocator{}

func intLess(a, b int) bool { return a < b }

// HashMap is an integer-keyed hash map with closed chaining into
// balanced-tree buckets.
type HashMap[V any] struct {
	params   Params
	alloc    Allocator
	table    *sparsearray.SparseArray[*avltree.Tree[int, V]]
	count    int
	hasGrown bool
}

// New creates an empty HashMap governed by params. A nil alloc uses
// RealAllocator.
func New[V any](params Params, alloc Allocator) *HashMap[V] {
	if alloc == nil {
		alloc = RealAllocator
	}
	if params.Init <= 0 {
		params.Init = DefaultParams().Init
	}
	return &HashMap[V]{
		params: params,
		alloc:  alloc,
		table:  sparsearray.New[*avltree.Tree[int, V]](params.Init, nil),
	}
}

// Len returns the number of keys stored.
func (h *HashMap[V]) Len() int { return h.count }

// BucketCount returns the current number of buckets.
func (h *HashMap[V]) BucketCount() int { return h.table.Cap() }

// HasGrown reports whether the table has ever grown past its initial
// capacity.
func (h *HashMap[V]) HasGrown() bool { return h.hasGrown }

// LoadFactor returns the current n/m ratio.
func (h *HashMap[V]) LoadFactor() float64 {
	return float64(h.count) / float64(h.table.Cap())
}

func hashWithSize(key, m int) int {
	kf := float64(key) * goldenRatioConjugate
	frac := kf - math.Floor(kf)
	idx := int(float64(m) * frac)
	if idx >= m {
		idx = m - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

func (h *HashMap[V]) hash(key int) int { return hashWithSize(key, h.table.Cap()) }

func (h *HashMap[V]) bucketAt(i int) *avltree.Tree[int, V] {
	b, _ := h.table.Get(i)
	return b
}

func (h *HashMap[V]) bucketOrCreate(i int) *avltree.Tree[int, V] {
	if !h.table.IsInitialized(i) {
		_ = h.table.Store(i, avltree.New[int, V](intLess))
	}
	return h.bucketAt(i)
}

// Insert stores value under key, overwriting any existing value without
// touching the element count or triggering a resize.
func (h *HashMap[V]) Insert(key int, value V) error {
	bucket := h.bucketOrCreate(h.hash(key))
	existed := bucket.Find(key)
	bucket.Insert(key, value)
	if existed {
		return nil
	}
	h.count++
	return h.fixStress()
}

// Erase removes key if present and evaluates a resize.
func (h *HashMap[V]) Erase(key int) {
	idx := h.hash(key)
	if !h.table.IsInitialized(idx) {
		return
	}
	bucket := h.bucketAt(idx)
	if bucket == nil || !bucket.Find(key) {
		return
	}
	bucket.Erase(key)
	h.count--
	_ = h.fixStress()
}

// Get returns the value for key, or ErrKeyNotFound.
func (h *HashMap[V]) Get(key int) (V, error) {
	idx := h.hash(key)
	if !h.table.IsInitialized(idx) {
		var zero V
		return zero, ErrKeyNotFound
	}
	bucket := h.bucketAt(idx)
	if bucket == nil {
		var zero V
		return zero, ErrKeyNotFound
	}
	return bucket.At(key)
}

// Find reports whether key is present.
func (h *HashMap[V]) Find(key int) bool {
	idx := h.hash(key)
	if !h.table.IsInitialized(idx) {
		return false
	}
	bucket := h.bucketAt(idx)
	return bucket != nil && bucket.Find(key)
}

// fixStress grows or shrinks the table when the load factor has drifted
// outside the configured band, per the teacher's double-guarded shrink:
// shrink only once the table has grown past Init AND has ever grown.
func (h *HashMap[V]) fixStress() error {
	tableSize := h.table.Cap()
	load := float64(h.count) / float64(tableSize)

	grow := load >= h.params.Stress
	shrink := tableSize > h.params.Init && h.hasGrown && load < h.params.ShrinkGuard
	if !grow && !shrink {
		return nil
	}

	// Normalize the load factor to Stress/2 after the resize.
	k := (2 * float64(h.count)) / (h.params.Stress * float64(tableSize))
	newSize := int(math.Ceil(float64(tableSize) * k))
	if newSize < 1 {
		newSize = 1
	}
	return h.remakeTable(newSize)
}

// remakeTable rebuilds the bucket array at newSize buckets. On
// allocation failure it leaves the table untouched and returns nil: the
// resize is a performance optimization, and the caller's mutation has
// already succeeded against the old table.
func (h *HashMap[V]) remakeTable(newSize int) error {
	if err := h.alloc.TryAlloc(newSize); err != nil {
		return nil
	}

	newTable := sparsearray.New[*avltree.Tree[int, V]](newSize, nil)
	for i := 0; i < h.table.Cap(); i++ {
		if !h.table.IsInitialized(i) {
			continue
		}
		bucket := h.bucketAt(i)
		if bucket == nil {
			continue
		}
		bucket.Walk(-1, func(k int, v V) bool {
			idx := hashWithSize(k, newSize)
			if !newTable.IsInitialized(idx) {
				_ = newTable.Store(idx, avltree.New[int, V](intLess))
			}
			nb, _ := newTable.Get(idx)
			nb.Insert(k, v)
			return true
		})
	}
	h.table = newTable
	h.hasGrown = true
	return nil
}
