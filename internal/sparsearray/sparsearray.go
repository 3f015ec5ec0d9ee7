// Package sparsearray implements a fixed-capacity array that can report
// whether a cell was ever written without zeroing its backing storage at
// construction time. It backs a course's lecture vector and a HashMap's
// bucket table.
package sparsearray

import "errors"

// ErrOutOfBounds is returned by Get/Store when the index falls outside
// [0, Cap()).
var ErrOutOfBounds = errors.New("sparsearray: index out of bounds")

// SparseArray is a fixed-capacity store of T cells supporting O(1)
// initialized?/read/write without zeroing on construction. It is built
// from three parallel slices: values, a back-index per cell, and a stack
// of touched indices — the classic "trusted storage" validation trick.
//
// Optionally it grows: when constructed with a growth factor k >= 2, a
// Store call that fills the last free cell rebuilds the array at
// capacity cap*k, preserving every initialized cell. A zero growth
// factor means the array never grows; Store then returns ErrOutOfBounds
// once full and asked to initialize a new cell beyond capacity.
type SparseArray[T any] struct {
	values []T
	back   []int32
	stack  []int32
	top    int32
	def    T
	growth int32
}

// New creates a fixed-capacity SparseArray. capacity must be positive.
func New[T any](capacity int, def T) *SparseArray[T] {
	return NewGrowable[T](capacity, def, 0)
}

// NewGrowable creates a SparseArray that doubles (or grows by growth) its
// capacity whenever a Store call would initialize its last free cell.
// growth < 2 disables growth.
func NewGrowable[T any](capacity int, def T, growth int) *SparseArray[T] {
	if capacity <= 0 {
		capacity = 1
	}
	g := int32(growth)
	if g < 2 {
		g = 0
	}
	return &SparseArray[T]{
		values: make([]T, capacity),
		back:   make([]int32, capacity),
		stack:  make([]int32, capacity),
		def:    def,
		growth: g,
	}
}

// Cap returns the current capacity.
func (s *SparseArray[T]) Cap() int { return len(s.values) }

// Len returns the number of initialized cells.
func (s *SparseArray[T]) Len() int { return int(s.top) }

// IsInitialized reports whether cell i has ever been stored into.
func (s *SparseArray[T]) IsInitialized(i int) bool {
	if i < 0 || i >= len(s.values) {
		return false
	}
	b := s.back[i]
	return b >= 0 && b < s.top && s.stack[b] == int32(i)
}

// Get returns the value at i, or the configured default if i is in range
// but uninitialized. It returns ErrOutOfBounds if i is out of [0, Cap()).
func (s *SparseArray[T]) Get(i int) (T, error) {
	if i < 0 || i >= len(s.values) {
		var zero T
		return zero, ErrOutOfBounds
	}
	if s.IsInitialized(i) {
		return s.values[i], nil
	}
	return s.def, nil
}

// Store writes v into cell i, initializing it if necessary. If growth is
// enabled and this store fills the array's last free cell, the backing
// storage is rebuilt at a larger capacity before returning.
func (s *SparseArray[T]) Store(i int, v T) error {
	if i < 0 || i >= len(s.values) {
		return ErrOutOfBounds
	}
	if !s.IsInitialized(i) {
		s.stack[s.top] = int32(i)
		s.back[i] = s.top
		s.top++
	}
	s.values[i] = v

	if s.growth != 0 && int(s.top) >= len(s.values) {
		s.grow()
	}
	return nil
}

func (s *SparseArray[T]) grow() {
	newCap := int(s.growth) * len(s.values)
	grown := NewGrowable[T](newCap, s.def, int(s.growth))
	for i := 0; i < len(s.values); i++ {
		if s.IsInitialized(i) {
			// The target cannot be full mid-copy, so this never errors.
			_ = grown.Store(i, s.values[i])
		}
	}
	*s = *grown
}
