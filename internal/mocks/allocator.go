// Package mocks holds hand-maintained test doubles for the allocation
// seams used across the index packages. There is no go:generate
// directive backing this file because the teacher repo carries no
// mockgen template to crib from; the structure below follows
// go.uber.org/mock's standard generated shape (Controller + recorder)
// so it drops in wherever generated code would.
package mocks

import (
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockAllocator is a mock of the hashmap.Allocator / engine allocation
// seam (TryAlloc(n int) error).
type MockAllocator struct {
	ctrl     *gomock.Controller
	recorder *MockAllocatorMockRecorder
}

// MockAllocatorMockRecorder is the recorder for MockAllocator.
type MockAllocatorMockRecorder struct {
	mock *MockAllocator
}

// NewMockAllocator creates a new mock instance.
func NewMockAllocator(ctrl *gomock.Controller) *MockAllocator {
	mock := &MockAllocator{ctrl: ctrl}
	mock.recorder = &MockAllocatorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected
// use.
func (m *MockAllocator) EXPECT() *MockAllocatorMockRecorder {
	return m.recorder
}

// TryAlloc mocks base method.
func (m *MockAllocator) TryAlloc(n int) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TryAlloc", n)
	ret0, _ := ret[0].(error)
	return ret0
}

// TryAlloc indicates an expected call of TryAlloc.
func (mr *MockAllocatorMockRecorder) TryAlloc(n interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TryAlloc", reflect.TypeOf((*MockAllocator)(nil).TryAlloc), n)
}
