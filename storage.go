/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package typestore

import (
	"reflect"
	"sync"

	serrors "github.com/suparena/typestore/errors"
)

// Storage is the top-level type-identity map: one slot per stored type, every
// slot wrapped in the concurrency discipline chosen at construction. Flavors
// are fixed for the lifetime of the Storage and not interchangeable.
//
// The slot map itself is guarded by its own RWMutex, so Allocate is safe to
// call concurrently; per-value aliasing rules are enforced by each slot's
// discipline. With the Unsync flavor the whole Storage must stay confined to
// a single goroutine.
type Storage struct {
	mu     sync.RWMutex
	flavor Flavor
	slots  map[reflect.Type]any
}

func newStorage(f Flavor) *Storage {
	return &Storage{
		flavor: f,
		slots:  make(map[reflect.Type]any),
	}
}

// NewUnsyncStorage creates a Storage whose slots use runtime borrow counters
// with no synchronization: non-blocking, single-goroutine use only.
func NewUnsyncStorage() *Storage { return newStorage(Unsync) }

// NewMutexStorage creates a Storage whose slots serialize all access behind a
// mutex. Safe for concurrent use; offers blocking and fail-fast acquisition.
func NewMutexStorage() *Storage { return newStorage(Mutex) }

// NewRWMutexStorage creates a Storage whose slots allow concurrent shared
// readers and exclusive writers. Safe for concurrent use; offers blocking and
// fail-fast acquisition.
func NewRWMutexStorage() *Storage { return newStorage(RWMutex) }

// Flavor reports the concurrency discipline the Storage was built with.
func (s *Storage) Flavor() Flavor { return s.flavor }

// typeKey returns the identity key for T. Going through a pointer type keeps
// interface element types addressable by their own identity.
func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// slotFor resolves the slot for T, or reports ErrUnallocated. A slot that
// asserts back to the wrong concrete type is an engine bug surfaced as
// ErrKindMismatch.
func slotFor[T any](s *Storage) (*slot[T], error) {
	key := typeKey[T]()
	s.mu.RLock()
	e, ok := s.slots[key]
	s.mu.RUnlock()
	if !ok {
		return nil, serrors.NewUnallocatedError(key)
	}
	sl, ok := e.(*slot[T])
	if !ok {
		return nil, serrors.NewKindMismatchError(key, reflect.TypeOf(e))
	}
	return sl, nil
}

// Allocate creates an empty slot for T if none exists. It is idempotent.
// Access or insertion before allocation fails with ErrUnallocated.
func Allocate[T any](s *Storage) {
	key := typeKey[T]()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[key]; !ok {
		s.slots[key] = newSlot[T](key, s.flavor)
	}
}

// Has reports whether a slot for T has been allocated.
func Has[T any](s *Storage) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.slots[typeKey[T]()]
	return ok
}

// Insert appends a single value to the slot for T. On failure the caller
// still owns v.
func Insert[T any](s *Storage, v T) error {
	sl, err := slotFor[T](s)
	if err != nil {
		return err
	}
	return sl.insertAny(v, false, false)
}

// InsertMany appends a batch of values to the slot for T, preserving order.
// On failure the caller still owns vs.
func InsertMany[T any](s *Storage, vs []T) error {
	sl, err := slotFor[T](s)
	if err != nil {
		return err
	}
	return sl.insertAny(vs, true, false)
}

// GetOne returns a shared guard over the single stored T. It fails with
// ErrNotOne unless exactly one value is stored.
func GetOne[T any](s *Storage) (*Ref[T], error) {
	sl, err := slotFor[T](s)
	if err != nil {
		return nil, err
	}
	return sl.one(false)
}

// GetOneMut returns an exclusive guard over the single stored T.
func GetOneMut[T any](s *Storage) (*RefMut[T], error) {
	sl, err := slotFor[T](s)
	if err != nil {
		return nil, err
	}
	return sl.oneMut(false)
}

// GetAt returns a shared guard over the i-th stored T. When exactly one value
// is stored, index 0 maps to it.
func GetAt[T any](s *Storage, i int) (*Ref[T], error) {
	sl, err := slotFor[T](s)
	if err != nil {
		return nil, err
	}
	return sl.at(i, false)
}

// GetAtMut returns an exclusive guard over the i-th stored T.
func GetAtMut[T any](s *Storage, i int) (*RefMut[T], error) {
	sl, err := slotFor[T](s)
	if err != nil {
		return nil, err
	}
	return sl.atMut(i, false)
}

// GetSlice returns a shared guard over all stored values of T, in any state;
// an empty slot yields an empty slice.
func GetSlice[T any](s *Storage) (*SliceRef[T], error) {
	sl, err := slotFor[T](s)
	if err != nil {
		return nil, err
	}
	return sl.sliceShared(false)
}

// GetSliceMut returns an exclusive guard over the backing slice of T's slot.
// The cell is rearranged when the guard is released.
func GetSliceMut[T any](s *Storage) (*SliceRefMut[T], error) {
	sl, err := slotFor[T](s)
	if err != nil {
		return nil, err
	}
	return sl.sliceExclusive(false)
}

// Extract removes and returns the single stored T, or element 0 when many
// are stored.
func Extract[T any](s *Storage) (T, error) {
	sl, err := slotFor[T](s)
	if err != nil {
		var zero T
		return zero, err
	}
	return sl.extractOne(false)
}

// ExtractAt removes and returns the i-th stored T.
func ExtractAt[T any](s *Storage, i int) (T, error) {
	sl, err := slotFor[T](s)
	if err != nil {
		var zero T
		return zero, err
	}
	return sl.extractAt(i, false)
}

// ExtractAll removes and returns every stored T; a single stored value yields
// a single-element slice.
func ExtractAll[T any](s *Storage) ([]T, error) {
	sl, err := slotFor[T](s)
	if err != nil {
		return nil, err
	}
	return sl.extractAll(false)
}

// Len reports how many values of T are stored.
func Len[T any](s *Storage) (int, error) {
	sl, err := slotFor[T](s)
	if err != nil {
		return 0, err
	}
	return sl.len(false)
}

// RunFor acquires the whole-list guard for T once and applies fn to the
// stored values, returning fn's result.
func RunFor[T, R any](s *Storage, fn func([]T) R) (R, error) {
	var out R
	sl, err := slotFor[T](s)
	if err != nil {
		return out, err
	}
	err = sl.withSlice(false, func(vs []T) { out = fn(vs) })
	return out, err
}

// RunForMut acquires the whole-list guard for T once, applies fn to the
// backing slice, and rearranges the cell afterwards. fn may grow, shrink, or
// reorder the slice arbitrarily.
func RunForMut[T, R any](s *Storage, fn func(*[]T) R) (R, error) {
	var out R
	sl, err := slotFor[T](s)
	if err != nil {
		return out, err
	}
	err = sl.withSliceMut(false, func(vs *[]T) { out = fn(vs) })
	return out, err
}

// Blocking counterparts. On lock-based flavors these suspend until the slot
// is free; the unsync flavor cannot suspend, so they degrade to fail-fast.

// InsertWait is the blocking counterpart of Insert.
func InsertWait[T any](s *Storage, v T) error {
	sl, err := slotFor[T](s)
	if err != nil {
		return err
	}
	return sl.insertAny(v, false, true)
}

// InsertManyWait is the blocking counterpart of InsertMany.
func InsertManyWait[T any](s *Storage, vs []T) error {
	sl, err := slotFor[T](s)
	if err != nil {
		return err
	}
	return sl.insertAny(vs, true, true)
}

// GetOneWait is the blocking counterpart of GetOne.
func GetOneWait[T any](s *Storage) (*Ref[T], error) {
	sl, err := slotFor[T](s)
	if err != nil {
		return nil, err
	}
	return sl.one(true)
}

// GetOneMutWait is the blocking counterpart of GetOneMut.
func GetOneMutWait[T any](s *Storage) (*RefMut[T], error) {
	sl, err := slotFor[T](s)
	if err != nil {
		return nil, err
	}
	return sl.oneMut(true)
}

// GetAtWait is the blocking counterpart of GetAt.
func GetAtWait[T any](s *Storage, i int) (*Ref[T], error) {
	sl, err := slotFor[T](s)
	if err != nil {
		return nil, err
	}
	return sl.at(i, true)
}

// GetAtMutWait is the blocking counterpart of GetAtMut.
func GetAtMutWait[T any](s *Storage, i int) (*RefMut[T], error) {
	sl, err := slotFor[T](s)
	if err != nil {
		return nil, err
	}
	return sl.atMut(i, true)
}

// GetSliceWait is the blocking counterpart of GetSlice.
func GetSliceWait[T any](s *Storage) (*SliceRef[T], error) {
	sl, err := slotFor[T](s)
	if err != nil {
		return nil, err
	}
	return sl.sliceShared(true)
}

// GetSliceMutWait is the blocking counterpart of GetSliceMut.
func GetSliceMutWait[T any](s *Storage) (*SliceRefMut[T], error) {
	sl, err := slotFor[T](s)
	if err != nil {
		return nil, err
	}
	return sl.sliceExclusive(true)
}

// ExtractWait is the blocking counterpart of Extract.
func ExtractWait[T any](s *Storage) (T, error) {
	sl, err := slotFor[T](s)
	if err != nil {
		var zero T
		return zero, err
	}
	return sl.extractOne(true)
}

// ExtractAtWait is the blocking counterpart of ExtractAt.
func ExtractAtWait[T any](s *Storage, i int) (T, error) {
	sl, err := slotFor[T](s)
	if err != nil {
		var zero T
		return zero, err
	}
	return sl.extractAt(i, true)
}

// ExtractAllWait is the blocking counterpart of ExtractAll.
func ExtractAllWait[T any](s *Storage) ([]T, error) {
	sl, err := slotFor[T](s)
	if err != nil {
		return nil, err
	}
	return sl.extractAll(true)
}

// RunForWait is the blocking counterpart of RunFor.
func RunForWait[T, R any](s *Storage, fn func([]T) R) (R, error) {
	var out R
	sl, err := slotFor[T](s)
	if err != nil {
		return out, err
	}
	err = sl.withSlice(true, func(vs []T) { out = fn(vs) })
	return out, err
}

// RunForMutWait is the blocking counterpart of RunForMut.
func RunForMutWait[T, R any](s *Storage, fn func(*[]T) R) (R, error) {
	var out R
	sl, err := slotFor[T](s)
	if err != nil {
		return out, err
	}
	err = sl.withSliceMut(true, func(vs *[]T) { out = fn(vs) })
	return out, err
}
