/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package typestore

import (
	"reflect"

	serrors "github.com/suparena/typestore/errors"
)

// slot wraps one storage cell behind a concurrency discipline. It is the
// type-erasure boundary of the engine: a Storage holds slots as erased values
// keyed by reflect.Type, and the generic accessors assert them back.
//
// Every accessor acquires the slot's lock, validates the cell's shape, and
// either hands out a guard that holds the lock until released, or releases
// the lock itself before returning (owned extraction, insert, run-for).
type slot[T any] struct {
	typ  reflect.Type
	lk   locker
	list list[T]
}

func newSlot[T any](typ reflect.Type, f Flavor) *slot[T] {
	return &slot[T]{typ: typ, lk: f.newLocker()}
}

// acquireShared grants shared access, blocking only when wait is set and the
// discipline can suspend.
func (sl *slot[T]) acquireShared(wait bool) error {
	if wait {
		if sl.lk.waitShared() {
			return nil
		}
	} else if sl.lk.tryShared() {
		return nil
	}
	return serrors.NewConflictError(sl.typ)
}

func (sl *slot[T]) acquireExclusive(wait bool) error {
	if wait {
		if sl.lk.waitExclusive() {
			return nil
		}
	} else if sl.lk.tryExclusive() {
		return nil
	}
	return serrors.NewConflictError(sl.typ)
}

// one returns a shared guard over the single stored value.
func (sl *slot[T]) one(wait bool) (*Ref[T], error) {
	if err := sl.acquireShared(wait); err != nil {
		return nil, err
	}
	v, err := sl.list.one()
	if err != nil {
		sl.lk.releaseShared()
		return nil, err
	}
	return &Ref[T]{value: v, release: sl.lk.releaseShared}, nil
}

// oneMut returns an exclusive guard over the single stored value.
func (sl *slot[T]) oneMut(wait bool) (*RefMut[T], error) {
	if err := sl.acquireExclusive(wait); err != nil {
		return nil, err
	}
	v, err := sl.list.one()
	if err != nil {
		sl.lk.releaseExclusive()
		return nil, err
	}
	return &RefMut[T]{value: v, release: sl.lk.releaseExclusive}, nil
}

// at returns a shared guard over the i-th stored value.
func (sl *slot[T]) at(i int, wait bool) (*Ref[T], error) {
	if err := sl.acquireShared(wait); err != nil {
		return nil, err
	}
	v, err := sl.list.at(i)
	if err != nil {
		sl.lk.releaseShared()
		return nil, err
	}
	return &Ref[T]{value: v, release: sl.lk.releaseShared}, nil
}

// atMut returns an exclusive guard over the i-th stored value.
func (sl *slot[T]) atMut(i int, wait bool) (*RefMut[T], error) {
	if err := sl.acquireExclusive(wait); err != nil {
		return nil, err
	}
	v, err := sl.list.at(i)
	if err != nil {
		sl.lk.releaseExclusive()
		return nil, err
	}
	return &RefMut[T]{value: v, release: sl.lk.releaseExclusive}, nil
}

// sliceShared returns a shared guard over the whole cell, valid in any state.
func (sl *slot[T]) sliceShared(wait bool) (*SliceRef[T], error) {
	if err := sl.acquireShared(wait); err != nil {
		return nil, err
	}
	return &SliceRef[T]{items: sl.list.slice(), release: sl.lk.releaseShared}, nil
}

// sliceExclusive returns an exclusive guard over the whole backing slice.
// The cell is rearranged when the guard is released.
func (sl *slot[T]) sliceExclusive(wait bool) (*SliceRefMut[T], error) {
	if err := sl.acquireExclusive(wait); err != nil {
		return nil, err
	}
	items := sl.list.sliceMut()
	release := func() {
		sl.list.rearrange()
		sl.lk.releaseExclusive()
	}
	return &SliceRefMut[T]{items: items, release: release}, nil
}

// extractOne removes and returns the single value (or element 0 of a many
// cell).
func (sl *slot[T]) extractOne(wait bool) (T, error) {
	var zero T
	if err := sl.acquireExclusive(wait); err != nil {
		return zero, err
	}
	defer sl.lk.releaseExclusive()
	return sl.list.extractOne()
}

// extractAt removes and returns the i-th value.
func (sl *slot[T]) extractAt(i int, wait bool) (T, error) {
	var zero T
	if err := sl.acquireExclusive(wait); err != nil {
		return zero, err
	}
	defer sl.lk.releaseExclusive()
	return sl.list.extractAt(i)
}

// extractAll removes and returns every stored value.
func (sl *slot[T]) extractAll(wait bool) ([]T, error) {
	if err := sl.acquireExclusive(wait); err != nil {
		return nil, err
	}
	defer sl.lk.releaseExclusive()
	return sl.list.extractAll()
}

// insertAny appends an erased value: a single T when batch is false, a []T
// when batch is true. Anything else is a kind mismatch: the caller located
// this slot through the type key, so a mismatched value means an engine bug,
// reported as a regular error. The caller must say which case it holds — when
// T is an interface the batch slice itself satisfies (T = any being the
// obvious case), asserting the value alone cannot tell a batch from a single
// value. The kind check runs before lock acquisition so a mismatched value
// never waits.
func (sl *slot[T]) insertAny(v any, batch, wait bool) error {
	var single T
	var many []T
	if batch {
		vs, ok := v.([]T)
		if !ok {
			return serrors.NewKindMismatchError(sl.typ, reflect.TypeOf(v))
		}
		many = vs
	} else {
		sv, ok := v.(T)
		if !ok {
			return serrors.NewKindMismatchError(sl.typ, reflect.TypeOf(v))
		}
		single = sv
	}
	if err := sl.acquireExclusive(wait); err != nil {
		return err
	}
	defer sl.lk.releaseExclusive()
	if batch {
		sl.list.insertMany(many)
	} else {
		sl.list.insert(single)
	}
	return nil
}

// withSlice acquires the whole-cell guard once and applies fn to the stored
// values.
func (sl *slot[T]) withSlice(wait bool, fn func([]T)) error {
	if err := sl.acquireShared(wait); err != nil {
		return err
	}
	defer sl.lk.releaseShared()
	fn(sl.list.slice())
	return nil
}

// withSliceMut acquires the whole-cell guard once, applies fn to the backing
// slice, and rearranges afterwards.
func (sl *slot[T]) withSliceMut(wait bool, fn func(*[]T)) error {
	if err := sl.acquireExclusive(wait); err != nil {
		return err
	}
	defer sl.lk.releaseExclusive()
	fn(sl.list.sliceMut())
	sl.list.rearrange()
	return nil
}

// len reports the number of stored values without shape checks.
func (sl *slot[T]) len(wait bool) (int, error) {
	if err := sl.acquireShared(wait); err != nil {
		return 0, err
	}
	defer sl.lk.releaseShared()
	return sl.list.len(), nil
}
