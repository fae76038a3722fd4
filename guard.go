/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package typestore

// Guards are transient: they hold the slot's lock (or borrow) from the moment
// an accessor returns them until Release is called. They must not be
// persisted, and a guard's value must not be used after Release. Release is
// idempotent.

// Ref grants shared access to a single stored value. The pointee must be
// treated as read-only; writers go through RefMut.
type Ref[T any] struct {
	value   *T
	release func()
}

// Value returns the guarded value.
func (r *Ref[T]) Value() *T { return r.value }

// Release gives the slot back.
func (r *Ref[T]) Release() {
	if r.release != nil {
		r.release()
		r.release = nil
	}
}

// RefMut grants exclusive access to a single stored value.
type RefMut[T any] struct {
	value   *T
	release func()
}

// Value returns the guarded value for reading and writing.
func (r *RefMut[T]) Value() *T { return r.value }

// Release gives the slot back.
func (r *RefMut[T]) Release() {
	if r.release != nil {
		r.release()
		r.release = nil
	}
}

// SliceRef grants shared access to the whole backing slice of a slot. The
// slice must be treated as read-only.
type SliceRef[T any] struct {
	items   []T
	release func()
}

// Slice returns the guarded values.
func (r *SliceRef[T]) Slice() []T { return r.items }

// Release gives the slot back.
func (r *SliceRef[T]) Release() {
	if r.release != nil {
		r.release()
		r.release = nil
	}
}

// SliceRefMut grants exclusive access to the whole backing slice of a slot.
// The slice may be mutated arbitrarily through Slice; the cell is rearranged
// when the guard is released.
type SliceRefMut[T any] struct {
	items   *[]T
	release func()
}

// Slice returns the guarded backing slice for arbitrary mutation.
func (r *SliceRefMut[T]) Slice() *[]T { return r.items }

// Release rearranges the cell and gives the slot back.
func (r *SliceRefMut[T]) Release() {
	if r.release != nil {
		r.release()
		r.release = nil
	}
}
