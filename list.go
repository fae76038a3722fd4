/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package typestore

import (
	serrors "github.com/suparena/typestore/errors"
)

// listState tags how the values in a cell arrived: a cell that received a
// single Insert is in the one state, a cell that received a batch is in the
// many state even if the batch had a single element. Mutating operations call
// rearrange to collapse the tag back to what the element count supports.
type listState uint8

const (
	listEmpty listState = iota
	listOne
	listMany
)

// list is the per-type storage cell: zero, one, or many values of T, with an
// explicit state tag over a single backing slice. It is an internal detail of
// a slot and carries no synchronization of its own.
type list[T any] struct {
	state listState
	items []T
}

// insert appends a single value: empty→one, one→many (the prior single value
// stays in front), many→many.
func (l *list[T]) insert(v T) {
	switch l.state {
	case listEmpty:
		l.items = append(l.items, v)
		l.state = listOne
	case listOne:
		l.items = append(l.items, v)
		l.state = listMany
	case listMany:
		l.items = append(l.items, v)
	}
}

// insertMany appends a batch: empty→many (regardless of batch size), one→many
// with the prior single value in front, many→many.
func (l *list[T]) insertMany(vs []T) {
	switch l.state {
	case listEmpty:
		l.items = append(l.items, vs...)
		l.state = listMany
	case listOne, listMany:
		l.items = append(l.items, vs...)
		l.state = listMany
	}
}

// one returns the single stored value. Valid only in the one state.
func (l *list[T]) one() (*T, error) {
	if l.state != listOne {
		return nil, serrors.ErrNotOne
	}
	return &l.items[0], nil
}

// many returns the stored values. Valid only in the many state.
func (l *list[T]) many() ([]T, error) {
	if l.state != listMany {
		return nil, serrors.ErrNotMany
	}
	return l.items, nil
}

// at returns the i-th stored value. Valid in the many state for i in bounds;
// in the one state only i == 0 is valid and maps to the single value.
func (l *list[T]) at(i int) (*T, error) {
	switch l.state {
	case listMany:
		if i < 0 || i >= len(l.items) {
			return nil, serrors.NewOutOfBoundsError(i, len(l.items))
		}
		return &l.items[i], nil
	case listOne:
		// index-0 fallback onto the single value
		if i != 0 {
			return nil, serrors.NewOutOfBoundsError(i, 1)
		}
		return &l.items[0], nil
	default:
		return nil, serrors.Combine(serrors.ErrNotMany, serrors.ErrNotOne)
	}
}

// extractOne removes and returns the single value, or element 0 of a many
// cell, rearranging afterwards.
func (l *list[T]) extractOne() (T, error) {
	var zero T
	if l.state == listEmpty {
		return zero, serrors.Combine(serrors.ErrNotMany, serrors.ErrNotOne)
	}
	v := l.items[0]
	l.items[0] = zero // release the reference for the collector
	l.items = l.items[1:]
	l.state = listMany
	l.rearrange()
	return v, nil
}

// extractAt removes and returns the i-th value; the index-0 fallback of at
// applies. Rearranges afterwards.
func (l *list[T]) extractAt(i int) (T, error) {
	var zero T
	switch l.state {
	case listEmpty:
		return zero, serrors.Combine(serrors.ErrNotMany, serrors.ErrNotOne)
	case listOne:
		if i != 0 {
			return zero, serrors.NewOutOfBoundsError(i, 1)
		}
		return l.extractOne()
	default:
		if i < 0 || i >= len(l.items) {
			return zero, serrors.NewOutOfBoundsError(i, len(l.items))
		}
		v := l.items[i]
		l.items = append(l.items[:i], l.items[i+1:]...)
		l.rearrange()
		return v, nil
	}
}

// extractAll removes and returns the whole backing slice; a one cell yields a
// single-element slice. The cell is empty afterwards.
func (l *list[T]) extractAll() ([]T, error) {
	if l.state == listEmpty {
		return nil, serrors.Combine(serrors.ErrNotMany, serrors.ErrNotOne)
	}
	vs := l.items
	l.items = nil
	l.state = listEmpty
	return vs, nil
}

// slice is the whole-cell view, valid in every state. Batch operations and
// whole-list guards use it to avoid per-element access checks.
func (l *list[T]) slice() []T {
	return l.items
}

// sliceMut exposes the backing slice for arbitrary mutation. The cell is
// forced into the many state first; the caller must rearrange when done.
func (l *list[T]) sliceMut() *[]T {
	if l.state != listEmpty {
		l.state = listMany
	}
	return &l.items
}

// rearrange collapses the state tag after a mutation: 0 elements→empty,
// 1→one, otherwise many.
func (l *list[T]) rearrange() {
	switch len(l.items) {
	case 0:
		l.items = nil
		l.state = listEmpty
	case 1:
		l.state = listOne
	default:
		l.state = listMany
	}
}

// len reports the number of stored values.
func (l *list[T]) len() int {
	return len(l.items)
}
