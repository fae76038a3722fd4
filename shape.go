/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package typestore

import (
	"reflect"
	"sort"

	serrors "github.com/suparena/typestore/errors"
)

// Access declares one element of a multi-type request: which type, which
// access pattern, and how to resolve it against a Storage. Build values with
// the constructors below and hand them to Fetch or FetchWait.
type Access struct {
	typ     reflect.Type
	resolve func(s *Storage, wait bool) (value any, release func(), err error)
}

// Type reports the stored type this access targets.
func (a Access) Type() reflect.Type { return a.typ }

// Read declares a shared borrow of the single stored T. Resolves to *T.
func Read[T any]() Access {
	return Access{
		typ: typeKey[T](),
		resolve: func(s *Storage, wait bool) (any, func(), error) {
			sl, err := slotFor[T](s)
			if err != nil {
				return nil, nil, err
			}
			var ref *Ref[T]
			if ref, err = sl.one(wait); err != nil {
				return nil, nil, err
			}
			return ref.Value(), ref.Release, nil
		},
	}
}

// Write declares an exclusive borrow of the single stored T. Resolves to *T.
func Write[T any]() Access {
	return Access{
		typ: typeKey[T](),
		resolve: func(s *Storage, wait bool) (any, func(), error) {
			sl, err := slotFor[T](s)
			if err != nil {
				return nil, nil, err
			}
			var ref *RefMut[T]
			if ref, err = sl.oneMut(wait); err != nil {
				return nil, nil, err
			}
			return ref.Value(), ref.Release, nil
		},
	}
}

// ReadAt declares a shared borrow of the i-th stored T. Resolves to *T.
func ReadAt[T any](i int) Access {
	return Access{
		typ: typeKey[T](),
		resolve: func(s *Storage, wait bool) (any, func(), error) {
			sl, err := slotFor[T](s)
			if err != nil {
				return nil, nil, err
			}
			var ref *Ref[T]
			if ref, err = sl.at(i, wait); err != nil {
				return nil, nil, err
			}
			return ref.Value(), ref.Release, nil
		},
	}
}

// WriteAt declares an exclusive borrow of the i-th stored T. Resolves to *T.
func WriteAt[T any](i int) Access {
	return Access{
		typ: typeKey[T](),
		resolve: func(s *Storage, wait bool) (any, func(), error) {
			sl, err := slotFor[T](s)
			if err != nil {
				return nil, nil, err
			}
			var ref *RefMut[T]
			if ref, err = sl.atMut(i, wait); err != nil {
				return nil, nil, err
			}
			return ref.Value(), ref.Release, nil
		},
	}
}

// ReadAll declares a shared borrow of all stored values of T. Resolves to
// []T, empty when the slot is empty.
func ReadAll[T any]() Access {
	return Access{
		typ: typeKey[T](),
		resolve: func(s *Storage, wait bool) (any, func(), error) {
			sl, err := slotFor[T](s)
			if err != nil {
				return nil, nil, err
			}
			var ref *SliceRef[T]
			if ref, err = sl.sliceShared(wait); err != nil {
				return nil, nil, err
			}
			return ref.Slice(), ref.Release, nil
		},
	}
}

// WriteAll declares an exclusive borrow of the backing slice of T's slot.
// Resolves to *[]T; the cell is rearranged when the result is released.
func WriteAll[T any]() Access {
	return Access{
		typ: typeKey[T](),
		resolve: func(s *Storage, wait bool) (any, func(), error) {
			sl, err := slotFor[T](s)
			if err != nil {
				return nil, nil, err
			}
			var ref *SliceRefMut[T]
			if ref, err = sl.sliceExclusive(wait); err != nil {
				return nil, nil, err
			}
			return ref.Slice(), ref.Release, nil
		},
	}
}

// Take declares owned extraction of the single stored T (or element 0 when
// many are stored). Resolves to T; no lock is held afterwards.
func Take[T any]() Access {
	return Access{
		typ: typeKey[T](),
		resolve: func(s *Storage, wait bool) (any, func(), error) {
			sl, err := slotFor[T](s)
			if err != nil {
				return nil, nil, err
			}
			v, err := sl.extractOne(wait)
			if err != nil {
				return nil, nil, err
			}
			return v, nil, nil
		},
	}
}

// TakeAt declares owned extraction of the i-th stored T. Resolves to T.
func TakeAt[T any](i int) Access {
	return Access{
		typ: typeKey[T](),
		resolve: func(s *Storage, wait bool) (any, func(), error) {
			sl, err := slotFor[T](s)
			if err != nil {
				return nil, nil, err
			}
			v, err := sl.extractAt(i, wait)
			if err != nil {
				return nil, nil, err
			}
			return v, nil, nil
		},
	}
}

// TakeAll declares owned extraction of every stored T. Resolves to []T.
func TakeAll[T any]() Access {
	return Access{
		typ: typeKey[T](),
		resolve: func(s *Storage, wait bool) (any, func(), error) {
			sl, err := slotFor[T](s)
			if err != nil {
				return nil, nil, err
			}
			vs, err := sl.extractAll(wait)
			if err != nil {
				return nil, nil, err
			}
			return vs, nil, nil
		},
	}
}

// Result aggregates the values and guards of a resolved request. Positions
// follow the declared access order. Values stay borrowed until Release; a
// Result must not outlive its use site.
type Result struct {
	values   []any
	releases []func()
}

// Len reports the number of resolved accesses.
func (r *Result) Len() int { return len(r.values) }

// Release releases every guard the request acquired, in reverse acquisition
// order. Idempotent.
func (r *Result) Release() {
	for i := len(r.releases) - 1; i >= 0; i-- {
		if r.releases[i] != nil {
			r.releases[i]()
			r.releases[i] = nil
		}
	}
}

// Value returns the i-th resolved value as V: *T for single borrows, []T for
// shared slices and owned batches, *[]T for exclusive slices, T for owned
// single values. A mismatched V reports ErrKindMismatch.
func Value[V any](r *Result, i int) (V, error) {
	var zero V
	if i < 0 || i >= len(r.values) {
		return zero, serrors.NewOutOfBoundsError(i, len(r.values))
	}
	v, ok := r.values[i].(V)
	if !ok {
		return zero, serrors.NewKindMismatchError(typeKey[V](), reflect.TypeOf(r.values[i]))
	}
	return v, nil
}

// Fetch resolves a request strictly in declared order with immediate
// acquisition. The first failure stops resolution; guards acquired for
// earlier accesses are released before the error returns, so the request is
// all-or-nothing.
func (s *Storage) Fetch(accesses ...Access) (*Result, error) {
	res := &Result{
		values:   make([]any, len(accesses)),
		releases: make([]func(), 0, len(accesses)),
	}
	for i, a := range accesses {
		v, release, err := a.resolve(s, false)
		if err != nil {
			res.Release()
			return nil, err
		}
		res.values[i] = v
		if release != nil {
			res.releases = append(res.releases, release)
		}
	}
	return res, nil
}

// FetchWait resolves a request with blocking acquisition. Slots are acquired
// in canonical type-identity order rather than declared order, so two callers
// naming the same types in opposite order cannot deadlock; result positions
// still follow the declared order. Declaring two blocking accesses to the
// same type in one request is a caller error and will self-deadlock whenever
// the second cannot share the slot with the first: any pair involving an
// exclusive access, and even two shared accesses on the Mutex flavor, where
// every acquisition is exclusive. Exactly as two nested blocking calls would.
func (s *Storage) FetchWait(accesses ...Access) (*Result, error) {
	order := make([]int, len(accesses))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return typeLess(accesses[order[a]].typ, accesses[order[b]].typ)
	})

	res := &Result{
		values:   make([]any, len(accesses)),
		releases: make([]func(), 0, len(accesses)),
	}
	for _, i := range order {
		v, release, err := accesses[i].resolve(s, true)
		if err != nil {
			res.Release()
			return nil, err
		}
		res.values[i] = v
		if release != nil {
			res.releases = append(res.releases, release)
		}
	}
	return res, nil
}

// typeLess is a strict total order over types, used for deadlock-free
// blocking acquisition. Distinct types may share a canonical key (two unnamed
// composites over same-base-name packages print identically), so ties break
// on type identity: reflect gives out one canonical descriptor per type, and
// its address orders any pair of distinct types.
func typeLess(a, b reflect.Type) bool {
	ka, kb := canonicalKey(a), canonicalKey(b)
	if ka != kb {
		return ka < kb
	}
	return reflect.ValueOf(a).Pointer() < reflect.ValueOf(b).Pointer()
}

// canonicalKey names a type for ordering. Named types sort by their import
// path and name; unnamed types fall back to their printed form.
func canonicalKey(t reflect.Type) string {
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
