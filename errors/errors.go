/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"reflect"
)

// Common sentinel errors
var (
	// ErrAccessConflict is returned when a slot's lock or borrow cannot be
	// granted without violating the aliasing rules of its discipline
	ErrAccessConflict = errors.New("storage access conflict")

	// ErrUnallocated is returned when an operation targets a type that was
	// never allocated in the storage
	ErrUnallocated = errors.New("no storage allocated for type")

	// ErrKindMismatch is returned when an erased value's runtime type does
	// not match the slot it was routed to; this indicates an engine bug
	ErrKindMismatch = errors.New("value kind does not match slot type")

	// ErrNotOne is returned when a single-value accessor runs against a slot
	// that does not hold exactly one value
	ErrNotOne = errors.New("storage does not hold exactly one value")

	// ErrNotMany is returned when a multi-value accessor runs against a slot
	// that does not hold two or more values
	ErrNotMany = errors.New("storage does not hold multiple values")

	// ErrEmpty is the compact combination of ErrNotOne and ErrNotMany: the
	// slot holds no values at all
	ErrEmpty = errors.New("storage is empty")

	// ErrOutOfBounds is returned when an index lies outside the stored values
	ErrOutOfBounds = errors.New("index out of bounds")
)

// ConflictError reports a denied acquisition on the slot for a given type
type ConflictError struct {
	Type reflect.Type
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("access conflict on storage for %v", e.Type)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrAccessConflict
}

// UnallocatedError reports an operation on a never-allocated type
type UnallocatedError struct {
	Type reflect.Type
}

func (e *UnallocatedError) Error() string {
	return fmt.Sprintf("no storage allocated for %v", e.Type)
}

func (e *UnallocatedError) Is(target error) bool {
	return target == ErrUnallocated
}

// KindMismatchError reports an erased value whose runtime type matches
// neither the slot's element type nor a slice of it
type KindMismatchError struct {
	Slot  reflect.Type
	Value reflect.Type
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("value of type %v does not match storage for %v", e.Value, e.Slot)
}

func (e *KindMismatchError) Is(target error) bool {
	return target == ErrKindMismatch
}

// OutOfBoundsError reports an index outside the stored values
type OutOfBoundsError struct {
	Index int
	Len   int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds for %d stored values", e.Index, e.Len)
}

func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// CombinedError preserves both causes when two interpretations of a request
// were tried in sequence and both failed
type CombinedError struct {
	First  error
	Second error
}

func (e *CombinedError) Error() string {
	return fmt.Sprintf("%v; %v", e.First, e.Second)
}

func (e *CombinedError) Unwrap() []error {
	return []error{e.First, e.Second}
}

// Combine merges two stacked failures. The pair {ErrNotMany, ErrNotOne}, in
// either order, collapses into the compact ErrEmpty; any other pair is kept
// whole in a CombinedError.
func Combine(first, second error) error {
	if (errors.Is(first, ErrNotMany) && errors.Is(second, ErrNotOne)) ||
		(errors.Is(first, ErrNotOne) && errors.Is(second, ErrNotMany)) {
		return ErrEmpty
	}
	return &CombinedError{First: first, Second: second}
}

// Helper functions for creating errors

// NewConflictError creates a new ConflictError
func NewConflictError(t reflect.Type) error {
	return &ConflictError{Type: t}
}

// NewUnallocatedError creates a new UnallocatedError
func NewUnallocatedError(t reflect.Type) error {
	return &UnallocatedError{Type: t}
}

// NewKindMismatchError creates a new KindMismatchError
func NewKindMismatchError(slot, value reflect.Type) error {
	return &KindMismatchError{Slot: slot, Value: value}
}

// NewOutOfBoundsError creates a new OutOfBoundsError
func NewOutOfBoundsError(index, length int) error {
	return &OutOfBoundsError{Index: index, Len: length}
}

// IsAccessConflict checks if an error is an access conflict
func IsAccessConflict(err error) bool {
	return errors.Is(err, ErrAccessConflict)
}

// IsUnallocated checks if an error is an unallocated-type error
func IsUnallocated(err error) bool {
	return errors.Is(err, ErrUnallocated)
}

// IsKindMismatch checks if an error is a kind mismatch
func IsKindMismatch(err error) bool {
	return errors.Is(err, ErrKindMismatch)
}

// IsShapeError checks if an error describes a One/Many/bounds shape failure
func IsShapeError(err error) bool {
	return errors.Is(err, ErrNotOne) || errors.Is(err, ErrNotMany) ||
		errors.Is(err, ErrEmpty) || errors.Is(err, ErrOutOfBounds)
}
