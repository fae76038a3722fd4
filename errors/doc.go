/*
Package errors provides semantic error types for the typestore library.

The package defines the failure taxonomy of the storage engine with specific
types that can be checked using the standard errors.Is() function or the
provided helper functions.

Common Errors:

	var (
	    ErrAccessConflict = errors.New("storage access conflict")
	    ErrUnallocated    = errors.New("no storage allocated for type")
	    ErrKindMismatch   = errors.New("value kind does not match slot type")
	    ErrNotOne         = errors.New("storage does not hold exactly one value")
	    ErrNotMany        = errors.New("storage does not hold multiple values")
	    ErrEmpty          = errors.New("storage is empty")
	    ErrOutOfBounds    = errors.New("index out of bounds")
	)

Usage:

	// Check error type
	ref, err := typestore.GetOne[User](store)
	if err != nil {
	    if errors.IsAccessConflict(err) {
	        // Another guard is holding the slot; retry or back off
	    }
	    return err
	}

	// Create typed errors
	err := errors.NewUnallocatedError(reflect.TypeOf(User{}))
	err := errors.NewOutOfBoundsError(4, 2)

When two interpretations of a request are tried in sequence and both fail,
Combine folds the pair into a single error: exactly {ErrNotMany, ErrNotOne}
collapses into the compact ErrEmpty, any other pair is preserved whole in a
CombinedError whose Unwrap exposes both causes.

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
