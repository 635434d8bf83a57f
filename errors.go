package hmat

import (
	"errors"
	"fmt"
)

// Every sentinel is prefixed with "hmat:". Match them with errors.Is; call
// sites add context with fmt.Errorf("...: %w", ErrX).
var (
	// ErrRowNotFound is returned when a requested element type has no row in
	// the matrix, view, column or writer it was resolved against.
	ErrRowNotFound = errors.New("hmat: row not found")

	// ErrDuplicateRow is returned when a construction would make one element
	// type occur twice in the same stack.
	ErrDuplicateRow = errors.New("hmat: duplicate row type")

	// ErrEmptyView is returned when a view is requested without any row.
	ErrEmptyView = errors.New("hmat: view needs at least one row")

	// ErrShapeMismatch is returned when two stacks (matrix and column, two
	// writers, matrix and encoded payload) do not line up.
	ErrShapeMismatch = errors.New("hmat: shape mismatch")

	// ErrInvalidIndex is returned for a negative column index on a staged write.
	ErrInvalidIndex = errors.New("hmat: invalid column index")

	// ErrWriterConsumed is returned when a writer is used after Apply or Merge.
	ErrWriterConsumed = errors.New("hmat: writer already consumed")

	// ErrNilFunc is returned when UpdateCol is given a nil mutator.
	ErrNilFunc = errors.New("hmat: nil update function")

	// ErrNilMatrix is returned when a nil matrix, view or writer is passed in.
	ErrNilMatrix = errors.New("hmat: nil receiver")

	// ErrInvalidEncoding is returned when an encoded matrix cannot be decoded.
	ErrInvalidEncoding = errors.New("hmat: invalid encoding")
)

// RowNotFoundError names the element type that could not be resolved.
//
// It matches ErrRowNotFound via errors.Is.
type RowNotFoundError struct {
	Key Key
}

func (e *RowNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRowNotFound.Error(), e.Key)
}

func (e *RowNotFoundError) Unwrap() error { return ErrRowNotFound }

// DuplicateRowError names the element type that occurs twice.
//
// It matches ErrDuplicateRow via errors.Is.
type DuplicateRowError struct {
	Key Key
}

func (e *DuplicateRowError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateRow.Error(), e.Key)
}

func (e *DuplicateRowError) Unwrap() error { return ErrDuplicateRow }
