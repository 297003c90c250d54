package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrProtected is returned when a delete is blocked by rows that still reference the record.
	ErrProtected = errors.New("record is referenced by protected rows")
	// ErrInvalidReference is returned when a write points a foreign key at a missing row.
	ErrInvalidReference = errors.New("referenced record does not exist")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrAmbiguousMatch matches every *AmbiguousMatchError.
	ErrAmbiguousMatch = errors.New("ambiguous match")
)

var (
	ErrRecursiveCategory = &ValidationError{
		Field:   "parent",
		Message: "You cannot create recursive categories.",
	}
	ErrUnknownParent = &ValidationError{
		Field:   "parent",
		Message: "Select a valid choice. That choice is not one of the available choices.",
	}
	ErrInvalidAttributeValues = &ValidationError{
		Field:   "values",
		Message: "You cannot use this attribute with the following value.",
	}
	ErrValueInUse = &ValidationError{
		Field:   "attribute",
		Message: "This value is used by product attribute lines and cannot move to another attribute.",
	}
)

// ValidationError is a user-correctable rejection of a model write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// AmbiguousMatchError reports a name lookup that matched more than one publisher.
type AmbiguousMatchError struct {
	Fragment   string
	Candidates []Publisher
}

func (e *AmbiguousMatchError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, p := range e.Candidates {
		names[i] = p.Name
	}
	return fmt.Sprintf("%q matches %d publishers: %s", e.Fragment, len(e.Candidates), strings.Join(names, ", "))
}

func (e *AmbiguousMatchError) Is(target error) bool {
	return target == ErrAmbiguousMatch
}
