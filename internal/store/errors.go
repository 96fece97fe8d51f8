package store

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a write would violate a uniqueness rule.
	ErrDuplicate = errors.New("store: duplicate record")
	// ErrConstraintViolation is returned when a write violates a check constraint.
	ErrConstraintViolation = errors.New("store: constraint violation")
	// ErrForeignKeyViolation is returned when a write references a missing record.
	ErrForeignKeyViolation = errors.New("store: foreign key violation")
)
