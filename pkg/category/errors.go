package category

import "errors"

var (
	// ErrNotFound is returned when a referenced parent category does not
	// exist or is not owned by the caller.
	ErrNotFound = errors.New("category not found")

	// ErrInvalidHierarchy is returned when a new category would nest deeper
	// than two levels.
	ErrInvalidHierarchy = errors.New("only two category levels allowed")

	// ErrTypeMismatch is returned when a subcategory's type differs from its
	// parent's type.
	ErrTypeMismatch = errors.New("subcategory type must match parent type")
)
