package ledger

import "errors"

var (
	// ErrNotFound is returned when a transaction (or the category it posts
	// against) does not exist or is not owned by the caller.
	ErrNotFound = errors.New("transaction not found")

	// ErrCategoryNotFound is returned when the category a transaction posts
	// against does not exist or is not owned by the caller.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrTypeMismatch is returned when the category type differs from the
	// transaction type.
	ErrTypeMismatch = errors.New("category type does not match transaction type")

	// ErrLeafRequired is returned when posting against a category that has
	// children; only leaf categories accept transactions.
	ErrLeafRequired = errors.New("transactions must use a subcategory (leaf only)")

	// ErrInvalidAccount is returned when an account reference required by the
	// transaction type is missing or not owned by the caller.
	ErrInvalidAccount = errors.New("invalid account")
)
