package database

import "errors"

// Domain errors raised by the repository layer. Handlers translate these to
// HTTP statuses; anything else is treated as an internal failure.
var (
	// ErrNotFound indicates the requested or referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a unique-constraint violation such as a
	// duplicate slug, username or email.
	ErrConflict = errors.New("already exists")

	// ErrInUse indicates a deletion blocked by a foreign reference, e.g. a
	// category or author that still has books.
	ErrInUse = errors.New("in use")

	// ErrLastAdmin blocks deleting or demoting the sole remaining admin.
	ErrLastAdmin = errors.New("cannot remove the last administrator")

	// ErrSelfDelete blocks an admin deleting their own account.
	ErrSelfDelete = errors.New("cannot delete own account")
)
