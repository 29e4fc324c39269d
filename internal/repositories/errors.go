package repositories

import "errors"

// Sentinel errors surfaced by every repository implementation so the
// service layer can react without knowing the backing store.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey indicates a uniqueness constraint was violated at
	// write time. A pre-existence check is never authoritative; this
	// signal is.
	ErrDuplicateKey = errors.New("duplicate key")
)
