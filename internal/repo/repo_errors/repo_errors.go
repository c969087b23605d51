package repo_errors

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrVersionMismatch indicates a compare-and-swap save lost to a
	// concurrent writer: the stored version was no longer the one the
	// entity was loaded at.
	ErrVersionMismatch = errors.New("stored version does not match")
)
