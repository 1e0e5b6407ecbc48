package entities

import "errors"

// ErrNotFound indicates that no book matches the requested ISBN, either in the
// catalog or at the external lookup service.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists indicates a book with the same ISBN is already cataloged.
var ErrAlreadyExists = errors.New("already exists")

// ErrInvalidState indicates a borrow of a borrowed book or a return of an
// available one.
var ErrInvalidState = errors.New("invalid state")

// ErrValidation indicates malformed input at the boundary.
var ErrValidation = errors.New("validation failed")
