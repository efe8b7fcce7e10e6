package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateName is returned when inserting a member whose name is
// already taken.
var ErrDuplicateName = errors.New("name already exists")
