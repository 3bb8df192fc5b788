package domain

import "errors"

// ErrNotFound indicates a requested entity does not exist in the repository.
var ErrNotFound = errors.New("domain: not found")
