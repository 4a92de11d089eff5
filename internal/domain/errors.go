package domain

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrStoreUnavailable is returned when the primary store cannot be reached
// (no connection pool, network failure). Callers fall back or degrade
// instead of surfacing it to the user.
var ErrStoreUnavailable = errors.New("primary store unavailable")
