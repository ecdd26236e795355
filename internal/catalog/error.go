package catalog

import "errors"

// ErrNotFound is returned by storage lookups for unknown hotel or room ids.
var ErrNotFound = errors.New("catalog entity not found")
