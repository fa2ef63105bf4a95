package memoryengine

import "errors"

// ErrUnsupportedPredicate is returned when a predicate node or comparison operator cannot be evaluated.
var ErrUnsupportedPredicate = errors.New("predicate cannot be evaluated")
