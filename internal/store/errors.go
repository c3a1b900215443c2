package store

import "errors"

// ErrNotFound is returned by point reads when no matching record
// exists. All other store errors indicate the store was unavailable
// for that operation and are safe to retry on a later cycle.
var ErrNotFound = errors.New("record not found")
