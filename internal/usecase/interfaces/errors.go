package interfaces

import "errors"

// ErrConditionFailed is returned by repositories when a conditional write
// loses: the row changed since it was read, or a guard no longer holds.
var ErrConditionFailed = errors.New("conditional write failed")
