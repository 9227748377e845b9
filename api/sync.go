// File: api/sync.go
// Package api defines the cancel-predicate contract for waiting primitives.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// CancelFunc is a caller-supplied cancellation predicate evaluated by the
// blocking operations of WorkQueue and friends. It is called at least once
// at entry and again at every wake point, spurious or otherwise.
//
// Contract: must be callable repeatedly, return promptly, stay side-effect
// free, and never acquire locks owned by the primitive it cancels. A nil
// CancelFunc means "never cancel".
type CancelFunc func() bool
