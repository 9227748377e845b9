// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package api defines the shared contracts of hioload-core: allocator and
// shutdown interfaces, the cancel-predicate type consumed by the waiting
// primitives, the control surface, and the common error set.
//
// api imports nothing else inside the module, so any package can depend on
// it without cycles.
package api
