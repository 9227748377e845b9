// Package pool
// Author: momentics <momentics@gmail.com>
//
// Bump allocation for hioload-core: many small, short-lived objects that
// all die together (an AST, a parse frame, a per-request scratch arena).
// Removing per-object free enables branchless bump-pointer allocation and
// eliminates fragmentation. BumpPool serves a single fixed block; Dynamic
// grows in geometric chunks when the current block runs dry.
// See bump.go and dynamic.go for implementation details.
package pool
