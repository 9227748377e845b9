// File: facade/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package facade assembles the hioload-core primitives into ready-made
// composites. TaskLane is the canonical one: queue in, single consumer out,
// scratch arena per item, latch-signalled drain and guard-gated teardown.
package facade
