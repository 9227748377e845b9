// File: core/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package concurrency provides the blocking building blocks of hioload-core:
// WorkQueue, a thread-safe FIFO with cancellable and timed waits;
// CloseGuard, a read/write lifetime gate for async-safe teardown; and
// CountingLatch, a counted notification primitive with edge and level
// semantics.
//
// The primitives are independent leaves. They never call each other at
// runtime; client code composes them (see the facade package for the
// canonical assembly). All blocking is OS-thread style: operations park the
// calling goroutine, they are not coroutine-aware suspensions.
package concurrency
