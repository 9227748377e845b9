//go:build linux

// Package pool
// Author: momentics <momentics@gmail.com>
//
// Linux block reservation: anonymous private mmap, returned to the OS at
// pool close. Keeps large scratch arenas out of the Go heap and away from
// the garbage collector.

package pool

import "golang.org/x/sys/unix"

// reserveBlock obtains size bytes of backing memory. The second return is
// the release function for Close; nil means the block belongs to the heap.
func reserveBlock(size int) ([]byte, func([]byte) error) {
	buf, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return make([]byte, size), nil
	}
	return buf, unix.Munmap
}
