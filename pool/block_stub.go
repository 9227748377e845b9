//go:build !linux

// Package pool
// Author: momentics <momentics@gmail.com>
//
// Fallback block reservation for platforms without the mmap path.

package pool

func reserveBlock(size int) ([]byte, func([]byte) error) {
	return make([]byte, size), nil
}
