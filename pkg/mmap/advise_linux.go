//go:build linux

package mmap

import "syscall"

// adviseSequential hints the kernel to read ahead. Failure is harmless.
func adviseSequential(b []byte) {
	_ = syscall.Madvise(b, syscall.MADV_SEQUENTIAL)
}
