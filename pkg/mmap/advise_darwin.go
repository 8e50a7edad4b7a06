//go:build darwin

package mmap

func adviseSequential([]byte) {}
