//go:build !linux && !darwin

package mmap

import (
	"io"
	"os"
)

// mapFile falls back to reading the file where mmap is unavailable
func mapFile(f *os.File, size int) ([]byte, bool, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, false, err
	}
	return data, false, nil
}

func unmap([]byte) error {
	return nil
}
