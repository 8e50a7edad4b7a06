// Package mmap maps input files read-only into memory so uncompressed text
// can be sniffed and parsed without copying it onto the heap
package mmap

import (
	"os"

	"github.com/ajitpratap0/statimport/pkg/errors"
)

// File is a read-only view of a file's contents. Bytes is valid until Close.
type File struct {
	file   *os.File
	data   []byte
	mapped bool
}

// Open maps the file at path. Files larger than limit are rejected before
// anything is mapped; a limit <= 0 disables the check. Empty files are not
// mapped and yield an empty view.
func Open(path string, limit int64) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open file").
			WithDetail("path", path)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to stat file").
			WithDetail("path", path)
	}
	size := stat.Size()
	if limit > 0 && size > limit {
		_ = f.Close()
		return nil, errors.Newf(errors.ErrorTypeFile, "input exceeds %d bytes", limit).
			WithDetail("path", path).
			WithDetail("limit", limit)
	}
	if size == 0 {
		return &File{file: f}, nil
	}

	data, mapped, err := mapFile(f, int(size))
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to mmap file").
			WithDetail("path", path)
	}
	return &File{file: f, data: data, mapped: mapped}, nil
}

// Bytes returns the file contents
func (m *File) Bytes() []byte {
	return m.data
}

// Len returns the size of the view in bytes
func (m *File) Len() int {
	return len(m.data)
}

// Mapped reports whether the view is backed by a memory mapping rather than
// a heap copy
func (m *File) Mapped() bool {
	return m.mapped
}

// Close unmaps the view and closes the file. It is safe to call more than once.
func (m *File) Close() error {
	var unmapErr error
	if m.mapped && m.data != nil {
		unmapErr = unmap(m.data)
	}
	m.data = nil
	m.mapped = false

	if m.file == nil {
		return unmapErr
	}
	closeErr := m.file.Close()
	m.file = nil
	if unmapErr != nil {
		return errors.Wrap(unmapErr, errors.ErrorTypeFile, "failed to unmap file")
	}
	if closeErr != nil {
		return errors.Wrap(closeErr, errors.ErrorTypeFile, "failed to close file")
	}
	return nil
}
