//go:build !unix

// Package mmfile maps device tree blobs into memory for read-only decoding.
package mmfile

import "os"

// Map reads the entire file when mmap is not available. The release
// function is a no-op.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
