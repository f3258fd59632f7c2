package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteBlob writes data to a file in a per-test temporary directory and
// returns its path.
//
// Example:
//
//	path := testutil.WriteBlob(t, fdtbuild.Empty())
//	tree, err := fdt.Open(path)
func WriteBlob(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.dtb")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write blob: %v", err)
	}
	return path
}
