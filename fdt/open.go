package fdt

import (
	"fmt"

	"github.com/joshuapare/fdtkit/internal/mmfile"
)

// Open maps the blob at path read-only and decodes it. The returned tree
// borrows the mapping; call Close to release it.
func Open(path string, opts ...Option) (*Tree, error) {
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("open dtb: %w", err)
	}
	t, err := New(data, opts...)
	if err != nil {
		if unmap != nil {
			_ = unmap()
		}
		return nil, err
	}
	t.unmap = unmap
	return t, nil
}
