// Package verify checks device tree blobs against the structural rules of
// the flattened format and reports every problem it finds.
//
// The decoder in package fdt is lazy: it validates the header and the root
// node up front and everything else only as it is visited. verify is the
// eager counterpart for host tooling and tests. It reads the whole blob and
// keeps going after the first problem, so a single call describes
// everything that is wrong:
//
//	if err := verify.Blob(data); err != nil {
//	    for _, e := range multierr.Errors(err) {
//	        fmt.Println(e) // *verify.ValidationError
//	    }
//	}
//
// Checks performed:
//   - Header: size, magic, total size, version fields
//   - Blocks: alignment (structure 4, reservation map 8), bounds, overlap
//   - ReservationMap: zero/zero terminator inside the block
//   - Structure: balanced nodes, properties before children, resolvable
//     property names, END token after the root, nothing after END
//
// Binding semantics ("compatible" values, reg widths against parents) are
// not checked.
package verify
