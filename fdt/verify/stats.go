package verify

import "github.com/joshuapare/fdtkit/fdt"

// TreeStats summarizes a decoded tree.
type TreeStats struct {
	Nodes      int
	Properties int
	ValueBytes int // sum of property value lengths
	MaxDepth   int // root is depth 0
	Reserved   int // reservation entries
}

// Stats walks the whole tree once and counts what it sees.
func Stats(tree *fdt.Tree) (TreeStats, error) {
	var st TreeStats
	rsv := tree.Reservations()
	for rsv.Next() {
		st.Reserved++
	}
	w := tree.Walk()
	for w.Next() {
		st.Nodes++
		st.MaxDepth = max(st.MaxDepth, w.Depth())
		props := w.Node().Properties()
		for props.Next() {
			st.Properties++
			st.ValueBytes += props.Property().Len()
		}
		if err := props.Err(); err != nil {
			return st, err
		}
	}
	return st, w.Err()
}
