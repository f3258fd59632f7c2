// Package index speeds up repeated lookups on a tree: an LRU cache in front
// of path resolution and a phandle map built on first use.
//
// Entries store structure-block offsets, not nodes, and are turned back into
// nodes with Tree.NodeAt. An Index is safe for concurrent use.
//
//	idx, _ := index.New(tree, 0)
//	uart, err := idx.Lookup("/soc/serial@10000000")
//	intc, err := idx.ByPhandle(1)
package index

import (
	"errors"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"github.com/joshuapare/fdtkit/fdt"
	"github.com/joshuapare/fdtkit/pkg/types"
)

// DefaultCacheSize is the path cache size used when New gets a size <= 0.
const DefaultCacheSize = 256

// Phandle values that never name a node.
const (
	phandleNone    = 0
	phandleInvalid = 0xFFFFFFFF
)

// Index caches path and phandle lookups for one tree.
type Index struct {
	tree  *fdt.Tree
	paths *lru.Cache // path -> node offset

	phOnce   sync.Once
	phandles map[uint32]int
	phErr    error
	phCount  atomic.Int64
}

// Stats describes the index contents.
type Stats struct {
	CachedPaths int
	Phandles    int // 0 until the phandle map is built
}

// New creates an index over tree with room for cacheSize paths.
func New(tree *fdt.Tree, cacheSize int) (*Index, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Index{tree: tree, paths: cache}, nil
}

// Lookup resolves path like Tree.FindNode, remembering the result. Misses
// are not cached.
func (x *Index) Lookup(path string) (fdt.Node, error) {
	if v, ok := x.paths.Get(path); ok {
		return x.tree.NodeAt(v.(int))
	}
	n, err := x.tree.FindNode(path)
	if err != nil {
		return fdt.Node{}, err
	}
	x.paths.Add(path, n.Offset())
	return n, nil
}

// Phandles returns the phandle -> node offset map, walking the tree the
// first time it is needed. When two nodes claim the same phandle the first
// in file order wins. The map must not be modified.
func (x *Index) Phandles() (map[uint32]int, error) {
	x.phOnce.Do(func() {
		m := make(map[uint32]int)
		var err error
		w := x.tree.Walk()
		for w.Next() {
			n := w.Node()
			ph, phErr := n.Phandle()
			if phErr != nil {
				if !errors.Is(phErr, types.ErrNotFound) {
					err = phErr
					break
				}
				continue
			}
			if ph == phandleNone || ph == phandleInvalid {
				continue
			}
			if _, dup := m[ph]; !dup {
				m[ph] = n.Offset()
			}
		}
		if err == nil {
			err = w.Err()
		}
		x.phandles, x.phErr = m, err
		x.phCount.Store(int64(len(m)))
	})
	return x.phandles, x.phErr
}

// ByPhandle returns the node carrying phandle ph.
func (x *Index) ByPhandle(ph uint32) (fdt.Node, error) {
	m, err := x.Phandles()
	if err != nil {
		return fdt.Node{}, err
	}
	off, ok := m[ph]
	if !ok {
		return fdt.Node{}, types.ErrNotFound
	}
	return x.tree.NodeAt(off)
}

// Stats returns index statistics.
func (x *Index) Stats() Stats {
	return Stats{
		CachedPaths: x.paths.Len(),
		Phandles:    int(x.phCount.Load()),
	}
}
