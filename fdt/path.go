package fdt

import (
	"strings"

	"github.com/joshuapare/fdtkit/pkg/types"
)

// FindNode resolves a node path. An absolute path such as "/cpus/cpu@0" is
// followed from the root; a relative one starts with an alias name looked
// up in /aliases, so "serial0/child" works when serial0 is defined there.
//
// A component without '@' also matches a child whose unit name equals it,
// which lets "/memory" find "memory@80000000". The first match in file
// order wins. Repeated slashes are ignored.
func (t *Tree) FindNode(path string) (Node, error) {
	if path == "" {
		return Node{}, types.ErrNotFound
	}
	if path[0] != '/' {
		alias, rest, _ := strings.Cut(path, "/")
		base, err := t.resolveAlias(alias)
		if err != nil {
			return Node{}, err
		}
		n, err := t.FindNode(base)
		if err != nil {
			return Node{}, err
		}
		return n.find(rest)
	}
	return t.root.find(path)
}

// find follows a '/'-separated path below n.
func (n Node) find(path string) (Node, error) {
	cur := n
	for path != "" {
		var comp string
		comp, path, _ = strings.Cut(path, "/")
		if comp == "" {
			continue
		}
		next, err := cur.findChild(comp)
		if err != nil {
			return Node{}, err
		}
		cur = next
	}
	return cur, nil
}

func (n Node) findChild(comp string) (Node, error) {
	unit := strings.IndexByte(comp, '@') < 0
	it := n.Children()
	for it.Next() {
		c := it.Node()
		if c.name == comp || (unit && c.UnitName() == comp) {
			return c, nil
		}
	}
	if err := it.Err(); err != nil {
		return Node{}, err
	}
	return Node{}, types.ErrNotFound
}

// resolveAlias returns the absolute path stored under name in /aliases.
func (t *Tree) resolveAlias(name string) (string, error) {
	aliases, err := t.root.findChild("aliases")
	if err != nil {
		return "", err
	}
	p, err := aliases.Property(name)
	if err != nil {
		return "", err
	}
	s, ok := p.AsString()
	if !ok || s == "" || s[0] != '/' {
		return "", types.ErrNotFound
	}
	return s, nil
}
