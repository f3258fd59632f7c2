package printer

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path"

	"github.com/joshuapare/fdtkit/fdt"
)

// jsonNode represents a node in JSON format.
type jsonNode struct {
	Name       string         `json:"name"`
	Path       string         `json:"path,omitempty"`
	Properties []jsonProperty `json:"properties,omitempty"`
	Children   []jsonNode     `json:"children,omitempty"`
}

// jsonProperty represents a property in JSON format.
type jsonProperty struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Len       int    `json:"len"`
	Value     any    `json:"value,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

func (p *Printer) propertyJSON(prop fdt.Property) jsonProperty {
	v := prop.Value()
	k := classify(v)
	out := jsonProperty{Name: prop.Name(), Kind: k.String(), Len: len(v)}
	switch k {
	case kindStrings:
		out.Value = decodeStrings(v)
	case kindCells:
		out.Value = cells(prop)
	case kindBytes:
		shown, cut := clip(v, p.opts.MaxValueBytes)
		out.Value = hex.EncodeToString(shown)
		out.Truncated = cut
	}
	return out
}

func (p *Printer) propertiesJSON(n fdt.Node) ([]jsonProperty, error) {
	var out []jsonProperty
	it := n.Properties()
	for it.Next() {
		out = append(out, p.propertyJSON(it.Property()))
	}
	return out, it.Err()
}

func (p *Printer) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

// printNodeJSON prints a node and its properties in JSON format.
func (p *Printer) printNodeJSON(n fdt.Node, nodePath string) error {
	props, err := p.propertiesJSON(n)
	if err != nil {
		return err
	}
	return p.writeJSON(jsonNode{Name: n.Name(), Path: nodePath, Properties: props})
}

// printPropertyJSON prints a single property in JSON format.
func (p *Printer) printPropertyJSON(prop fdt.Property) error {
	return p.writeJSON(p.propertyJSON(prop))
}

// printTreeJSON builds the nested document with one walk. stack[d] points
// at the open node at depth d. A parent's Children slice only grows after
// every earlier sibling is complete.
func (p *Printer) printTreeJSON(start fdt.Node, startPath string) error {
	var root jsonNode
	var stack []*jsonNode
	var paths []string

	w := start.DescendantsWith(make([]int, 0, p.tree.MaxDepth()))
	for w.Next() {
		depth := w.Depth()
		n := w.Node()
		stack, paths = stack[:depth], paths[:depth]

		var cur *jsonNode
		var curPath string
		if depth == 0 {
			cur, curPath = &root, startPath
		} else {
			parent := stack[depth-1]
			parent.Children = append(parent.Children, jsonNode{})
			cur = &parent.Children[len(parent.Children)-1]
			curPath = path.Join(paths[depth-1], n.Name())
		}
		cur.Name, cur.Path = n.Name(), curPath
		if p.opts.ShowProperties {
			props, err := p.propertiesJSON(n)
			if err != nil {
				return err
			}
			cur.Properties = props
		}
		stack, paths = append(stack, cur), append(paths, curPath)

		if p.opts.MaxDepth > 0 && depth+1 >= p.opts.MaxDepth {
			w.SkipChildren()
		}
	}
	if err := w.Err(); err != nil {
		return err
	}
	return p.writeJSON(root)
}
