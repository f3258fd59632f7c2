package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/fdtkit/fdt"
)

func nodeLabel(n fdt.Node) string {
	if n.Name() == "" {
		return "/"
	}
	return n.Name()
}

func (p *Printer) indent(depth int) string {
	return strings.Repeat(" ", depth*p.opts.IndentSize)
}

// printNodeText prints a node header, its properties and a closing brace.
func (p *Printer) printNodeText(n fdt.Node) error {
	fmt.Fprintf(p.writer, "%s {\n", nodeLabel(n))
	if err := p.printPropertiesText(n, 1); err != nil {
		return err
	}
	fmt.Fprintln(p.writer, "};")
	return nil
}

func (p *Printer) printPropertiesText(n fdt.Node, depth int) error {
	it := n.Properties()
	for it.Next() {
		if err := p.printPropertyText(it.Property(), depth); err != nil {
			return err
		}
	}
	return it.Err()
}

// printPropertyText prints one "name = value;" line.
func (p *Printer) printPropertyText(prop fdt.Property, depth int) error {
	indent := p.indent(depth)
	if prop.IsEmpty() {
		_, err := fmt.Fprintf(p.writer, "%s%s;\n", indent, prop.Name())
		return err
	}
	text, cut := FormatValue(prop, p.opts.MaxValueBytes)
	suffix := ""
	if cut {
		suffix = fmt.Sprintf(" /* truncated, %d total bytes */", prop.Len())
	}
	_, err := fmt.Fprintf(p.writer, "%s%s = %s;%s\n", indent, prop.Name(), text, suffix)
	return err
}

// FormatValue renders a property value in DTS syntax: a quoted string list,
// a <cell list> or a [byte string]. Byte strings longer than maxBytes are
// clipped (0 = no limit) and truncated reports it. Empty values render as "".
func FormatValue(prop fdt.Property, maxBytes int) (text string, truncated bool) {
	v := prop.Value()
	switch classify(v) {
	case kindEmpty:
		return "", false
	case kindStrings:
		quoted := make([]string, 0, 4)
		for _, s := range decodeStrings(v) {
			quoted = append(quoted, strconv.Quote(s))
		}
		return strings.Join(quoted, ", "), false
	case kindCells:
		var sb strings.Builder
		sb.WriteByte('<')
		for i, c := range cells(prop) {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "0x%x", c)
		}
		sb.WriteByte('>')
		return sb.String(), false
	default:
		shown, cut := clip(v, maxBytes)
		return fmt.Sprintf("[% x]", shown), cut
	}
}

// printTreeText prints a subtree with a single pre-order walk, closing
// braces whenever the walk climbs back up.
func (p *Printer) printTreeText(start fdt.Node) error {
	if start.Name() == "" {
		fmt.Fprint(p.writer, "/dts-v1/;\n\n")
		rsv := p.tree.Reservations()
		for rsv.Next() {
			r := rsv.Reservation()
			fmt.Fprintf(p.writer, "/memreserve/ 0x%x 0x%x;\n", r.Address, r.Size)
		}
		if rsv.Index() >= 0 {
			fmt.Fprintln(p.writer)
		}
	}

	open := 0
	w := start.DescendantsWith(make([]int, 0, p.tree.MaxDepth()))
	for w.Next() {
		depth := w.Depth()
		for ; open > depth; open-- {
			fmt.Fprintf(p.writer, "%s};\n", p.indent(open-1))
		}
		n := w.Node()
		if depth > 0 {
			fmt.Fprintln(p.writer)
		}
		fmt.Fprintf(p.writer, "%s%s {\n", p.indent(depth), nodeLabel(n))
		open = depth + 1
		if p.opts.ShowProperties {
			if err := p.printPropertiesText(n, depth+1); err != nil {
				return err
			}
		}
		if p.opts.MaxDepth > 0 && depth+1 >= p.opts.MaxDepth {
			w.SkipChildren()
		}
	}
	if err := w.Err(); err != nil {
		return err
	}
	for ; open > 0; open-- {
		fmt.Fprintf(p.writer, "%s};\n", p.indent(open-1))
	}
	return nil
}
