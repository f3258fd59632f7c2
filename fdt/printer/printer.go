// Package printer renders device tree nodes as DTS-like text or JSON.
package printer

import (
	"fmt"
	"io"

	"github.com/joshuapare/fdtkit/fdt"
)

const (
	DefaultIndentSize    = 4
	DefaultMaxDepth      = 0
	DefaultMaxValueBytes = 64
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs DTS-like source text.
	FormatText Format = "text"

	// FormatJSON outputs JSON.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per indent level (text format only).
	// Default: 4
	IndentSize int

	// MaxDepth limits how many levels PrintTree descends (0 = unlimited).
	// A value of 1 prints only the starting node.
	// Default: 0 (unlimited)
	MaxDepth int

	// ShowProperties includes properties in tree output.
	// Default: true
	ShowProperties bool

	// MaxValueBytes limits how many bytes of byte-string values to display.
	// Longer values are truncated. Set to 0 for no limit.
	// Default: 64
	MaxValueBytes int
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:         FormatText,
		IndentSize:     DefaultIndentSize,
		MaxDepth:       DefaultMaxDepth,
		ShowProperties: true,
		MaxValueBytes:  DefaultMaxValueBytes,
	}
}

// Printer writes formatted views of a tree.
type Printer struct {
	opts   Options
	writer io.Writer
	tree   *fdt.Tree
}

// New creates a new Printer.
//
// Example:
//
//	tree, _ := fdt.Open("board.dtb")
//	p := printer.New(tree, os.Stdout, printer.DefaultOptions())
//	p.PrintTree("/cpus")
func New(tree *fdt.Tree, w io.Writer, opts Options) *Printer {
	return &Printer{
		tree:   tree,
		writer: w,
		opts:   opts,
	}
}

// PrintNode prints a node and its properties, without children.
func (p *Printer) PrintNode(path string) error {
	node, err := p.tree.FindNode(path)
	if err != nil {
		return fmt.Errorf("find node %q: %w", path, err)
	}
	switch p.opts.Format {
	case FormatJSON:
		return p.printNodeJSON(node, path)
	default:
		return p.printNodeText(node)
	}
}

// PrintProperty prints a single property of the node at path.
func (p *Printer) PrintProperty(path, name string) error {
	node, err := p.tree.FindNode(path)
	if err != nil {
		return fmt.Errorf("find node %q: %w", path, err)
	}
	prop, err := node.Property(name)
	if err != nil {
		return fmt.Errorf("get property %q: %w", name, err)
	}
	switch p.opts.Format {
	case FormatJSON:
		return p.printPropertyJSON(prop)
	default:
		return p.printPropertyText(prop, 0)
	}
}

// PrintTree prints the subtree rooted at path. Printing the root in text
// format also emits the /dts-v1/ tag and the memory reservations.
func (p *Printer) PrintTree(path string) error {
	node, err := p.tree.FindNode(path)
	if err != nil {
		return fmt.Errorf("find node %q: %w", path, err)
	}
	switch p.opts.Format {
	case FormatJSON:
		return p.printTreeJSON(node, path)
	default:
		return p.printTreeText(node)
	}
}
