/*
Package fdt decodes flattened device tree blobs (DTB) in place.

A Tree borrows the caller's byte slice. Nodes, properties and iterators are
small values that point back into that slice: nothing is copied and the
success path does not allocate. Every read is bounds-checked against the
blob's validated length, so malformed input yields a typed error instead of
a panic or an out-of-range read.

# Quick Start

	tree, err := fdt.New(blob)
	if err != nil {
	    return err // errors.Is(err, types.ErrInvalidMagic), ...
	}
	root := tree.Root()
	if p, err := root.Property("model"); err == nil {
	    model, _ := p.AsString()
	    fmt.Println(model)
	}

# Iteration

Iterators follow the Next/Err pattern. Err distinguishes a decode failure
from the ordinary end of the sequence:

	it := root.Children()
	for it.Next() {
	    fmt.Println(it.Node().Name())
	}
	if err := it.Err(); err != nil {
	    return err
	}

Walk visits every node of the tree once, parents before children, children
in file order, using an explicit per-depth stack instead of recursion:

	w := tree.Walk()
	for w.Next() {
	    fmt.Printf("%*s%s\n", 2*w.Depth(), "", w.Node().Name())
	}

# Lifetime

Strings returned by Name and AsString alias the blob. They, and every Node
and Property, are valid only while the blob's memory stays mapped and
unmodified. For trees returned by Open this means until Close.
*/
package fdt
