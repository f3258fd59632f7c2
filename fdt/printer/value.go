package printer

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/fdtkit/fdt"
)

// valueKind is how a property value is best displayed.
type valueKind int

const (
	kindEmpty valueKind = iota
	kindStrings
	kindCells
	kindBytes
)

func (k valueKind) String() string {
	switch k {
	case kindEmpty:
		return "empty"
	case kindStrings:
		return "strings"
	case kindCells:
		return "cells"
	default:
		return "bytes"
	}
}

// classify guesses the display form of a value the way dtc does when
// decompiling: printable NUL-terminated runs are strings, whole cells are
// cells, anything else is bytes.
func classify(v []byte) valueKind {
	switch {
	case len(v) == 0:
		return kindEmpty
	case isStringList(v):
		return kindStrings
	case len(v)%4 == 0:
		return kindCells
	default:
		return kindBytes
	}
}

func isStringList(v []byte) bool {
	if v[len(v)-1] != 0 || v[0] == 0 {
		return false
	}
	for _, s := range bytes.Split(v[:len(v)-1], []byte{0}) {
		if len(s) == 0 {
			return false
		}
		for _, c := range s {
			if c < 0x20 && c != '\t' && c != '\n' {
				return false
			}
		}
	}
	return true
}

// decodeStrings splits a string-list value. Entries that are not UTF-8 are
// read as Latin-1, which maps every byte.
func decodeStrings(v []byte) []string {
	parts := bytes.Split(v[:len(v)-1], []byte{0})
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		out = append(out, decodeText(s))
	}
	return out
}

func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte("�")))
	}
	return string(decoded)
}

func cells(p fdt.Property) []uint32 {
	n, _ := p.NumCells()
	out := make([]uint32, 0, n)
	for i := range n {
		c, _ := p.Cell(i)
		out = append(out, c)
	}
	return out
}

// clip returns at most limit bytes of v (limit 0 = all) and whether it cut.
func clip(v []byte, limit int) ([]byte, bool) {
	if limit <= 0 || len(v) <= limit {
		return v, false
	}
	return v[:limit], true
}
