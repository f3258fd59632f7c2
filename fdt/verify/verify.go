package verify

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/joshuapare/fdtkit/fdt"
	"github.com/joshuapare/fdtkit/internal/buf"
	"github.com/joshuapare/fdtkit/internal/format"
	"github.com/joshuapare/fdtkit/pkg/types"
)

// ValidationError describes one problem. Offset is a byte offset into the
// blob, or -1 when no single position applies.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func problem(typ string, off int, msg string, args ...any) *ValidationError {
	return &ValidationError{Type: typ, Message: fmt.Sprintf(msg, args...), Offset: off}
}

// decodeProblem reports a decoder failure at the offset it was found.
func decodeProblem(typ string, err error) *ValidationError {
	off := -1
	var de *format.DecodeError
	if errors.As(err, &de) {
		off = de.Offset
	}
	return problem(typ, off, "%v", err)
}

// Blob runs every check and returns all problems combined with multierr, or
// nil. Later checks are skipped when the header is too broken to locate the
// blocks.
func Blob(data []byte) error {
	err := Header(data)
	if _, decErr := format.Decode(data); decErr != nil {
		if err == nil {
			err = decodeProblem("Header", decErr)
		}
		return err
	}
	err = multierr.Append(err, Blocks(data))
	err = multierr.Append(err, ReservationMap(data))
	err = multierr.Append(err, Structure(data))
	return err
}

// Header checks the fixed header fields.
func Header(data []byte) error {
	if len(data) < format.HeaderSize {
		return problem("Header", -1, "blob too small: %d bytes (need %d)", len(data), format.HeaderSize)
	}
	h, err := format.ParseHeader(data)
	if err != nil {
		return decodeProblem("Header", err)
	}
	var errs error
	if uint64(h.TotalSize) > uint64(len(data)) {
		errs = multierr.Append(errs, &ValidationError{
			Type:    "Header",
			Message: fmt.Sprintf("totalsize 0x%X exceeds buffer length 0x%X", h.TotalSize, len(data)),
			Offset:  format.TotalSizeOffset,
			Details: map[string]any{"totalsize": h.TotalSize, "length": len(data)},
		})
	}
	if h.Version < format.LastCompatibleVersion {
		errs = multierr.Append(errs, problem("Header", format.VersionOffset,
			"version %d is older than %d", h.Version, format.LastCompatibleVersion))
	}
	if h.LastCompVersion > format.CurrentVersion {
		errs = multierr.Append(errs, problem("Header", format.LastCompVersionOffset,
			"last_comp_version %d is newer than %d", h.LastCompVersion, format.CurrentVersion))
	}
	if h.LastCompVersion > h.Version {
		errs = multierr.Append(errs, problem("Header", format.LastCompVersionOffset,
			"last_comp_version %d exceeds version %d", h.LastCompVersion, h.Version))
	}
	return errs
}

// Blocks checks block alignment, bounds and overlap.
func Blocks(data []byte) error {
	b, err := format.Decode(data)
	if err != nil {
		return decodeProblem("Blocks", err)
	}
	h := b.Header
	var errs error
	if h.OffDtStruct%format.TokenAlignment != 0 {
		errs = multierr.Append(errs, problem("Blocks", format.OffDtStructOffset,
			"structure block offset 0x%X is not %d-byte aligned", h.OffDtStruct, format.TokenAlignment))
	}
	if h.OffMemRsvmap%format.ReservationAlignment != 0 {
		errs = multierr.Append(errs, problem("Blocks", format.OffMemRsvmapOffset,
			"reservation block offset 0x%X is not %d-byte aligned", h.OffMemRsvmap, format.ReservationAlignment))
	}
	if h.OffMemRsvmap < format.HeaderSize || h.OffDtStruct < format.HeaderSize || h.OffDtStrings < format.HeaderSize {
		errs = multierr.Append(errs, problem("Blocks", -1, "a block starts inside the header"))
	}

	n, terminated := b.RsvMap.Count()
	if terminated {
		n++
	}
	structEnd := uint64(h.OffDtStruct) + uint64(len(b.Struct))
	if h.Version < format.CurrentVersion && h.SizeDtStruct == 0 {
		// Old headers leave the structure size open; it cannot overlap.
		structEnd = uint64(h.OffDtStruct)
	}
	type span struct {
		name       string
		start, end uint64
	}
	spans := []span{
		{"reservation", uint64(h.OffMemRsvmap), uint64(h.OffMemRsvmap) + uint64(n)*format.ReservationSize},
		{"structure", uint64(h.OffDtStruct), structEnd},
		{"strings", uint64(h.OffDtStrings), uint64(h.OffDtStrings) + uint64(len(b.Strings))},
	}
	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			a, c := spans[i], spans[j]
			if a.start < c.end && c.start < a.end && a.end > a.start && c.end > c.start {
				errs = multierr.Append(errs, &ValidationError{
					Type:    "Blocks",
					Message: fmt.Sprintf("%s block overlaps %s block", a.name, c.name),
					Offset:  int(max(a.start, c.start)),
					Details: map[string]any{a.name: [2]uint64{a.start, a.end}, c.name: [2]uint64{c.start, c.end}},
				})
			}
		}
	}
	return errs
}

// ReservationMap checks that the reservation list is terminated inside its
// block.
func ReservationMap(data []byte) error {
	b, err := format.Decode(data)
	if err != nil {
		return decodeProblem("ReservationMap", err)
	}
	n, terminated := b.RsvMap.Count()
	if terminated {
		return nil
	}
	off := int(b.Header.OffMemRsvmap)
	msg := "no zero/zero terminator before the next block"
	// The terminator slot is record n; it either collides with the next
	// block or falls off the end of the blob.
	if _, err := buf.CheckListBounds(len(b.Data), off, n+1, format.ReservationSize); err != nil {
		msg = "no zero/zero terminator before the end of the blob"
	}
	return &ValidationError{
		Type:    "ReservationMap",
		Message: msg,
		Offset:  off,
		Details: map[string]any{"entries": n},
	}
}

// Structure scans the structure block token by token and cross-checks the
// node count against fdt's walker.
func Structure(data []byte) error {
	b, err := format.Decode(data)
	if err != nil {
		return decodeProblem("Structure", err)
	}
	nodes, errs := scan(b, int(b.Header.OffDtStruct))
	if errs != nil {
		return errs
	}

	tree, err := fdt.New(data, fdt.WithMaxDepth(types.MaxDepthLimit))
	if err != nil {
		return problem("Structure", -1, "decoder rejected blob: %v", err)
	}
	walked := 0
	w := tree.Walk()
	for w.Next() {
		walked++
	}
	if err := w.Err(); err != nil {
		return problem("Structure", -1, "walk failed: %v", err)
	}
	if walked != nodes {
		return &ValidationError{
			Type:    "Structure",
			Message: fmt.Sprintf("walker visited %d nodes, structure has %d", walked, nodes),
			Offset:  -1,
			Details: map[string]any{"walked": walked, "begin_node": nodes},
		}
	}
	return nil
}

// scan walks the token stream and returns the number of BEGIN_NODE tokens.
// It stops at the first problem that makes the rest of the stream
// unreadable and keeps going after the others.
func scan(b format.Blob, base int) (int, error) {
	s := b.Struct
	var errs error
	add := func(off int, msg string, args ...any) {
		errs = multierr.Append(errs, problem("Structure", base+off, msg, args...))
	}

	var childSeen []bool // per open node
	nodes := 0
	closed := false
	off := 0
	for {
		tok, ok := s.Token(off)
		if !ok {
			add(off, "structure block ends without an END token")
			return nodes, errs
		}
		switch tok {
		case format.TokenNop:
			off += format.TokenSize
		case format.TokenBeginNode:
			if closed {
				add(off, "node after the root node")
			}
			_, body, err := s.NodeName(off)
			if err != nil {
				add(off, "bad node name: %v", err)
				return nodes, errs
			}
			if len(childSeen) > 0 {
				childSeen[len(childSeen)-1] = true
			}
			childSeen = append(childSeen, false)
			nodes++
			off = body
		case format.TokenEndNode:
			if len(childSeen) == 0 {
				add(off, "END_NODE without an open node")
				return nodes, errs
			}
			childSeen = childSeen[:len(childSeen)-1]
			closed = closed || len(childSeen) == 0
			off += format.TokenSize
		case format.TokenProp:
			rec, err := s.Prop(off)
			if err != nil {
				add(off, "bad property: %v", err)
				return nodes, errs
			}
			switch {
			case len(childSeen) == 0:
				add(off, "property outside any node")
			case childSeen[len(childSeen)-1]:
				add(off, "property after a child node")
			}
			if _, err := b.Strings.Lookup(rec.NameOff); err != nil {
				add(off, "property name: %v", err)
			}
			off = rec.Next
		case format.TokenEnd:
			if len(childSeen) > 0 {
				add(off, "END token inside %d open node(s)", len(childSeen))
			}
			if nodes == 0 {
				add(off, "no root node")
			}
			if rest := len(s) - off - format.TokenSize; rest > 0 {
				add(off+format.TokenSize, "%d bytes after END token", rest)
			}
			return nodes, errs
		default:
			add(off, "unknown token 0x%X", uint32(tok))
			return nodes, errs
		}
	}
}
