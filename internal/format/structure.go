package format

import (
	"unicode/utf8"

	"github.com/joshuapare/fdtkit/internal/buf"
)

// Structure is the structure block: a stream of 4-byte big-endian tokens,
// some followed by a payload padded to the next token boundary. Offsets
// passed to its methods are relative to the start of the block.
type Structure []byte

// Token reads the token at off. ok is false when the four bytes are not
// inside the block.
func (s Structure) Token(off int) (Token, bool) {
	v, ok := buf.U32At(s, off)
	return Token(v), ok
}

// Byte reads a single byte at off.
func (s Structure) Byte(off int) (byte, bool) {
	if off < 0 || off >= len(s) {
		return 0, false
	}
	return s[off], true
}

// NodeName decodes the BEGIN_NODE record at off. It returns the node name
// and the aligned offset of the first token of the node body.
func (s Structure) NodeName(off int) (name []byte, body int, err error) {
	tok, ok := s.Token(off)
	if !ok {
		return nil, 0, fail("begin node", off, ErrBounds)
	}
	if tok != TokenBeginNode {
		return nil, 0, fail("begin node", off, ErrBadToken)
	}
	// The name starts right after the token; only the end is padded.
	name, ok = buf.CString(s, off+TokenSize)
	if !ok {
		return nil, 0, fail("node name", off+TokenSize, ErrUnterminated)
	}
	if !utf8.Valid(name) {
		return nil, 0, fail("node name", off+TokenSize, ErrEncoding)
	}
	return name, Align4(off + TokenSize + len(name) + 1), nil
}

// PropRecord is a decoded PROP record. Value aliases the block.
type PropRecord struct {
	Offset  int // offset of the PROP token
	NameOff uint32
	Value   []byte
	Next    int // aligned offset of the following token
}

// Prop decodes the PROP record whose token is at off.
func (s Structure) Prop(off int) (PropRecord, error) {
	tok, ok := s.Token(off)
	if !ok {
		return PropRecord{}, fail("prop", off, ErrBounds)
	}
	if tok != TokenProp {
		return PropRecord{}, fail("prop", off, ErrBadToken)
	}
	hdr := off + TokenSize
	if !buf.Has(s, hdr, PropHeaderSize) {
		return PropRecord{}, fail("prop header", hdr, ErrBounds)
	}
	length := buf.U32BE(s[hdr:])
	nameOff := buf.U32BE(s[hdr+4:])
	valOff := hdr + PropHeaderSize
	if uint64(length) > uint64(len(s)) {
		return PropRecord{}, fail("prop value", valOff, ErrBounds)
	}
	value, ok := buf.Slice(s, valOff, int(length))
	if !ok {
		return PropRecord{}, fail("prop value", valOff, ErrBounds)
	}
	return PropRecord{
		Offset:  off,
		NameOff: nameOff,
		Value:   value,
		Next:    Align4(valOff + int(length)),
	}, nil
}

// SkipNops advances past NOP tokens starting at off. A NOP run that reaches
// the end of the block is reported as ErrBounds.
func (s Structure) SkipNops(off int) (int, error) {
	for {
		tok, ok := s.Token(off)
		if !ok {
			return off, fail("nop run", off, ErrBounds)
		}
		if tok != TokenNop {
			return off, nil
		}
		off += TokenSize
	}
}

// SkipProps advances past the run of PROP and NOP tokens starting at off and
// returns the offset of the first other token. Reaching the end of the block
// is not an error here; the caller sees it as an unreadable token.
func (s Structure) SkipProps(off int) (int, error) {
	for {
		tok, ok := s.Token(off)
		if !ok {
			return off, nil
		}
		switch tok {
		case TokenProp:
			rec, err := s.Prop(off)
			if err != nil {
				return off, err
			}
			off = rec.Next
		case TokenNop:
			off += TokenSize
		default:
			return off, nil
		}
	}
}

// SkipNode scans the subtree whose BEGIN_NODE is at off and returns the
// offset just past its matching END_NODE. PROP payloads are skipped by
// length so their bytes are never read as tokens.
func (s Structure) SkipNode(off int) (int, error) {
	_, cur, err := s.NodeName(off)
	if err != nil {
		return 0, err
	}
	depth := 1
	for {
		tok, ok := s.Token(cur)
		if !ok {
			return 0, fail("subtree", cur, ErrBounds)
		}
		switch tok {
		case TokenBeginNode:
			_, body, err := s.NodeName(cur)
			if err != nil {
				return 0, err
			}
			depth++
			cur = body
		case TokenEndNode:
			depth--
			cur += TokenSize
			if depth == 0 {
				return cur, nil
			}
		case TokenProp:
			rec, err := s.Prop(cur)
			if err != nil {
				return 0, err
			}
			cur = rec.Next
		case TokenNop:
			cur += TokenSize
		default:
			return 0, fail("subtree", cur, ErrBadToken)
		}
	}
}
