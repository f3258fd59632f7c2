package verify

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/joshuapare/fdtkit/fdt"
	"github.com/joshuapare/fdtkit/internal/format"
	"github.com/joshuapare/fdtkit/internal/testutil/fdtbuild"
)

func validBlob() []byte {
	return fdtbuild.New().
		Reserve(0x8000_0000, 0x1000).
		Tree(&fdtbuild.Node{
			Props: []fdtbuild.NodeProp{{Name: "model", Value: []byte("board\x00")}},
			Children: []*fdtbuild.Node{
				{Name: "cpus", Children: []*fdtbuild.Node{{Name: "cpu@0"}}},
				{Name: "memory@0", Props: []fdtbuild.NodeProp{{Name: "reg", Value: make([]byte, 16)}}},
			},
		}).
		Bytes()
}

func validationErrors(t *testing.T, err error) []*ValidationError {
	t.Helper()
	var out []*ValidationError
	for _, e := range multierr.Errors(err) {
		ve, ok := e.(*ValidationError)
		require.True(t, ok, "unexpected error type %T: %v", e, e)
		out = append(out, ve)
	}
	return out
}

func TestBlob_Valid(t *testing.T) {
	require.NoError(t, Blob(validBlob()))
	require.NoError(t, Blob(fdtbuild.Empty()))
}

// TestHeader_BadMagic tests that a blob nobody can decode yields one error.
func TestHeader_BadMagic(t *testing.T) {
	data := validBlob()
	binary.BigEndian.PutUint32(data, 0xDEADBEEF)

	errs := validationErrors(t, Blob(data))
	require.Len(t, errs, 1)
	assert.Equal(t, "Header", errs[0].Type)
	assert.Equal(t, format.MagicOffset, errs[0].Offset)
	assert.Contains(t, errs[0].Error(), "bad magic")
}

func TestHeader_TooSmall(t *testing.T) {
	err := Header(make([]byte, 10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blob too small")
}

func TestHeader_Versions(t *testing.T) {
	data := validBlob()
	binary.BigEndian.PutUint32(data[format.VersionOffset:], 15)
	binary.BigEndian.PutUint32(data[format.LastCompVersionOffset:], 18)

	errs := validationErrors(t, Header(data))
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Message, "version 15 is older")
	assert.Contains(t, errs[1].Message, "newer than 17")
	assert.Contains(t, errs[2].Message, "exceeds version 15")
}

func TestHeader_TotalSizeBeyondBuffer(t *testing.T) {
	data := validBlob()
	errs := validationErrors(t, Blob(data[:len(data)-2]))
	require.Len(t, errs, 1)
	assert.Equal(t, format.TotalSizeOffset, errs[0].Offset)
	assert.Contains(t, errs[0].Details, "totalsize")
}

func TestBlocks_Misaligned(t *testing.T) {
	data := validBlob()
	rsv := binary.BigEndian.Uint32(data[format.OffMemRsvmapOffset:])
	binary.BigEndian.PutUint32(data[format.OffMemRsvmapOffset:], rsv+4)

	err := Blocks(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not 8-byte aligned")
}

func TestBlocks_Overlap(t *testing.T) {
	data := validBlob()
	// Point the strings block at the structure block.
	st := binary.BigEndian.Uint32(data[format.OffDtStructOffset:])
	binary.BigEndian.PutUint32(data[format.OffDtStringsOffset:], st)

	errs := validationErrors(t, Blocks(data))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "structure block overlaps strings block")
	assert.Equal(t, int(st), errs[0].Offset)
}

func TestReservationMap_Unterminated(t *testing.T) {
	data := fdtbuild.New().Reserve(1, 2).WithoutReservationTerminator().BeginNode("").EndNode().Bytes()

	errs := validationErrors(t, ReservationMap(data))
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Details["entries"])
	assert.Contains(t, errs[0].Message, "before the next block")
}

func TestReservationMap_RunsOffBlob(t *testing.T) {
	data := validBlob()
	// An 8-byte reservation block at the very end cannot hold a record.
	binary.BigEndian.PutUint32(data[format.OffMemRsvmapOffset:], uint32(len(data)-8))

	errs := validationErrors(t, ReservationMap(data))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "before the end of the blob")
	assert.Equal(t, 0, errs[0].Details["entries"])
	assert.Equal(t, len(data)-8, errs[0].Offset)
}

func TestStructure_CollectsEveryProblem(t *testing.T) {
	b := fdtbuild.New().BeginNode("").
		BeginNode("a").EndNode().
		PropU32("late", 1).
		PropRaw(0x999, 0, nil).
		EndNode().
		End().
		Token(fdtbuild.Nop)

	errs := validationErrors(t, Structure(b.Bytes()))
	require.Len(t, errs, 4)
	assert.Contains(t, errs[0].Message, "property after a child node")
	assert.Contains(t, errs[1].Message, "property after a child node")
	assert.Contains(t, errs[2].Message, "property name")
	assert.Contains(t, errs[3].Message, "bytes after END token")
	for _, e := range errs {
		assert.Equal(t, "Structure", e.Type)
	}
}

func TestStructure_Fatal(t *testing.T) {
	tests := []struct {
		name string
		b    *fdtbuild.Builder
		want string
	}{
		{"missing END", fdtbuild.New().BeginNode("").EndNode().WithoutEnd(), "without an END token"},
		{"unclosed root", fdtbuild.New().BeginNode("").BeginNode("a").EndNode(), "END token inside 1 open node(s)"},
		{"stray END_NODE", fdtbuild.New().BeginNode("").EndNode().EndNode(), "END_NODE without an open node"},
		{"unknown token", fdtbuild.New().BeginNode("").Token(0x42).EndNode(), "unknown token 0x42"},
		{"no root", fdtbuild.New().End(), "no root node"},
		{"second root", fdtbuild.New().BeginNode("").EndNode().BeginNode("").EndNode(), "node after the root node"},
		{"bad property", fdtbuild.New().BeginNode("").PropRaw(0, 0x100, nil).EndNode(), "bad property"},
		{"bad name", fdtbuild.New().BeginNode("\xff").EndNode(), "bad node name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Structure(tt.b.Bytes())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStats(t *testing.T) {
	tree, err := fdt.New(validBlob())
	require.NoError(t, err)

	st, err := Stats(tree)
	require.NoError(t, err)
	assert.Equal(t, TreeStats{
		Nodes:      4,
		Properties: 2,
		ValueBytes: 6 + 16,
		MaxDepth:   2,
		Reserved:   1,
	}, st)
}
