// Package format houses low-level decoders for the flattened device tree
// (FDT/DTB) binary format. Everything here works over borrowed byte slices:
// no copying, no allocation on the success path, and every read is checked
// against the slice it was handed.
package format

// Magic is the value of the first header word of every device tree blob.
const Magic uint32 = 0xD00DFEED

// Header field offsets. All fields are big-endian uint32.
//
//	Offset  Field
//	------  -----------------
//	 0x00   magic
//	 0x04   totalsize
//	 0x08   off_dt_struct
//	 0x0C   off_dt_strings
//	 0x10   off_mem_rsvmap
//	 0x14   version
//	 0x18   last_comp_version
//	 0x1C   boot_cpuid_phys
//	 0x20   size_dt_strings
//	 0x24   size_dt_struct
const (
	MagicOffset           = 0x00
	TotalSizeOffset       = 0x04
	OffDtStructOffset     = 0x08
	OffDtStringsOffset    = 0x0C
	OffMemRsvmapOffset    = 0x10
	VersionOffset         = 0x14
	LastCompVersionOffset = 0x18
	BootCPUIDPhysOffset   = 0x1C
	SizeDtStringsOffset   = 0x20
	SizeDtStructOffset    = 0x24

	// HeaderSize is the size of the version 17 header.
	HeaderSize = 0x28
)

const (
	// CurrentVersion is the header version this package decodes natively.
	CurrentVersion = 17

	// LastCompatibleVersion is the oldest version a version-17 reader
	// is expected to understand.
	LastCompatibleVersion = 16

	// structSizeVersion is the first version carrying size_dt_struct.
	structSizeVersion = 17
)

// Token is a 32-bit structure block marker.
type Token uint32

// Structure block tokens.
const (
	TokenBeginNode Token = 0x00000001
	TokenEndNode   Token = 0x00000002
	TokenProp      Token = 0x00000003
	TokenNop       Token = 0x00000004
	TokenEnd       Token = 0x00000009
)

func (t Token) String() string {
	switch t {
	case TokenBeginNode:
		return "BEGIN_NODE"
	case TokenEndNode:
		return "END_NODE"
	case TokenProp:
		return "PROP"
	case TokenNop:
		return "NOP"
	case TokenEnd:
		return "END"
	default:
		return "UNKNOWN"
	}
}

const (
	// TokenSize is the width of a structure block token.
	TokenSize = 4

	// TokenAlignment is the alignment every token starts on, relative to
	// the start of the structure block.
	TokenAlignment = 4

	// TokenAlignmentMask is TokenAlignment - 1.
	TokenAlignmentMask = TokenAlignment - 1

	// PropHeaderSize covers the value length and name offset words that
	// follow a PROP token.
	PropHeaderSize = 8

	// ReservationSize is the width of one (address, size) record.
	ReservationSize = 16

	// ReservationAlignment is the alignment the reservation block must
	// start on within the blob.
	ReservationAlignment = 8
)
