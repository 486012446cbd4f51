package macho

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-fileprobe/internal/interfaces"
	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// Parse errors returned by NewMachHeaderReader
var (
	ErrDataTooSmall         = errors.New("data too small for mach-o magic")
	ErrInvalidMagic         = errors.New("invalid header magic")
	ErrTruncatedFatHeader   = errors.New("truncated fat header")
	ErrNoArchitectures      = errors.New("fat header declares no architectures")
	ErrTooManyArchitectures = errors.New("fat header declares implausible architecture count")
)

// machHeaderReader implements the MachHeaderReader interface
type machHeaderReader struct {
	magic     uint32
	fat       bool
	is64      bool
	endian    binary.ByteOrder
	header    *types.MachHeaderT
	fatHeader *types.FatHeaderT
}

// NewMachHeaderReader parses the leading bytes of a Mach-O or universal binary.
// A thin header truncated after its magic is still accepted; only the magic decides validity.
func NewMachHeaderReader(data []byte) (interfaces.MachHeaderReader, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: %d bytes", ErrDataTooSmall, len(data))
	}

	magic := binary.BigEndian.Uint32(data[0:4])
	r := &machHeaderReader{magic: magic}

	switch magic {
	case types.MHMagic, types.MHCigam:
		r.endian = thinByteOrder(magic == types.MHMagic)
		r.header = parseMachHeader(data, r.endian, types.MachHeaderSize)
	case types.MHMagic64, types.MHCigam64:
		r.is64 = true
		r.endian = thinByteOrder(magic == types.MHMagic64)
		r.header = parseMachHeader(data, r.endian, types.MachHeader64Size)
	case types.FatMagic, types.FatCigam, types.FatMagic64, types.FatCigam64:
		fat, err := parseFatHeader(data)
		if err != nil {
			return nil, err
		}
		r.fat = true
		r.endian = binary.BigEndian
		r.fatHeader = fat
	default:
		return nil, fmt.Errorf("%w: 0x%08x", ErrInvalidMagic, magic)
	}

	return r, nil
}

// thinByteOrder maps a magic match to the byte order of the remaining header fields
func thinByteOrder(native bool) binary.ByteOrder {
	if native {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// parseMachHeader decodes the thin header when enough bytes are present
func parseMachHeader(data []byte, endian binary.ByteOrder, size int) *types.MachHeaderT {
	if len(data) < size {
		return nil
	}

	return &types.MachHeaderT{
		Magic:      binary.BigEndian.Uint32(data[0:4]),
		CPUType:    endian.Uint32(data[4:8]),
		CPUSubtype: endian.Uint32(data[8:12]),
		FileType:   endian.Uint32(data[12:16]),
		NCmds:      endian.Uint32(data[16:20]),
		SizeOfCmds: endian.Uint32(data[20:24]),
		Flags:      endian.Uint32(data[24:28]),
	}
}

// parseFatHeader decodes the fat header. The slice count is big-endian for every fat magic.
func parseFatHeader(data []byte) (*types.FatHeaderT, error) {
	if len(data) < types.FatHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedFatHeader, len(data))
	}

	fat := &types.FatHeaderT{
		Magic:    binary.BigEndian.Uint32(data[0:4]),
		NFatArch: binary.BigEndian.Uint32(data[4:8]),
	}

	if fat.NFatArch == 0 {
		return nil, ErrNoArchitectures
	}
	if fat.NFatArch > types.MaxFatArchitectures {
		return nil, fmt.Errorf("%w: %d", ErrTooManyArchitectures, fat.NFatArch)
	}

	return fat, nil
}

// Magic returns the magic number
func (r *machHeaderReader) Magic() uint32 {
	return r.magic
}

// IsFat returns true for universal binaries
func (r *machHeaderReader) IsFat() bool {
	return r.fat
}

// Is64Bit returns true for 64-bit thin headers
func (r *machHeaderReader) Is64Bit() bool {
	return r.is64
}

// ByteOrder returns the byte order of the header fields
func (r *machHeaderReader) ByteOrder() binary.ByteOrder {
	return r.endian
}

// ArchitectureCount returns the number of slices
func (r *machHeaderReader) ArchitectureCount() int {
	if r.fat {
		return int(r.fatHeader.NFatArch)
	}
	return 1
}

// Header returns the decoded thin header
func (r *machHeaderReader) Header() *types.MachHeaderT {
	return r.header
}

// FatHeader returns the decoded fat header
func (r *machHeaderReader) FatHeader() *types.FatHeaderT {
	return r.fatHeader
}

// Descriptor summarises the header
func (r *machHeaderReader) Descriptor() types.BinaryImageDescriptor {
	d := types.BinaryImageDescriptor{
		IsValid:           true,
		Is64Bit:           r.is64,
		ArchitectureCount: r.ArchitectureCount(),
		Magic:             r.magic,
		ByteOrder:         byteOrderName(r.endian),
	}

	switch {
	case r.fat:
		d.Architectures = types.ArchLabelUniversal
	case r.is64:
		d.Architectures = types.ArchLabel64
	default:
		d.Architectures = types.ArchLabel32
	}

	if h := r.header; h != nil {
		d.LoadCommandCount = int(h.NCmds)
		d.IsPositionIndependent = h.Flags&types.MHPIE != 0
		d.IsArm64e = h.CPUType == types.CPUTypeARM64 && h.CPUSubtype&types.CPUSubtypeMask == types.CPUSubtypeARM64E
		d.CPUType = types.CPUTypeName(h.CPUType)
		d.FileKind = types.MachFileTypeName(h.FileType)
	}

	return d
}

func byteOrderName(endian binary.ByteOrder) string {
	if endian == binary.BigEndian {
		return "big-endian"
	}
	return "little-endian"
}
