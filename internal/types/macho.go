package types

// Mach-O Headers
// A Mach-O image starts with either a thin header describing a single architecture
// or a fat header describing several architecture slices stored back to back.

// MachHeaderT is the thin Mach-O header. The 64-bit variant appends a reserved word.
type MachHeaderT struct {
	// The magic number identifying the header and its byte order.
	Magic uint32

	// The CPU type of the image.
	CPUType uint32

	// The CPU subtype of the image. The high byte carries capability bits.
	CPUSubtype uint32

	// The kind of image: executable, dynamic library, bundle and so on.
	FileType uint32

	// The number of load commands following the header.
	NCmds uint32

	// The total size of the load commands, in bytes.
	SizeOfCmds uint32

	// Image flags such as MH_PIE.
	Flags uint32
}

// MachHeaderSize is the size of the 32-bit thin header, in bytes.
const MachHeaderSize = 28

// MachHeader64Size is the size of the 64-bit thin header, in bytes.
const MachHeader64Size = 32

// FatHeaderT is the header of a universal (fat) binary.
// Both fields are always stored big-endian.
type FatHeaderT struct {
	// The fat magic number.
	Magic uint32

	// The number of architecture slices that follow.
	NFatArch uint32
}

// FatHeaderSize is the size of the fat header, in bytes.
const FatHeaderSize = 8

// MaxFatArchitectures bounds the slice count accepted from a fat header.
// Java class files share the 0xCAFEBABE magic and put their version (45 and up) where the count lives.
const MaxFatArchitectures = 30

// Magic Numbers

const (
	// MHMagic is the 32-bit thin magic in native (big-endian) byte order.
	MHMagic uint32 = 0xfeedface

	// MHCigam is the 32-bit thin magic byte-swapped.
	MHCigam uint32 = 0xcefaedfe

	// MHMagic64 is the 64-bit thin magic in native (big-endian) byte order.
	MHMagic64 uint32 = 0xfeedfacf

	// MHCigam64 is the 64-bit thin magic byte-swapped.
	MHCigam64 uint32 = 0xcffaedfe

	// FatMagic is the universal binary magic.
	FatMagic uint32 = 0xcafebabe

	// FatCigam is the universal binary magic byte-swapped.
	FatCigam uint32 = 0xbebafeca

	// FatMagic64 is the universal binary magic with 64-bit slice offsets.
	FatMagic64 uint32 = 0xcafebabf

	// FatCigam64 is FatMagic64 byte-swapped.
	FatCigam64 uint32 = 0xbfbafeca
)

// Header Flags

const (
	// MHPIE marks an image that loads at a random address.
	MHPIE uint32 = 0x200000
)

// CPU Types

// CPUArchABI64 is the capability bit marking a 64-bit ABI.
const CPUArchABI64 uint32 = 0x01000000

const (
	CPUTypeX86     uint32 = 7
	CPUTypeX86_64  uint32 = CPUTypeX86 | CPUArchABI64
	CPUTypeARM     uint32 = 12
	CPUTypeARM64   uint32 = CPUTypeARM | CPUArchABI64
	CPUTypePowerPC uint32 = 18
)

// CPUSubtypeMask strips the capability bits from a CPU subtype.
const CPUSubtypeMask uint32 = 0x00ffffff

// CPUSubtypeARM64E identifies the pointer-authenticated arm64e ABI.
const CPUSubtypeARM64E uint32 = 2

// CPUTypeName returns a short name for a CPU type
func CPUTypeName(cpu uint32) string {
	switch cpu {
	case CPUTypeX86:
		return "i386"
	case CPUTypeX86_64:
		return "x86_64"
	case CPUTypeARM:
		return "arm"
	case CPUTypeARM64:
		return "arm64"
	case CPUTypePowerPC:
		return "ppc"
	default:
		return "unknown"
	}
}

// Mach-O File Types

const (
	MHObject     uint32 = 0x1
	MHExecute    uint32 = 0x2
	MHCore       uint32 = 0x4
	MHDylib      uint32 = 0x6
	MHDylinker   uint32 = 0x7
	MHBundle     uint32 = 0x8
	MHDsym       uint32 = 0xa
	MHKextBundle uint32 = 0xb
)

// MachFileTypeName returns a short name for a Mach-O file type
func MachFileTypeName(fileType uint32) string {
	switch fileType {
	case MHObject:
		return "object"
	case MHExecute:
		return "execute"
	case MHCore:
		return "core"
	case MHDylib:
		return "dylib"
	case MHDylinker:
		return "dylinker"
	case MHBundle:
		return "bundle"
	case MHDsym:
		return "dsym"
	case MHKextBundle:
		return "kext_bundle"
	default:
		return "unknown"
	}
}

// Architecture labels reported for recognised headers.
const (
	ArchLabel32        = "arm"
	ArchLabel64        = "arm64"
	ArchLabelUniversal = "universal"
)
