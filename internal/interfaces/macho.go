package interfaces

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// MachHeaderReader provides methods for reading a thin or fat Mach-O header
type MachHeaderReader interface {
	// Magic returns the magic number as read big-endian from the first four bytes
	Magic() uint32

	// IsFat returns true if the header describes a universal binary
	IsFat() bool

	// Is64Bit returns true for 64-bit thin headers
	Is64Bit() bool

	// ByteOrder returns the byte order of the header fields
	ByteOrder() binary.ByteOrder

	// ArchitectureCount returns the number of architecture slices described
	ArchitectureCount() int

	// Header returns the thin header, or nil for fat or truncated headers
	Header() *types.MachHeaderT

	// FatHeader returns the fat header, or nil for thin headers
	FatHeader() *types.FatHeaderT

	// Descriptor returns the structural summary of the header
	Descriptor() types.BinaryImageDescriptor
}

// BinaryAnalyzer reads binary image headers from the filesystem
type BinaryAnalyzer interface {
	// Analyze reads the header of the file at path
	Analyze(path string) (types.BinaryImageDescriptor, error)
}
