package services

import (
	"errors"

	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-fileprobe/internal/parsers/macho"
	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// machHeaderReadSize covers the 64-bit thin header, the largest structure inspected.
const machHeaderReadSize = types.MachHeader64Size

// BinaryAnalysisService reads Mach-O and universal binary headers
type BinaryAnalysisService struct {
	fs afero.Fs
}

// NewBinaryAnalysisService creates a new binary analysis service
func NewBinaryAnalysisService(fs afero.Fs) *BinaryAnalysisService {
	return &BinaryAnalysisService{fs: fs}
}

// Analyze reads the header of the file at path. Unrecognised magic yields a
// descriptor with IsValid=false and a format error.
func (bs *BinaryAnalysisService) Analyze(path string) (types.BinaryImageDescriptor, error) {
	if path == "" {
		return types.BinaryImageDescriptor{}, types.InvalidArgument("analyze binary", "path is required")
	}

	data, err := readPrefix(bs.fs, path, machHeaderReadSize)
	if err != nil {
		return types.BinaryImageDescriptor{}, types.IOError("analyze binary", path, err)
	}

	return bs.AnalyzeBytes(path, data)
}

// AnalyzeBytes parses an already-read header prefix
func (bs *BinaryAnalysisService) AnalyzeBytes(path string, data []byte) (types.BinaryImageDescriptor, error) {
	reader, err := macho.NewMachHeaderReader(data)
	if err != nil {
		kind := types.KindFormat
		if errors.Is(err, macho.ErrDataTooSmall) {
			kind = types.KindIO
		}
		return types.BinaryImageDescriptor{}, types.NewEngineError(kind, "analyze binary", path, "", err)
	}

	return reader.Descriptor(), nil
}
