package services

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-fileprobe/internal/parsers/signature"
	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// previewLength is the number of leading bytes shown in a record's signature.
const previewLength = 8

// InventoryService builds FileRecords for individual paths
type InventoryService struct {
	fs         afero.Fs
	classifier *ClassifierService
}

// NewInventoryService creates a new inventory service
func NewInventoryService(fs afero.Fs, classifier *ClassifierService) *InventoryService {
	return &InventoryService{fs: fs, classifier: classifier}
}

// Inspect stats path, following symlinks, and describes it
func (is *InventoryService) Inspect(path string) (types.FileRecord, error) {
	if path == "" {
		return types.FileRecord{}, types.InvalidArgument("inspect", "path is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return types.FileRecord{}, types.IOError("inspect", path, err)
	}

	info, err := is.fs.Stat(abs)
	if err != nil {
		return types.FileRecord{}, types.IOError("inspect", abs, err)
	}

	record := newRecord(abs, info, 0)
	if info.IsDir() {
		return record, nil
	}

	if err := is.describeFile(&record); err != nil {
		return types.FileRecord{}, types.IOError("inspect", abs, err)
	}
	return record, nil
}

// inspectEntry describes a directory entry during a scan. Failures are recorded on the
// record rather than returned, so one unreadable entry does not abort the scan.
// The FileInfo is returned for identity checks and is nil when nothing could be stat'ed.
func (is *InventoryService) inspectEntry(path string, depth int) (types.FileRecord, os.FileInfo) {
	info, err := is.fs.Stat(path)
	if err != nil {
		// Dangling symlinks fail Stat but still exist
		linfo, lerr := lstat(is.fs, path)
		if lerr != nil {
			return types.FileRecord{Path: path, Name: filepath.Base(path), Depth: depth, Error: err.Error()}, nil
		}
		record := newRecord(path, linfo, depth)
		record.Error = err.Error()
		return record, nil
	}

	record := newRecord(path, info, depth)
	if !info.IsDir() {
		if err := is.describeFile(&record); err != nil {
			record.Error = err.Error()
		}
	}
	return record, info
}

// describeFile fills in the classification and hex preview of a regular file
func (is *InventoryService) describeFile(record *types.FileRecord) error {
	prefix, err := readPrefix(is.fs, record.Path, signature.MaxPrefixLength)
	if err != nil {
		return err
	}

	record.Type = is.classifier.ClassifyBytes(record.Path, prefix)
	record.Signature = signature.HexPreview(prefix, previewLength)
	return nil
}

func newRecord(path string, info os.FileInfo, depth int) types.FileRecord {
	record := types.FileRecord{
		Path:        path,
		Name:        filepath.Base(path),
		Size:        info.Size(),
		IsDirectory: info.IsDir(),
		ModTime:     info.ModTime(),
		Depth:       depth,
	}
	if !info.IsDir() {
		record.IsExecutable = info.Mode().Perm()&0o111 != 0
	}
	return record
}

// lstat stats path without following a final symlink when fs supports it
func lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if l, ok := fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}
