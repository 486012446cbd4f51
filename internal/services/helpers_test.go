package services

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-fileprobe/internal/logger"
	"github.com/deploymenttheory/go-fileprobe/internal/parsers/signature"
	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// zipEntry is one file or directory (name ending in "/") in a synthesised archive
type zipEntry struct {
	name string
	data []byte
}

// writeTestFile writes data to path on fs, creating parent directories
func writeTestFile(t *testing.T, fs afero.Fs, path string, data []byte) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, data, 0o644))
}

// createTestMachO creates a 64-bit little-endian arm64 executable header
func createTestMachO() []byte {
	data := make([]byte, types.MachHeader64Size)
	binary.LittleEndian.PutUint32(data[0:4], types.MHMagic64)
	binary.LittleEndian.PutUint32(data[4:8], types.CPUTypeARM64)
	binary.LittleEndian.PutUint32(data[12:16], types.MHExecute)
	binary.LittleEndian.PutUint32(data[16:20], 22)
	binary.LittleEndian.PutUint32(data[24:28], types.MHPIE)
	return data
}

// createTestZip builds a ZIP archive in memory
func createTestZip(t *testing.T, entries []zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		if len(e.data) > 0 {
			_, err = w.Write(e.data)
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// testServices bundles every service wired over one filesystem
type testServices struct {
	classifier *ClassifierService
	binary     *BinaryAnalysisService
	digest     *DigestService
	inventory  *InventoryService
	scanner    *ScannerService
	bulk       *BulkService
	archive    *ArchiveService
	bundle     *BundleService
}

// newTestServices wires every service over fs
func newTestServices(fs afero.Fs) *testServices {
	log := logger.Nop()
	classifier := NewClassifierService(fs, signature.NewClassifier())
	digest := NewDigestService(fs, DefaultChunkSize, 4, log)
	inventory := NewInventoryService(fs, classifier)
	return &testServices{
		classifier: classifier,
		binary:     NewBinaryAnalysisService(fs),
		digest:     digest,
		inventory:  inventory,
		scanner:    NewScannerService(fs, inventory, log),
		bulk:       NewBulkService(fs, digest, DefaultChunkSize, log),
		archive:    NewArchiveService(fs, log),
		bundle:     NewBundleService(fs, log),
	}
}

func skipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
}
