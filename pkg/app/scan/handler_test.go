package scan

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
	"github.com/deploymenttheory/go-fileprobe/pkg/app"
	"github.com/deploymenttheory/go-fileprobe/pkg/engine"
)

func newTestContext(t *testing.T) (*app.Context, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	eng, err := engine.New(engine.WithFs(fs))
	require.NoError(t, err)
	ctx := app.NewContext(eng, nil)
	ctx.Quiet = true
	return ctx, fs
}

func createTestTree(t *testing.T, fs afero.Fs) {
	t.Helper()
	var ipa bytes.Buffer
	zw := zip.NewWriter(&ipa)
	_, err := zw.Create("Payload/")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	files := map[string][]byte{
		"/data/readme.txt":          []byte("hello"),
		"/data/config.json":         []byte(`{"a": 1}`),
		"/data/apps/Demo.ipa":       ipa.Bytes(),
		"/data/apps/big.bin":        bytes.Repeat([]byte{0x00}, 4096),
		"/data/apps/nested/doc.PDF": []byte("%PDF-1.7"),
	}
	for path, data := range files {
		require.NoError(t, afero.WriteFile(fs, path, data, 0o644))
	}

	old := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, fs.Chtimes("/data/readme.txt", old, old))
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name     string
		request  *Request
		validate func(*testing.T, *Response)
	}{
		{
			name:    "non-recursive lists top level",
			request: &Request{Path: "/data"},
			validate: func(t *testing.T, resp *Response) {
				assert.Equal(t, 3, resp.TotalScanned)
				assert.Equal(t, 3, resp.TotalFound)
			},
		},
		{
			name:    "recursive lists everything",
			request: &Request{Path: "/data", Recursive: true},
			validate: func(t *testing.T, resp *Response) {
				// 5 files and 2 directories
				assert.Equal(t, 7, resp.TotalScanned)
				assert.Equal(t, 7, resp.TotalFound)
				assert.Equal(t, 1, resp.TypeCounts["app_archive"])
				assert.Equal(t, 1, resp.TypeCounts["pdf"])
			},
		},
		{
			name:    "files only",
			request: &Request{Path: "/data", Recursive: true, FilesOnly: true},
			validate: func(t *testing.T, resp *Response) {
				assert.Equal(t, 5, resp.TotalFound)
				for _, file := range resp.Files {
					assert.False(t, file.IsDirectory)
				}
			},
		},
		{
			name:    "extension filter is case-insensitive",
			request: &Request{Path: "/data", Recursive: true, Extensions: []string{".pdf", "json"}},
			validate: func(t *testing.T, resp *Response) {
				require.Len(t, resp.Files, 2)
				for _, file := range resp.Files {
					assert.Contains(t, []string{"pdf", "json"}, file.Extension)
				}
			},
		},
		{
			name:    "type filter",
			request: &Request{Path: "/data", Recursive: true, Types: []string{"app_archive"}},
			validate: func(t *testing.T, resp *Response) {
				require.Len(t, resp.Files, 1)
				assert.Equal(t, types.FileTypeAppArchive, resp.Files[0].Type)
				assert.Equal(t, "IPA", resp.Files[0].TypeName)
			},
		},
		{
			name:    "name pattern",
			request: &Request{Path: "/data", Recursive: true, NamePattern: "READ*"},
			validate: func(t *testing.T, resp *Response) {
				require.Len(t, resp.Files, 1)
				assert.Equal(t, "readme.txt", resp.Files[0].Name)
			},
		},
		{
			name:    "case-sensitive name pattern",
			request: &Request{Path: "/data", Recursive: true, NamePattern: "READ*", CaseSensitive: true},
			validate: func(t *testing.T, resp *Response) {
				assert.Empty(t, resp.Files)
			},
		},
		{
			name:    "size range",
			request: &Request{Path: "/data", Recursive: true, MinSize: "1KB", MaxSize: "1MB"},
			validate: func(t *testing.T, resp *Response) {
				require.Len(t, resp.Files, 1)
				assert.Equal(t, "big.bin", resp.Files[0].Name)
			},
		},
		{
			name:    "modified before",
			request: &Request{Path: "/data", Recursive: true, FilesOnly: true, ModifiedBefore: "2020-06-01"},
			validate: func(t *testing.T, resp *Response) {
				require.Len(t, resp.Files, 1)
				assert.Equal(t, "readme.txt", resp.Files[0].Name)
			},
		},
		{
			name:    "max results truncates",
			request: &Request{Path: "/data", Recursive: true, MaxResults: 2},
			validate: func(t *testing.T, resp *Response) {
				assert.Len(t, resp.Files, 2)
				assert.Equal(t, 7, resp.TotalFound)
				assert.True(t, resp.Truncated)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, fs := newTestContext(t)
			createTestTree(t, fs)

			resp, err := Handle(ctx, tt.request)
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, ctx.RunID, resp.RunID)
			tt.validate(t, resp)
		})
	}
}

// createTestMachO returns a little-endian arm64e executable header
func createTestMachO() []byte {
	data := make([]byte, types.MachHeader64Size)
	binary.LittleEndian.PutUint32(data[0:4], types.MHMagic64)
	binary.LittleEndian.PutUint32(data[4:8], types.CPUTypeARM64)
	binary.LittleEndian.PutUint32(data[8:12], types.CPUSubtypeARM64E)
	binary.LittleEndian.PutUint32(data[12:16], types.MHExecute)
	binary.LittleEndian.PutUint32(data[16:20], 18)
	binary.LittleEndian.PutUint32(data[24:28], types.MHPIE)
	return data
}

func TestHandle_AnalyzeBinaries(t *testing.T) {
	ctx, fs := newTestContext(t)
	require.NoError(t, afero.WriteFile(fs, "/app/Demo", createTestMachO(), 0o755))
	require.NoError(t, afero.WriteFile(fs, "/app/libFake.dylib", []byte("not a binary"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/app/readme.txt", []byte("hello"), 0o644))

	byName := func(resp *Response) map[string]FileResult {
		files := map[string]FileResult{}
		for _, file := range resp.Files {
			files[file.Name] = file
		}
		return files
	}

	t.Run("disabled by default", func(t *testing.T) {
		resp, err := Handle(ctx, &Request{Path: "/app"})
		require.NoError(t, err)
		for _, file := range resp.Files {
			assert.Nil(t, file.Binary, file.Name)
			assert.Empty(t, file.BinaryError, file.Name)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		resp, err := Handle(ctx, &Request{Path: "/app", AnalyzeBinaries: true})
		require.NoError(t, err)
		assert.True(t, resp.Query.AnalyzeBinaries)
		files := byName(resp)
		require.Len(t, files, 3)

		exe := files["Demo"]
		assert.Equal(t, types.FileTypeExecutableImage, exe.Type)
		require.NotNil(t, exe.Binary)
		assert.True(t, exe.Binary.IsValid)
		assert.True(t, exe.Binary.IsArm64e)
		assert.True(t, exe.Binary.IsPositionIndependent)
		assert.Equal(t, 18, exe.Binary.LoadCommandCount)
		assert.Equal(t, types.ArchLabel64, exe.Binary.Architectures)

		fake := files["libFake.dylib"]
		assert.Equal(t, types.FileTypeDynamicLibrary, fake.Type)
		assert.Nil(t, fake.Binary)
		assert.NotEmpty(t, fake.BinaryError)

		text := files["readme.txt"]
		assert.Nil(t, text.Binary)
		assert.Empty(t, text.BinaryError)
	})
}

func TestHandle_DepthLimitedDirectories(t *testing.T) {
	ctx, fs := newTestContext(t)
	require.NoError(t, afero.WriteFile(fs, "/deep/a/b/c.txt", []byte("c"), 0o644))

	resp, err := Handle(ctx, &Request{Path: "/deep", Recursive: true, MaxDepth: 1})
	require.NoError(t, err)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "a", resp.Files[0].Name)
	assert.True(t, resp.Files[0].DepthLimited)
}

func TestHandle_Errors(t *testing.T) {
	ctx, fs := newTestContext(t)
	require.NoError(t, afero.WriteFile(fs, "/file.txt", []byte("x"), 0o644))

	tests := []struct {
		name    string
		request *Request
		code    string
	}{
		{"missing path", &Request{}, app.ErrCodeInvalidInput},
		{"bad regex", &Request{Path: "/", NameRegex: "[invalid"}, app.ErrCodeInvalidInput},
		{"not a directory", &Request{Path: "/file.txt"}, app.ErrCodeInvalidInput},
		{"missing directory", &Request{Path: "/nowhere"}, app.ErrCodeIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Handle(ctx, tt.request)
			assert.Nil(t, resp)
			var appErr *app.CommonError
			require.True(t, errors.As(err, &appErr), "got %v", err)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}
