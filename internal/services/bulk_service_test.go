package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

func TestBulkService_DeleteBestEffort(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/d/one", []byte("1"))
	writeTestFile(t, fs, "/d/two", []byte("2"))

	result, err := newTestServices(fs).bulk.Delete(context.Background(), []string{"/d/one", "/d/missing", "", "/d/two"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 2, result.Failed())
	require.Len(t, result.Items, 4)
	assert.True(t, result.Items[0].OK())
	assert.True(t, errors.Is(result.Items[1].Err, types.ErrIO))
	assert.True(t, errors.Is(result.Items[2].Err, types.ErrInvalidArgument))
	assert.True(t, result.Items[3].OK())

	exists, _ := afero.Exists(fs, "/d/two")
	assert.False(t, exists)
}

func TestBulkService_InvalidArguments(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/file", []byte("x"))
	svc := newTestServices(fs).bulk
	ctx := context.Background()

	_, err := svc.Delete(ctx, nil)
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))

	_, err = svc.Copy(ctx, nil, "/")
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))

	_, err = svc.Copy(ctx, []string{"/file"}, "")
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))

	_, err = svc.Move(ctx, []string{"/file"}, "/file")
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))

	_, err = svc.Move(ctx, []string{"/file"}, "/nowhere")
	assert.True(t, errors.Is(err, types.ErrIO))
}

func TestBulkService_Copy(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/src/a.txt", []byte("alpha"))
	writeTestFile(t, fs, "/src/nested/b.bin", []byte{0x00, 0x01})
	require.NoError(t, fs.MkdirAll("/dst", 0o755))

	result, err := newTestServices(fs).bulk.Copy(context.Background(), []string{"/src/a.txt", "/src/nested/b.bin", "/src/missing"}, "/dst")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, "/dst/a.txt", result.Items[0].Destination)
	assert.Equal(t, "/dst/b.bin", result.Items[1].Destination)
	assert.Error(t, result.Items[2].Err)

	data, err := afero.ReadFile(fs, "/dst/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))

	// Sources are untouched
	exists, _ := afero.Exists(fs, "/src/a.txt")
	assert.True(t, exists)
}

func TestBulkService_CopyDirectoryIsItemError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/src/dir", 0o755))
	require.NoError(t, fs.MkdirAll("/dst", 0o755))

	result, err := newTestServices(fs).bulk.Copy(context.Background(), []string{"/src/dir"}, "/dst")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Succeeded)
	assert.True(t, errors.Is(result.Items[0].Err, types.ErrInvalidArgument))
}

func TestBulkService_CopyPreservesMode(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	path := filepath.Join(src, "tool")
	require.NoError(t, os.WriteFile(path, createTestMachO(), 0o755))

	result, err := newTestServices(afero.NewOsFs()).bulk.Copy(context.Background(), []string{path}, dst)
	require.NoError(t, err)
	require.True(t, result.AllSucceeded())

	info, err := os.Stat(filepath.Join(dst, "tool"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestBulkService_CopyOntoItself(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("important data"), 0o644))

	linked := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(dir, linked))

	tests := []struct {
		name    string
		destDir string
		run     func(*BulkService, context.Context, []string, string) (types.BulkResult, error)
	}{
		{"copy into own directory", dir, (*BulkService).Copy},
		{"copy through symlinked directory", linked, (*BulkService).Copy},
		{"move into own directory", dir, (*BulkService).Move},
	}

	svc := newTestServices(afero.NewOsFs()).bulk
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.run(svc, context.Background(), []string{path}, tt.destDir)
			require.NoError(t, err)
			assert.Equal(t, 0, result.Succeeded)
			require.Len(t, result.Items, 1)
			assert.True(t, errors.Is(result.Items[0].Err, types.ErrInvalidArgument))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "important data", string(data))
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestBulkService_CopyReplacesExistingDestination(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/src/a.txt", []byte("new contents"))
	writeTestFile(t, fs, "/dst/a.txt", []byte("old contents that are longer"))

	result, err := newTestServices(fs).bulk.Copy(context.Background(), []string{"/src/a.txt"}, "/dst")
	require.NoError(t, err)
	require.True(t, result.AllSucceeded())

	data, err := afero.ReadFile(fs, "/dst/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "new contents", string(data))

	entries, err := afero.ReadDir(fs, "/dst")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBulkService_Move(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/src/a.txt", []byte("alpha"))
	require.NoError(t, fs.MkdirAll("/dst", 0o755))

	result, err := newTestServices(fs).bulk.Move(context.Background(), []string{"/src/a.txt", "/src/missing"}, "/dst")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed())

	exists, _ := afero.Exists(fs, "/src/a.txt")
	assert.False(t, exists)
	data, err := afero.ReadFile(fs, "/dst/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))
}

func TestBulkService_Compare(t *testing.T) {
	base := []byte(strings.Repeat("0123456789abcdef", 2048))
	flipped := append([]byte(nil), base...)
	flipped[20000] ^= 0xFF
	twoFlips := append([]byte(nil), base...)
	twoFlips[0] ^= 0x01
	twoFlips[len(twoFlips)-1] ^= 0x01

	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/c/base", base)
	writeTestFile(t, fs, "/c/copy", base)
	writeTestFile(t, fs, "/c/flipped", flipped)
	writeTestFile(t, fs, "/c/twoflips", twoFlips)
	writeTestFile(t, fs, "/c/short", base[:100])
	writeTestFile(t, fs, "/c/empty1", nil)
	writeTestFile(t, fs, "/c/empty2", nil)

	tests := []struct {
		name string
		a, b string
		want types.CompareResult
	}{
		{
			name: "identical",
			a:    "/c/base", b: "/c/copy",
			want: types.CompareResult{Identical: true, Size1: int64(len(base)), Size2: int64(len(base))},
		},
		{
			name: "one flipped byte",
			a:    "/c/base", b: "/c/flipped",
			want: types.CompareResult{DifferingBytes: 1, Size1: int64(len(base)), Size2: int64(len(base))},
		},
		{
			name: "first and last byte",
			a:    "/c/base", b: "/c/twoflips",
			want: types.CompareResult{DifferingBytes: 2, Size1: int64(len(base)), Size2: int64(len(base))},
		},
		{
			name: "size mismatch",
			a:    "/c/short", b: "/c/base",
			want: types.CompareResult{SizeMismatch: true, SizeDifference: uint64(len(base) - 100), Size1: 100, Size2: int64(len(base))},
		},
		{
			name: "same path",
			a:    "/c/base", b: "/c/base",
			want: types.CompareResult{Identical: true, Size1: int64(len(base)), Size2: int64(len(base))},
		},
		{
			name: "empty files",
			a:    "/c/empty1", b: "/c/empty2",
			want: types.CompareResult{Identical: true},
		},
	}

	svc := newTestServices(fs).bulk
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Compare(context.Background(), tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := svc.Compare(context.Background(), "/c/base", "/c/missing")
	assert.True(t, errors.Is(err, types.ErrIO))
}

func TestBulkService_CheckIntegrity(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/i/file", []byte("hello world"))
	svc := newTestServices(fs).bulk
	ctx := context.Background()
	const digest = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

	tests := []struct {
		name     string
		expected string
		want     bool
	}{
		{"lowercase", digest, true},
		{"uppercase", strings.ToUpper(digest), true},
		{"surrounding whitespace", "  " + digest + "\n", true},
		{"mismatch", strings.Repeat("0", 64), false},
		{"md5 is not accepted", "5eb63bbbe01eeed093cb22bb8f5acdc3", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := svc.CheckIntegrity(ctx, "/i/file", tt.expected)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	ok, err := svc.CheckIntegrity(ctx, "/i/file", "")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))

	ok, err = svc.CheckIntegrity(ctx, "/i/missing", digest)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, types.ErrIO))
}
