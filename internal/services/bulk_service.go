package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// BulkService performs best-effort operations over lists of paths
type BulkService struct {
	fs        afero.Fs
	digests   *DigestService
	chunkSize int
	logger    *slog.Logger
}

// NewBulkService creates a new bulk operations service
func NewBulkService(fs afero.Fs, digests *DigestService, chunkSize int, log *slog.Logger) *BulkService {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}
	return &BulkService{fs: fs, digests: digests, chunkSize: chunkSize, logger: orNop(log)}
}

// Delete removes each path independently. A failure does not stop the remaining paths.
func (bs *BulkService) Delete(ctx context.Context, paths []string) (types.BulkResult, error) {
	if len(paths) == 0 {
		return types.BulkResult{}, types.InvalidArgument("bulk delete", "no paths given")
	}

	var result types.BulkResult
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		item := types.ItemResult{Source: path}
		if path == "" {
			item.Err = types.InvalidArgument("delete", "empty path")
		} else if err := bs.fs.Remove(path); err != nil {
			item.Err = types.IOError("delete", path, err)
		}
		bs.logItem("delete", item)
		result.Add(item)
	}
	return result, nil
}

// Copy duplicates each source into destDir under its base name
func (bs *BulkService) Copy(ctx context.Context, sources []string, destDir string) (types.BulkResult, error) {
	return bs.transfer(ctx, "copy", sources, destDir, bs.copyFile)
}

// Move renames each source into destDir, copying across filesystems when rename fails
func (bs *BulkService) Move(ctx context.Context, sources []string, destDir string) (types.BulkResult, error) {
	return bs.transfer(ctx, "move", sources, destDir, bs.moveFile)
}

func (bs *BulkService) transfer(ctx context.Context, op string, sources []string, destDir string, fn func(src, dst string) error) (types.BulkResult, error) {
	if len(sources) == 0 {
		return types.BulkResult{}, types.InvalidArgument("bulk "+op, "no source paths given")
	}
	if destDir == "" {
		return types.BulkResult{}, types.InvalidArgument("bulk "+op, "destination directory is required")
	}
	info, err := bs.fs.Stat(destDir)
	if err != nil {
		return types.BulkResult{}, types.IOError("bulk "+op, destDir, err)
	}
	if !info.IsDir() {
		return types.BulkResult{}, types.InvalidArgument("bulk "+op, "%s is not a directory", destDir)
	}

	var result types.BulkResult
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		item := types.ItemResult{Source: src}
		if src == "" {
			item.Err = types.InvalidArgument(op, "empty source path")
		} else {
			item.Destination = filepath.Join(destDir, filepath.Base(src))
			if bs.sameFile(src, item.Destination) {
				item.Err = types.InvalidArgument(op, "source and destination are the same file: %s", src)
			} else if err := fn(src, item.Destination); err != nil {
				item.Err = err
			}
		}
		bs.logItem(op, item)
		result.Add(item)
	}
	return result, nil
}

// sameFile reports whether src and dst name one file, by path or by device and inode
func (bs *BulkService) sameFile(src, dst string) bool {
	absSrc, errSrc := filepath.Abs(src)
	absDst, errDst := filepath.Abs(dst)
	if errSrc == nil && errDst == nil && absSrc == absDst {
		return true
	}

	srcInfo, err := bs.fs.Stat(src)
	if err != nil {
		return false
	}
	dstInfo, err := bs.fs.Stat(dst)
	if err != nil {
		return false
	}
	if os.SameFile(srcInfo, dstInfo) {
		return true
	}
	srcID, okSrc := fileIdentity(srcInfo)
	dstID, okDst := fileIdentity(dstInfo)
	return okSrc && okDst && srcID == dstID
}

// copyFile streams src to a temporary file next to dst and renames it into place,
// preserving permission bits. A failed copy leaves any existing dst untouched.
func (bs *BulkService) copyFile(src, dst string) error {
	in, err := bs.fs.Open(src)
	if err != nil {
		return types.IOError("copy", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return types.IOError("copy", src, err)
	}
	if info.IsDir() {
		return types.InvalidArgument("copy", "%s is a directory", src)
	}

	out, err := afero.TempFile(bs.fs, filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return types.IOError("copy", dst, err)
	}
	tmp := out.Name()

	buf := make([]byte, bs.chunkSize)
	if _, err := io.CopyBuffer(out, in, buf); err != nil {
		out.Close()
		bs.fs.Remove(tmp)
		return types.IOError("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		bs.fs.Remove(tmp)
		return types.IOError("copy", dst, err)
	}
	if err := bs.fs.Chmod(tmp, info.Mode().Perm()); err != nil {
		bs.fs.Remove(tmp)
		return types.IOError("copy", dst, err)
	}
	if err := bs.fs.Rename(tmp, dst); err != nil {
		bs.fs.Remove(tmp)
		return types.IOError("copy", dst, err)
	}
	return nil
}

// moveFile renames src to dst and falls back to copy plus remove
func (bs *BulkService) moveFile(src, dst string) error {
	renameErr := bs.fs.Rename(src, dst)
	if renameErr == nil {
		return nil
	}

	info, err := bs.fs.Stat(src)
	if err != nil || info.IsDir() {
		return types.IOError("move", src, renameErr)
	}

	bs.logger.Debug("rename failed, copying instead", "source", src, "error", renameErr)
	if err := bs.copyFile(src, dst); err != nil {
		return types.IOError("move", src, errors.Join(renameErr, err))
	}
	if err := bs.fs.Remove(src); err != nil {
		return types.IOError("move", src, err)
	}
	return nil
}

// Compare checks two files byte for byte. Files of different size are not read.
func (bs *BulkService) Compare(ctx context.Context, path1, path2 string) (types.CompareResult, error) {
	if path1 == "" || path2 == "" {
		return types.CompareResult{}, types.InvalidArgument("compare", "two paths are required")
	}

	f1, err := bs.fs.Open(path1)
	if err != nil {
		return types.CompareResult{}, types.IOError("compare", path1, err)
	}
	defer f1.Close()

	f2, err := bs.fs.Open(path2)
	if err != nil {
		return types.CompareResult{}, types.IOError("compare", path2, err)
	}
	defer f2.Close()

	info1, err := f1.Stat()
	if err != nil {
		return types.CompareResult{}, types.IOError("compare", path1, err)
	}
	info2, err := f2.Stat()
	if err != nil {
		return types.CompareResult{}, types.IOError("compare", path2, err)
	}

	result := types.CompareResult{Size1: info1.Size(), Size2: info2.Size()}
	if result.Size1 != result.Size2 {
		result.SizeMismatch = true
		diff := result.Size1 - result.Size2
		if diff < 0 {
			diff = -diff
		}
		result.SizeDifference = uint64(diff)
		return result, nil
	}

	buf1 := make([]byte, bs.chunkSize)
	buf2 := make([]byte, bs.chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return types.CompareResult{}, err
		}

		n1, err1 := io.ReadFull(f1, buf1)
		n2, err2 := io.ReadFull(f2, buf2)
		if err := readErr(err1); err != nil {
			return types.CompareResult{}, types.IOError("compare", path1, err)
		}
		if err := readErr(err2); err != nil {
			return types.CompareResult{}, types.IOError("compare", path2, err)
		}

		n := min(n1, n2)
		if !bytes.Equal(buf1[:n], buf2[:n]) {
			for i := 0; i < n; i++ {
				if buf1[i] != buf2[i] {
					result.DifferingBytes++
				}
			}
		}

		if n1 < len(buf1) || n2 < len(buf2) {
			break
		}
	}

	result.Identical = result.DifferingBytes == 0
	return result, nil
}

// readErr drops the end-of-file conditions io.ReadFull reports for short reads
func readErr(err error) error {
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil
	}
	return err
}

// CheckIntegrity compares the SHA-256 of path with expected, ignoring case
func (bs *BulkService) CheckIntegrity(ctx context.Context, path, expected string) (bool, error) {
	expected = strings.TrimSpace(expected)
	if expected == "" {
		return false, types.InvalidArgument("check integrity", "expected sha256 is required")
	}

	digests, err := bs.digests.Digest(ctx, path)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(digests.SHA256, expected), nil
}

func (bs *BulkService) logItem(op string, item types.ItemResult) {
	if item.Err != nil {
		bs.logger.Warn(op+" failed", "source", item.Source, "error", item.Err)
		return
	}
	bs.logger.Debug(op, "source", item.Source, "destination", item.Destination)
}
