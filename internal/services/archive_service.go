package services

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-fileprobe/internal/parsers/signature"
	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// ArchiveService creates, extracts and validates ZIP archives
type ArchiveService struct {
	fs     afero.Fs
	logger *slog.Logger
}

// NewArchiveService creates a new archive service
func NewArchiveService(fs afero.Fs, log *slog.Logger) *ArchiveService {
	return &ArchiveService{fs: fs, logger: orNop(log)}
}

// Create writes sources into a new ZIP at output. Files are stored under their base
// name and directories keep their own name as the top-level folder.
func (as *ArchiveService) Create(ctx context.Context, sources []string, output string) (types.ArchiveResult, error) {
	if len(sources) == 0 {
		return types.ArchiveResult{}, types.InvalidArgument("create archive", "no source paths given")
	}
	if output == "" {
		return types.ArchiveResult{}, types.InvalidArgument("create archive", "output path is required")
	}

	out, err := as.fs.Create(output)
	if err != nil {
		return types.ArchiveResult{}, types.IOError("create archive", output, err)
	}

	result, err := as.writeZip(ctx, out, sources, output)
	closeErr := out.Close()
	if err == nil && closeErr != nil {
		err = types.IOError("create archive", output, closeErr)
	}
	if err != nil {
		_ = as.fs.Remove(output)
		return types.ArchiveResult{}, err
	}
	return result, nil
}

func (as *ArchiveService) writeZip(ctx context.Context, w io.Writer, sources []string, output string) (types.ArchiveResult, error) {
	zw := zip.NewWriter(w)
	result := types.ArchiveResult{Path: output}
	cleanOutput := filepath.Clean(output)

	for _, src := range sources {
		info, err := as.fs.Stat(src)
		if err != nil {
			zw.Close()
			return result, types.IOError("create archive", src, err)
		}

		if !info.IsDir() {
			if err := as.addFile(zw, src, info.Name(), info, &result); err != nil {
				zw.Close()
				return result, err
			}
			continue
		}

		base := filepath.Dir(filepath.Clean(src))
		err = afero.Walk(as.fs, src, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return types.IOError("create archive", path, err)
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if filepath.Clean(path) == cleanOutput {
				return nil
			}
			rel, err := filepath.Rel(base, path)
			if err != nil {
				return types.IOError("create archive", path, err)
			}
			return as.addFile(zw, path, filepath.ToSlash(rel), info, &result)
		})
		if err != nil {
			zw.Close()
			return result, err
		}
	}

	if err := zw.Close(); err != nil {
		return result, types.IOError("create archive", output, err)
	}
	return result, nil
}

// addFile writes one entry. Directories get a trailing slash and no content.
func (as *ArchiveService) addFile(zw *zip.Writer, path, name string, info os.FileInfo, result *types.ArchiveResult) error {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return types.IOError("create archive", path, err)
	}
	header.Name = name

	if info.IsDir() {
		header.Name = strings.TrimSuffix(name, "/") + "/"
		if _, err := zw.CreateHeader(header); err != nil {
			return types.IOError("create archive", path, err)
		}
		result.Entries++
		return nil
	}

	if !info.Mode().IsRegular() {
		as.logger.Debug("skipping non-regular file", "path", path)
		return nil
	}

	header.Method = zip.Deflate
	w, err := zw.CreateHeader(header)
	if err != nil {
		return types.IOError("create archive", path, err)
	}

	f, err := as.fs.Open(path)
	if err != nil {
		return types.IOError("create archive", path, err)
	}
	defer f.Close()

	n, err := io.Copy(w, f)
	if err != nil {
		return types.IOError("create archive", path, err)
	}

	result.Entries++
	result.Bytes += n
	return nil
}

// Extract unpacks a ZIP into destDir. Entries that would land outside destDir reject
// the whole archive before anything is written.
func (as *ArchiveService) Extract(ctx context.Context, archivePath, destDir string) (types.ArchiveResult, error) {
	if archivePath == "" || destDir == "" {
		return types.ArchiveResult{}, types.InvalidArgument("extract archive", "archive and destination paths are required")
	}

	zr, closeFn, err := as.openZip("extract archive", archivePath)
	if err != nil {
		return types.ArchiveResult{}, err
	}
	defer closeFn()

	dest, err := filepath.Abs(destDir)
	if err != nil {
		return types.ArchiveResult{}, types.IOError("extract archive", destDir, err)
	}

	targets := make([]string, len(zr.File))
	for i, f := range zr.File {
		target, ok := safeJoin(dest, f.Name)
		if !ok {
			return types.ArchiveResult{}, types.FormatError("extract archive", archivePath, "entry %q escapes destination", f.Name)
		}
		targets[i] = target
	}

	if err := as.fs.MkdirAll(dest, 0o755); err != nil {
		return types.ArchiveResult{}, types.IOError("extract archive", dest, err)
	}

	result := types.ArchiveResult{Path: dest}
	for i, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := as.fs.MkdirAll(targets[i], 0o755); err != nil {
				return result, types.IOError("extract archive", targets[i], err)
			}
		case mode.IsRegular():
			n, err := as.extractFile(f, targets[i])
			if err != nil {
				return result, err
			}
			result.Entries++
			result.Bytes += n
		default:
			as.logger.Debug("skipping non-regular entry", "entry", f.Name, "mode", mode.String())
		}
	}
	return result, nil
}

func (as *ArchiveService) extractFile(f *zip.File, target string) (int64, error) {
	if err := as.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, types.IOError("extract archive", target, err)
	}

	rc, err := f.Open()
	if err != nil {
		return 0, types.NewEngineError(types.KindFormat, "extract archive", f.Name, "", err)
	}
	defer rc.Close()

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}
	out, err := as.fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return 0, types.IOError("extract archive", target, err)
	}

	n, err := io.Copy(out, rc)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if errors.Is(err, zip.ErrChecksum) {
			return n, types.NewEngineError(types.KindFormat, "extract archive", f.Name, "", err)
		}
		return n, types.IOError("extract archive", target, err)
	}
	return n, nil
}

// Validate reads every entry so the central directory and each CRC-32 are checked
func (as *ArchiveService) Validate(ctx context.Context, archivePath string) (types.ArchiveResult, error) {
	if archivePath == "" {
		return types.ArchiveResult{}, types.InvalidArgument("validate archive", "archive path is required")
	}

	zr, closeFn, err := as.openZip("validate archive", archivePath)
	if err != nil {
		return types.ArchiveResult{}, err
	}
	defer closeFn()

	result := types.ArchiveResult{Path: archivePath}
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if f.Mode().IsDir() {
			result.Entries++
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return result, types.NewEngineError(types.KindFormat, "validate archive", f.Name, "", err)
		}
		n, err := io.Copy(io.Discard, rc)
		rc.Close()
		if err != nil {
			return result, types.NewEngineError(types.KindFormat, "validate archive", f.Name, "", err)
		}
		result.Entries++
		result.Bytes += n
	}
	return result, nil
}

// openZip checks the archive signature and opens its central directory.
// Archive formats other than ZIP are recognised but not supported.
func (as *ArchiveService) openZip(op, path string) (*zip.Reader, func() error, error) {
	return openZipFs(as.fs, op, path)
}

func openZipFs(fsys afero.Fs, op, path string) (*zip.Reader, func() error, error) {
	prefix, err := readPrefix(fsys, path, signature.MaxPrefixLength)
	if err != nil {
		return nil, nil, types.IOError(op, path, err)
	}

	entry, ok := signature.Lookup(prefix)
	switch {
	case ok && entry.ZipFamily:
	case ok && entry.Type == types.FileTypeArchive:
		return nil, nil, types.NotImplemented(op, path, "%s is not supported", entry.Description)
	default:
		return nil, nil, types.FormatError(op, path, "not a zip archive")
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, nil, types.IOError(op, path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, types.IOError(op, path, err)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, nil, types.NewEngineError(types.KindFormat, op, path, "", err)
	}
	return zr, f.Close, nil
}

// safeJoin resolves an archive entry name under dest, rejecting names that escape it
func safeJoin(dest, name string) (string, bool) {
	clean := strings.TrimSuffix(strings.TrimPrefix(name, "./"), "/")
	if clean == "." || !fs.ValidPath(clean) {
		return "", false
	}

	target := filepath.Join(dest, filepath.FromSlash(clean))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return target, true
}
