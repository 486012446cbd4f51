package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// ScanOptions controls a directory scan
type ScanOptions struct {
	Recursive bool
	// MaxDepth limits recursion: entries directly inside the root have depth 1 and
	// directories at MaxDepth are listed but not entered. 0 means unlimited.
	MaxDepth int
}

// dirIdentity identifies a directory independently of the path used to reach it
type dirIdentity struct {
	dev  uint64
	ino  uint64
	path string
}

// ScannerService enumerates directory trees into FileRecords
type ScannerService struct {
	fs        afero.Fs
	inventory *InventoryService
	logger    *slog.Logger
}

// NewScannerService creates a new scanner service
func NewScannerService(fs afero.Fs, inventory *InventoryService, log *slog.Logger) *ScannerService {
	return &ScannerService{fs: fs, inventory: inventory, logger: orNop(log)}
}

// Scan lists dir in directory-listing order. When recursive, each directory's subtree
// follows its own record (pre-order). A directory that is already being walked higher
// up the tree is reported with LoopDetected and not entered again.
func (ss *ScannerService) Scan(ctx context.Context, dir string, opts ScanOptions) ([]types.FileRecord, error) {
	if dir == "" {
		return nil, types.InvalidArgument("scan", "directory path is required")
	}
	if opts.MaxDepth < 0 {
		return nil, types.InvalidArgument("scan", "max depth must be >= 0, got %d", opts.MaxDepth)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, types.IOError("scan", dir, err)
	}

	info, err := ss.fs.Stat(root)
	if err != nil {
		return nil, types.IOError("scan", root, err)
	}
	if !info.IsDir() {
		return nil, types.InvalidArgument("scan", "%s is not a directory", root)
	}

	entries, err := ss.readDir(root)
	if err != nil {
		return nil, types.IOError("scan", root, err)
	}

	ancestors := map[dirIdentity]struct{}{identityOf(root, info): {}}
	records := []types.FileRecord{}

	if err := ss.walkEntries(ctx, root, entries, 1, opts, ancestors, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// walkEntries appends records for entries of dir, descending into subdirectories
func (ss *ScannerService) walkEntries(ctx context.Context, dir string, entries []os.FileInfo, depth int, opts ScanOptions, ancestors map[dirIdentity]struct{}, records *[]types.FileRecord) error {
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, entry.Name())
		record, info := ss.inventory.inspectEntry(path, depth)

		if !record.IsDirectory || !opts.Recursive || info == nil {
			*records = append(*records, record)
			continue
		}

		id := identityOf(path, info)
		if _, seen := ancestors[id]; seen {
			record.LoopDetected = true
			*records = append(*records, record)
			ss.logger.Warn("directory cycle detected", "path", path)
			continue
		}

		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			record.DepthLimited = true
			*records = append(*records, record)
			ss.logger.Warn("max depth reached, not descending", "path", path, "depth", depth)
			continue
		}

		*records = append(*records, record)

		children, err := ss.readDir(path)
		if err != nil {
			ss.logger.Warn("skipping unreadable directory", "path", path, "error", err)
			continue
		}

		ancestors[id] = struct{}{}
		err = ss.walkEntries(ctx, path, children, depth+1, opts, ancestors, records)
		delete(ancestors, id)
		if err != nil {
			return err
		}
	}
	return nil
}

// readDir returns the entries of dir in the order the filesystem lists them
func (ss *ScannerService) readDir(dir string) ([]os.FileInfo, error) {
	f, err := ss.fs.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.Readdir(-1)
}

func identityOf(path string, info os.FileInfo) dirIdentity {
	if id, ok := fileIdentity(info); ok {
		return id
	}
	return dirIdentity{path: filepath.Clean(path)}
}
