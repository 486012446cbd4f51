// Package engine is the entry point for file classification, Mach-O header analysis,
// hashing, directory scanning, bulk file operations, ZIP archives and app bundles.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-fileprobe/internal/config"
	"github.com/deploymenttheory/go-fileprobe/internal/logger"
	"github.com/deploymenttheory/go-fileprobe/internal/parsers/signature"
	"github.com/deploymenttheory/go-fileprobe/internal/services"
	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// Engine wires every file service over a single filesystem and configuration
type Engine struct {
	fs     afero.Fs
	logger *slog.Logger
	config *config.Config

	classifier *services.ClassifierService
	binary     *services.BinaryAnalysisService
	digest     *services.DigestService
	inventory  *services.InventoryService
	scanner    *services.ScannerService
	bulk       *services.BulkService
	archive    *services.ArchiveService
	bundle     *services.BundleService
}

// Option configures an Engine
type Option func(*Engine)

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(e *Engine) {
		e.fs = fs
	}
}

// WithLogger sets the logger. Defaults to a logger that discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = log
	}
}

// WithConfig sets the configuration. Defaults to config.Default().
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		e.config = cfg
	}
}

// New creates an engine and all of its services
func New(opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	if e.fs == nil {
		e.fs = afero.NewOsFs()
	}
	if e.logger == nil {
		e.logger = logger.Nop()
	}
	if e.config == nil {
		e.config = config.Default()
	}
	if err := e.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}

	classifier := signature.NewClassifier(
		signature.WithAppArchiveExtensions(e.config.Classifier.AppArchiveExtensions...),
	)

	e.classifier = services.NewClassifierService(e.fs, classifier)
	e.binary = services.NewBinaryAnalysisService(e.fs)
	e.digest = services.NewDigestService(e.fs, e.config.Digest.ChunkSize, e.config.Digest.Workers, e.logger)
	e.inventory = services.NewInventoryService(e.fs, e.classifier)
	e.scanner = services.NewScannerService(e.fs, e.inventory, e.logger)
	e.bulk = services.NewBulkService(e.fs, e.digest, e.config.Digest.ChunkSize, e.logger)
	e.archive = services.NewArchiveService(e.fs, e.logger)
	e.bundle = services.NewBundleService(e.fs, e.logger)

	return e, nil
}

// Config returns the configuration the engine was built with
func (e *Engine) Config() *config.Config {
	return e.config
}

// Logger returns the engine logger
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

// DefaultScanOptions returns scan options taken from the configuration
func (e *Engine) DefaultScanOptions() services.ScanOptions {
	return services.ScanOptions{
		Recursive: e.config.Scan.Recursive,
		MaxDepth:  e.config.Scan.MaxDepth,
	}
}

// Classify determines the type of the file at path
func (e *Engine) Classify(path string) (types.FileType, error) {
	return e.classifier.Classify(path)
}

// ClassifyBytes determines a type from a name and leading bytes without touching the filesystem
func (e *Engine) ClassifyBytes(name string, prefix []byte) types.FileType {
	return e.classifier.ClassifyBytes(name, prefix)
}

// Inspect builds the full record for a single path
func (e *Engine) Inspect(path string) (types.FileRecord, error) {
	return e.inventory.Inspect(path)
}

// Digest computes MD5, SHA-1 and SHA-256 of a file in one pass
func (e *Engine) Digest(ctx context.Context, path string) (types.DigestSet, error) {
	return e.digest.Digest(ctx, path)
}

// DigestAll hashes paths concurrently. Results keep the order of paths.
func (e *Engine) DigestAll(ctx context.Context, paths []string) []services.DigestResult {
	return e.digest.DigestAll(ctx, paths)
}

// AnalyzeBinary decodes the Mach-O header of the file at path
func (e *Engine) AnalyzeBinary(path string) (types.BinaryImageDescriptor, error) {
	return e.binary.Analyze(path)
}

// Scan lists the entries below dir
func (e *Engine) Scan(ctx context.Context, dir string, opts services.ScanOptions) ([]types.FileRecord, error) {
	return e.scanner.Scan(ctx, dir, opts)
}

// BulkDelete removes every path, continuing past failures
func (e *Engine) BulkDelete(ctx context.Context, paths []string) (types.BulkResult, error) {
	return e.bulk.Delete(ctx, paths)
}

// BulkCopy copies every path into destDir, continuing past failures
func (e *Engine) BulkCopy(ctx context.Context, paths []string, destDir string) (types.BulkResult, error) {
	return e.bulk.Copy(ctx, paths, destDir)
}

// BulkMove moves every path into destDir, continuing past failures
func (e *Engine) BulkMove(ctx context.Context, paths []string, destDir string) (types.BulkResult, error) {
	return e.bulk.Move(ctx, paths, destDir)
}

// Compare reports whether two files hold the same bytes
func (e *Engine) Compare(ctx context.Context, path1, path2 string) (types.CompareResult, error) {
	return e.bulk.Compare(ctx, path1, path2)
}

// CheckIntegrity compares the SHA-256 of path with an expected hex digest
func (e *Engine) CheckIntegrity(ctx context.Context, path, expected string) (bool, error) {
	return e.bulk.CheckIntegrity(ctx, path, expected)
}

// CreateArchive writes sources into a new ZIP archive
func (e *Engine) CreateArchive(ctx context.Context, sources []string, output string) (types.ArchiveResult, error) {
	return e.archive.Create(ctx, sources, output)
}

// ExtractArchive unpacks a ZIP archive into destDir
func (e *Engine) ExtractArchive(ctx context.Context, archivePath, destDir string) (types.ArchiveResult, error) {
	return e.archive.Extract(ctx, archivePath, destDir)
}

// ValidateArchive checks the structure and checksums of a ZIP archive
func (e *Engine) ValidateArchive(ctx context.Context, archivePath string) (types.ArchiveResult, error) {
	return e.archive.Validate(ctx, archivePath)
}

// AnalyzeBundle reads application metadata from an app archive
func (e *Engine) AnalyzeBundle(ctx context.Context, archivePath string) (types.BundleMetadata, error) {
	return e.bundle.Analyze(ctx, archivePath)
}
