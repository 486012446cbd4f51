package services

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// DefaultChunkSize is the read buffer size used while hashing.
const DefaultChunkSize = 8192

// DigestResult pairs a path with its digests or the error that prevented them
type DigestResult struct {
	Path    string          `json:"path" yaml:"path"`
	Digests types.DigestSet `json:"digests" yaml:"digests"`
	Err     error           `json:"-" yaml:"-"`
}

// DigestService computes MD5, SHA-1 and SHA-256 in a single pass
type DigestService struct {
	fs        afero.Fs
	chunkSize int
	workers   int
	logger    *slog.Logger
}

// NewDigestService creates a new digest service. Non-positive sizes fall back to defaults.
func NewDigestService(fs afero.Fs, chunkSize, workers int, log *slog.Logger) *DigestService {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}
	if workers < 1 {
		workers = 1
	}
	return &DigestService{fs: fs, chunkSize: chunkSize, workers: workers, logger: orNop(log)}
}

// Digest hashes the file at path
func (ds *DigestService) Digest(ctx context.Context, path string) (types.DigestSet, error) {
	if path == "" {
		return types.DigestSet{}, types.InvalidArgument("digest", "path is required")
	}

	f, err := ds.fs.Open(path)
	if err != nil {
		return types.DigestSet{}, types.IOError("digest", path, err)
	}
	defer f.Close()

	digests, err := ds.DigestReader(ctx, f)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return types.DigestSet{}, err
		}
		return types.DigestSet{}, types.IOError("digest", path, err)
	}
	return digests, nil
}

// DigestReader hashes everything read from r, checking ctx between chunks
func (ds *DigestService) DigestReader(ctx context.Context, r io.Reader) (types.DigestSet, error) {
	md5Hash := md5.New()
	sha1Hash := sha1.New()
	sha256Hash := sha256.New()
	all := io.MultiWriter(md5Hash, sha1Hash, sha256Hash)

	buf := make([]byte, ds.chunkSize)
	for {
		select {
		case <-ctx.Done():
			return types.DigestSet{}, ctx.Err()
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			// hash.Hash writes never fail
			_, _ = all.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return types.DigestSet{}, err
		}
	}

	return types.DigestSet{
		MD5:    hex.EncodeToString(md5Hash.Sum(nil)),
		SHA1:   hex.EncodeToString(sha1Hash.Sum(nil)),
		SHA256: hex.EncodeToString(sha256Hash.Sum(nil)),
	}, nil
}

// DigestAll hashes paths on a bounded worker pool. Results keep the input order.
func (ds *DigestService) DigestAll(ctx context.Context, paths []string) []DigestResult {
	results := make([]DigestResult, len(paths))
	p := pool.New().WithMaxGoroutines(ds.workers)

	for i, path := range paths {
		i, path := i, path
		p.Go(func() {
			digests, err := ds.Digest(ctx, path)
			if err != nil {
				ds.logger.Debug("digest failed", "path", path, "error", err)
			}
			results[i] = DigestResult{Path: path, Digests: digests, Err: err}
		})
	}
	p.Wait()

	return results
}
