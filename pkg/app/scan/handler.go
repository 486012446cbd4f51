package scan

import (
	"fmt"
	"strings"
	"time"

	"github.com/deploymenttheory/go-fileprobe/internal/parsers/signature"
	"github.com/deploymenttheory/go-fileprobe/internal/services"
	"github.com/deploymenttheory/go-fileprobe/internal/types"
	"github.com/deploymenttheory/go-fileprobe/pkg/app"
)

// Handle processes a scan request
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}
	f, err := req.compileFilter()
	if err != nil {
		return nil, err
	}

	ctx.Log("starting directory scan", "path", req.Path, "recursive", req.Recursive, "max_depth", req.MaxDepth)
	logCriteria(ctx, req)
	ctx.Progress("Scanning directory...", 10)

	// 2. Walk the tree
	records, err := ctx.Engine.Scan(ctx, req.Path, services.ScanOptions{
		Recursive: req.Recursive,
		MaxDepth:  req.MaxDepth,
	})
	if err != nil {
		return nil, app.FromEngineError(fmt.Sprintf("failed to scan %s", req.Path), err)
	}

	ctx.Progress("Filtering results...", 80)

	// 3. Filter and summarise
	response := &Response{
		RunID:        ctx.RunID,
		Root:         req.Path,
		Files:        []FileResult{},
		TotalScanned: len(records),
		TypeCounts:   map[string]int{},
		Query:        createQuery(req),
	}
	for _, record := range records {
		if !f.matches(record) {
			continue
		}
		response.TotalFound++
		if !record.IsDirectory {
			response.TypeCounts[record.Type.String()]++
		}
		if req.MaxResults > 0 && len(response.Files) >= req.MaxResults {
			response.Truncated = true
			continue
		}
		response.Files = append(response.Files, newFileResult(record))
	}

	if req.AnalyzeBinaries {
		ctx.Progress("Analyzing binaries...", 90)
		if err := analyzeBinaries(ctx, response.Files); err != nil {
			return nil, app.FromEngineError("binary analysis interrupted", err)
		}
	}
	response.ScanTime = time.Since(startTime)

	ctx.Progress("Complete", 100)
	ctx.Log("scan completed", "scanned", response.TotalScanned, "matched", response.TotalFound, "elapsed", response.ScanTime)

	return response, nil
}

// analyzeBinaries attaches header facts to executable images and dynamic libraries.
// A file that fails to parse keeps its listing and carries the error text instead.
func analyzeBinaries(ctx *app.Context, files []FileResult) error {
	for i := range files {
		file := &files[i]
		if file.IsDirectory || !isBinaryType(file.Type) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		desc, err := ctx.Engine.AnalyzeBinary(file.Path)
		if err != nil {
			file.BinaryError = err.Error()
			ctx.Log("binary analysis failed", "path", file.Path, "error", err)
			continue
		}
		file.Binary = &desc
	}
	return nil
}

func isBinaryType(t types.FileType) bool {
	return t == types.FileTypeExecutableImage || t == types.FileTypeDynamicLibrary
}

// logCriteria logs the filter criteria for verbose output
func logCriteria(ctx *app.Context, req *Request) {
	if !ctx.Verbose {
		return
	}

	if req.NamePattern != "" {
		ctx.Log("filter", "name_pattern", req.NamePattern)
	}
	if req.NameRegex != "" {
		ctx.Log("filter", "name_regex", req.NameRegex)
	}
	if len(req.Extensions) > 0 {
		ctx.Log("filter", "extensions", strings.Join(req.Extensions, ", "))
	}
	if len(req.Types) > 0 {
		ctx.Log("filter", "types", strings.Join(req.Types, ", "))
	}
	if req.MinSize != "" || req.MaxSize != "" {
		ctx.Log("filter", "min_size", req.MinSize, "max_size", req.MaxSize)
	}
}

func newFileResult(r types.FileRecord) FileResult {
	result := FileResult{
		Path:         r.Path,
		Name:         r.Name,
		Type:         r.Type,
		TypeName:     r.Type.DisplayName(),
		Size:         r.Size,
		Modified:     r.ModTime,
		Depth:        r.Depth,
		Signature:    r.Signature,
		IsDirectory:  r.IsDirectory,
		IsExecutable: r.IsExecutable,
		LoopDetected: r.LoopDetected,
		DepthLimited: r.DepthLimited,
		Error:        r.Error,
	}
	if !r.IsDirectory {
		result.Extension = signature.Extension(r.Name)
	} else {
		result.TypeName = "Directory"
	}
	return result
}

// createQuery creates a Query from the request
func createQuery(req *Request) Query {
	return Query{
		Recursive:      req.Recursive,
		MaxDepth:       req.MaxDepth,
		NamePattern:    req.NamePattern,
		NameRegex:      req.NameRegex,
		Extensions:     req.Extensions,
		Types:          req.Types,
		CaseSensitive:  req.CaseSensitive,
		MinSize:        req.MinSize,
		MaxSize:        req.MaxSize,
		ModifiedAfter:  req.ModifiedAfter,
		ModifiedBefore: req.ModifiedBefore,
		FilesOnly:      req.FilesOnly,
		MaxResults:     req.MaxResults,

		AnalyzeBinaries: req.AnalyzeBinaries,
	}
}
