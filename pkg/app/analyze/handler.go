package analyze

import (
	"github.com/deploymenttheory/go-fileprobe/internal/types"
	"github.com/deploymenttheory/go-fileprobe/pkg/app"
)

// Handle processes an analysis request. Per-file failures are reported in the
// response and counted in Failed; only an invalid request returns an error.
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log("analyzing files", "view", string(req.View), "count", len(req.Paths))

	response := &Response{
		RunID: ctx.RunID,
		View:  req.View,
		Files: make([]FileReport, len(req.Paths)),
	}

	if req.View == ViewDigest {
		for i, result := range ctx.Engine.DigestAll(ctx, req.Paths) {
			report := FileReport{Path: result.Path}
			if result.Err != nil {
				report.Error = result.Err.Error()
			} else {
				digests := result.Digests
				report.Digests = &digests
			}
			response.Files[i] = report
		}
	} else {
		for i, path := range req.Paths {
			if err := ctx.Err(); err != nil {
				return nil, app.FromEngineError("analysis interrupted", err)
			}
			response.Files[i] = analyzeFile(ctx, req.View, path)
			ctx.Progress(path, (i+1)*100/len(req.Paths))
		}
	}

	for i := range response.Files {
		report := &response.Files[i]
		if report.Error != "" {
			response.Failed++
			ctx.Log("analysis failed", "path", report.Path, "error", report.Error)
			continue
		}
		if report.TypeName == "" && req.View != ViewDigest {
			report.TypeName = report.Type.DisplayName()
		}
	}

	return response, nil
}

func analyzeFile(ctx *app.Context, view View, path string) FileReport {
	report := FileReport{Path: path}

	switch view {
	case ViewInspect:
		record, err := ctx.Engine.Inspect(path)
		if err != nil {
			report.Error = err.Error()
			return report
		}
		report.Record = &record
		report.Type = record.Type
		if record.IsDirectory {
			report.TypeName = "Directory"
		}

	case ViewMachO:
		desc, err := ctx.Engine.AnalyzeBinary(path)
		if err != nil {
			report.Error = err.Error()
			return report
		}
		report.Binary = &desc
		report.Type = types.FileTypeExecutableImage
		if ft, err := ctx.Engine.Classify(path); err == nil && ft.IsBinaryImage() {
			report.Type = ft
		}

	default:
		ft, err := ctx.Engine.Classify(path)
		if err != nil {
			report.Error = err.Error()
			return report
		}
		report.Type = ft
	}

	return report
}
