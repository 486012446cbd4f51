package bundle

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
	"github.com/deploymenttheory/go-fileprobe/pkg/app"
)

// Request represents an app archive analysis request
type Request struct {
	ArchivePath string
}

// Response represents the metadata of one app archive
type Response struct {
	RunID       string               `json:"run_id" yaml:"run_id"`
	ArchivePath string               `json:"archive_path" yaml:"archive_path"`
	Bundle      types.BundleMetadata `json:"bundle" yaml:"bundle"`
}

// Validate validates a bundle request
func (r *Request) Validate() error {
	if r.ArchivePath == "" {
		return app.NewError(app.ErrCodeInvalidInput, "archive path is required", nil)
	}
	return nil
}

// Handle processes a bundle request
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log("analyzing app archive", "path", req.ArchivePath)

	meta, err := ctx.Engine.AnalyzeBundle(ctx, req.ArchivePath)
	if err != nil {
		return nil, app.FromEngineError(fmt.Sprintf("failed to analyze %s", req.ArchivePath), err)
	}

	return &Response{
		RunID:       ctx.RunID,
		ArchivePath: req.ArchivePath,
		Bundle:      meta,
	}, nil
}

// FormatOutput formats bundle metadata according to output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	return app.Render(w, format, response, func(tw *tabwriter.Writer) error {
		b := response.Bundle
		rows := [][2]string{
			{"Archive", response.ArchivePath},
			{"Application", b.AppPath},
			{"Bundle ID", b.BundleIdentifier},
			{"Display Name", b.DisplayName},
			{"Version", b.Version},
			{"Build", b.BuildVersion},
			{"Minimum OS", b.MinimumOSVersion},
			{"Executable", b.ExecutableName},
			{"Mach-O Images", fmt.Sprintf("%d", b.ExecutableCount)},
			{"Code Signature", app.YesNo(b.IsSigned)},
			{"Provisioning Profile", app.YesNo(b.HasEmbeddedProvisioning)},
		}
		for _, row := range rows {
			value := row[1]
			if value == "" {
				value = "-"
			}
			fmt.Fprintf(tw, "%s:\t%s\n", row[0], value)
		}
		return nil
	})
}
