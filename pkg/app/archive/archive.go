package archive

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
	"github.com/deploymenttheory/go-fileprobe/pkg/app"
)

// Action names an archive operation
type Action string

const (
	ActionCreate   Action = "create"
	ActionExtract  Action = "extract"
	ActionValidate Action = "validate"
)

// Request represents an archive operation request
type Request struct {
	Action Action
	// Archive is the output for create and the input otherwise.
	Archive     string
	Sources     []string
	Destination string
}

// Response represents the outcome of an archive operation
type Response struct {
	RunID   string              `json:"run_id" yaml:"run_id"`
	Action  Action              `json:"action" yaml:"action"`
	Archive string              `json:"archive" yaml:"archive"`
	Result  types.ArchiveResult `json:"result" yaml:"result"`
}

// Validate validates an archive request
func (r *Request) Validate() error {
	if r.Archive == "" {
		return app.NewError(app.ErrCodeInvalidInput, "archive path is required", nil)
	}

	switch r.Action {
	case ActionCreate:
		if len(r.Sources) == 0 {
			return app.NewError(app.ErrCodeInvalidInput, "at least one source path is required", nil)
		}
	case ActionExtract:
		if r.Destination == "" {
			return app.NewError(app.ErrCodeInvalidInput, "destination directory is required", nil)
		}
	case ActionValidate:
	default:
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("unknown archive action: %q", r.Action), nil)
	}
	return nil
}

// Handle processes an archive request
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log("archive operation", "action", string(req.Action), "archive", req.Archive)

	var (
		result types.ArchiveResult
		err    error
	)
	switch req.Action {
	case ActionCreate:
		result, err = ctx.Engine.CreateArchive(ctx, req.Sources, req.Archive)
	case ActionExtract:
		result, err = ctx.Engine.ExtractArchive(ctx, req.Archive, req.Destination)
	case ActionValidate:
		result, err = ctx.Engine.ValidateArchive(ctx, req.Archive)
	}
	if err != nil {
		return nil, app.FromEngineError(fmt.Sprintf("failed to %s %s", req.Action, req.Archive), err)
	}

	return &Response{RunID: ctx.RunID, Action: req.Action, Archive: req.Archive, Result: result}, nil
}

// FormatOutput formats an archive result according to output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	return app.Render(w, format, response, func(tw *tabwriter.Writer) error {
		fmt.Fprintf(tw, "Action:\t%s\n", response.Action)
		fmt.Fprintf(tw, "Archive:\t%s\n", response.Archive)
		if response.Action == ActionExtract {
			fmt.Fprintf(tw, "Destination:\t%s\n", response.Result.Path)
		}
		fmt.Fprintf(tw, "Entries:\t%d\n", response.Result.Entries)
		fmt.Fprintf(tw, "Size:\t%s\n", app.FormatBytes(response.Result.Bytes))
		if response.Action == ActionValidate {
			fmt.Fprintf(tw, "Status:\tvalid\n")
		}
		return nil
	})
}
