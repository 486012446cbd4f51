package fileops

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
	"github.com/deploymenttheory/go-fileprobe/pkg/app"
)

// Operation names a bulk file operation
type Operation string

const (
	OpDelete Operation = "delete"
	OpCopy   Operation = "copy"
	OpMove   Operation = "move"
)

// Request represents a bulk file operation request
type Request struct {
	Op          Operation
	Paths       []string
	Destination string
}

// Response represents per-item outcomes in request order
type Response struct {
	RunID       string       `json:"run_id" yaml:"run_id"`
	Op          Operation    `json:"op" yaml:"op"`
	Destination string       `json:"destination,omitempty" yaml:"destination,omitempty"`
	Items       []ItemReport `json:"items" yaml:"items"`
	Succeeded   int          `json:"succeeded" yaml:"succeeded"`
	Failed      int          `json:"failed" yaml:"failed"`
}

// ItemReport is the outcome for one source path
type ItemReport struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty"`
	OK          bool   `json:"ok" yaml:"ok"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Validate validates a bulk operation request
func (r *Request) Validate() error {
	if len(r.Paths) == 0 {
		return app.NewError(app.ErrCodeInvalidInput, "at least one path is required", nil)
	}

	switch r.Op {
	case OpDelete:
		if r.Destination != "" {
			return app.NewError(app.ErrCodeInvalidInput, "delete does not take a destination", nil)
		}
	case OpCopy, OpMove:
		if r.Destination == "" {
			return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("%s requires a destination directory", r.Op), nil)
		}
	default:
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("unknown operation: %q", r.Op), nil)
	}
	return nil
}

// Handle processes a bulk operation request. Items fail independently; the
// returned error is reserved for requests that cannot start at all.
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log("starting bulk operation", "op", string(req.Op), "count", len(req.Paths), "destination", req.Destination)

	var (
		result types.BulkResult
		err    error
	)
	switch req.Op {
	case OpDelete:
		result, err = ctx.Engine.BulkDelete(ctx, req.Paths)
	case OpCopy:
		result, err = ctx.Engine.BulkCopy(ctx, req.Paths, req.Destination)
	case OpMove:
		result, err = ctx.Engine.BulkMove(ctx, req.Paths, req.Destination)
	}
	if err != nil {
		return nil, app.FromEngineError(fmt.Sprintf("%s failed", req.Op), err)
	}

	response := &Response{
		RunID:       ctx.RunID,
		Op:          req.Op,
		Destination: req.Destination,
		Items:       make([]ItemReport, 0, len(result.Items)),
		Succeeded:   result.Succeeded,
		Failed:      result.Failed(),
	}
	for _, item := range result.Items {
		report := ItemReport{Source: item.Source, Destination: item.Destination, OK: item.OK()}
		if item.Err != nil {
			report.Error = item.Err.Error()
			ctx.Error("item failed", "op", string(req.Op), "source", item.Source, "error", item.Err)
		}
		response.Items = append(response.Items, report)
	}

	ctx.Log("bulk operation completed", "op", string(req.Op), "succeeded", response.Succeeded, "failed", response.Failed)
	return response, nil
}

// FormatOutput formats bulk results according to output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	return app.Render(w, format, response, func(tw *tabwriter.Writer) error {
		fmt.Fprintf(tw, "SOURCE\tDESTINATION\tSTATUS\n")
		fmt.Fprintf(tw, "------\t-----------\t------\n")
		for _, item := range response.Items {
			status := "ok"
			if !item.OK {
				status = "failed: " + item.Error
			}
			dest := item.Destination
			if dest == "" {
				dest = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Source, dest, status)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s: %d succeeded, %d failed\n", response.Op, response.Succeeded, response.Failed)
		return nil
	})
}
