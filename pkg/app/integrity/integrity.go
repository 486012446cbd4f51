package integrity

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
	"github.com/deploymenttheory/go-fileprobe/pkg/app"
)

// CompareRequest represents a byte-for-byte comparison of two files
type CompareRequest struct {
	Path1 string
	Path2 string
}

// CompareResponse represents a comparison outcome
type CompareResponse struct {
	RunID  string              `json:"run_id" yaml:"run_id"`
	Path1  string              `json:"path1" yaml:"path1"`
	Path2  string              `json:"path2" yaml:"path2"`
	Result types.CompareResult `json:"result" yaml:"result"`
}

// VerifyRequest represents a SHA-256 integrity check
type VerifyRequest struct {
	Path     string
	Expected string
}

// VerifyResponse represents an integrity check outcome
type VerifyResponse struct {
	RunID    string `json:"run_id" yaml:"run_id"`
	Path     string `json:"path" yaml:"path"`
	Expected string `json:"expected" yaml:"expected"`
	Actual   string `json:"actual" yaml:"actual"`
	Match    bool   `json:"match" yaml:"match"`
}

// Validate validates a compare request
func (r *CompareRequest) Validate() error {
	if r.Path1 == "" || r.Path2 == "" {
		return app.NewError(app.ErrCodeInvalidInput, "two file paths are required", nil)
	}
	return nil
}

// Validate validates a verify request
func (r *VerifyRequest) Validate() error {
	if r.Path == "" {
		return app.NewError(app.ErrCodeInvalidInput, "file path is required", nil)
	}
	if strings.TrimSpace(r.Expected) == "" {
		return app.NewError(app.ErrCodeInvalidInput, "expected SHA-256 digest is required", nil)
	}
	return nil
}

// HandleCompare processes a compare request
func HandleCompare(ctx *app.Context, req *CompareRequest) (*CompareResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log("comparing files", "path1", req.Path1, "path2", req.Path2)

	result, err := ctx.Engine.Compare(ctx, req.Path1, req.Path2)
	if err != nil {
		return nil, app.FromEngineError("failed to compare files", err)
	}

	return &CompareResponse{RunID: ctx.RunID, Path1: req.Path1, Path2: req.Path2, Result: result}, nil
}

// HandleVerify processes a verify request. The actual digest is always reported so a
// mismatch can be inspected.
func HandleVerify(ctx *app.Context, req *VerifyRequest) (*VerifyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log("verifying file", "path", req.Path)

	match, err := ctx.Engine.CheckIntegrity(ctx, req.Path, req.Expected)
	if err != nil {
		return nil, app.FromEngineError(fmt.Sprintf("failed to verify %s", req.Path), err)
	}
	digests, err := ctx.Engine.Digest(ctx, req.Path)
	if err != nil {
		return nil, app.FromEngineError(fmt.Sprintf("failed to hash %s", req.Path), err)
	}

	return &VerifyResponse{
		RunID:    ctx.RunID,
		Path:     req.Path,
		Expected: strings.ToLower(strings.TrimSpace(req.Expected)),
		Actual:   digests.SHA256,
		Match:    match,
	}, nil
}

// FormatCompare formats a comparison according to output format
func FormatCompare(w io.Writer, response *CompareResponse, format string) error {
	return app.Render(w, format, response, func(tw *tabwriter.Writer) error {
		r := response.Result
		fmt.Fprintf(tw, "File 1:\t%s (%s)\n", response.Path1, app.FormatBytes(r.Size1))
		fmt.Fprintf(tw, "File 2:\t%s (%s)\n", response.Path2, app.FormatBytes(r.Size2))
		switch {
		case r.Identical:
			fmt.Fprintf(tw, "Result:\tidentical\n")
		case r.SizeMismatch:
			fmt.Fprintf(tw, "Result:\tsizes differ by %d bytes\n", r.SizeDifference)
		default:
			fmt.Fprintf(tw, "Result:\t%d differing bytes\n", r.DifferingBytes)
		}
		return nil
	})
}

// FormatVerify formats a verification according to output format
func FormatVerify(w io.Writer, response *VerifyResponse, format string) error {
	return app.Render(w, format, response, func(tw *tabwriter.Writer) error {
		status := "OK"
		if !response.Match {
			status = "MISMATCH"
		}
		fmt.Fprintf(tw, "File:\t%s\n", response.Path)
		fmt.Fprintf(tw, "Expected:\t%s\n", response.Expected)
		fmt.Fprintf(tw, "Actual:\t%s\n", response.Actual)
		fmt.Fprintf(tw, "Status:\t%s\n", status)
		return nil
	})
}
