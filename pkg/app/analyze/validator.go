package analyze

import (
	"fmt"

	"github.com/deploymenttheory/go-fileprobe/pkg/app"
)

// Validate validates an analysis request
func (r *Request) Validate() error {
	if len(r.Paths) == 0 {
		return app.NewError(app.ErrCodeInvalidInput, "at least one path is required", nil)
	}
	for i, path := range r.Paths {
		if path == "" {
			return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("path %d is empty", i+1), nil)
		}
	}

	switch r.View {
	case ViewClassify, ViewInspect, ViewDigest, ViewMachO:
		return nil
	default:
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("unknown analysis view: %q", r.View), nil)
	}
}
