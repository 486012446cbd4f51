package analyze

import (
	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// View selects which facts are gathered for each file
type View string

const (
	ViewClassify View = "classify"
	ViewInspect  View = "inspect"
	ViewDigest   View = "digest"
	ViewMachO    View = "macho"
)

// Request represents a per-file analysis request
type Request struct {
	Paths []string
	View  View
}

// Response represents analysis results in request order
type Response struct {
	RunID  string       `json:"run_id" yaml:"run_id"`
	View   View         `json:"view" yaml:"view"`
	Files  []FileReport `json:"files" yaml:"files"`
	Failed int          `json:"failed" yaml:"failed"`
}

// FileReport holds what was learned about one path
type FileReport struct {
	Path     string                       `json:"path" yaml:"path"`
	Type     types.FileType               `json:"type,omitempty" yaml:"type,omitempty"`
	TypeName string                       `json:"type_name,omitempty" yaml:"type_name,omitempty"`
	Record   *types.FileRecord            `json:"record,omitempty" yaml:"record,omitempty"`
	Digests  *types.DigestSet             `json:"digests,omitempty" yaml:"digests,omitempty"`
	Binary   *types.BinaryImageDescriptor `json:"binary,omitempty" yaml:"binary,omitempty"`
	Error    string                       `json:"error,omitempty" yaml:"error,omitempty"`
}
