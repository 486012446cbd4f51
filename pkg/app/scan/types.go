package scan

import (
	"time"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// Request represents a directory scan request
type Request struct {
	Path      string
	Recursive bool
	// MaxDepth of 0 means unlimited.
	MaxDepth int

	// Filter criteria
	NamePattern    string
	NameRegex      string
	Extensions     []string
	Types          []string
	CaseSensitive  bool
	MinSize        string
	MaxSize        string
	ModifiedAfter  string
	ModifiedBefore string
	FilesOnly      bool
	// MaxResults of 0 means unlimited.
	MaxResults int

	// AnalyzeBinaries decodes the Mach-O header of every listed executable image
	// and dynamic library.
	AnalyzeBinaries bool
}

// Response represents scan results
type Response struct {
	RunID        string         `json:"run_id" yaml:"run_id"`
	Root         string         `json:"root" yaml:"root"`
	Files        []FileResult   `json:"files" yaml:"files"`
	TotalScanned int            `json:"total_scanned" yaml:"total_scanned"`
	TotalFound   int            `json:"total_found" yaml:"total_found"`
	TypeCounts   map[string]int `json:"type_counts" yaml:"type_counts"`
	ScanTime     time.Duration  `json:"scan_time" yaml:"scan_time"`
	Truncated    bool           `json:"truncated" yaml:"truncated"`
	Query        Query          `json:"query" yaml:"query"`
}

// FileResult represents one matching entry
type FileResult struct {
	Path         string         `json:"path" yaml:"path"`
	Name         string         `json:"name" yaml:"name"`
	Extension    string         `json:"extension,omitempty" yaml:"extension,omitempty"`
	Type         types.FileType `json:"type" yaml:"type"`
	TypeName     string         `json:"type_name" yaml:"type_name"`
	Size         int64          `json:"size" yaml:"size"`
	Modified     time.Time      `json:"modified" yaml:"modified"`
	Depth        int            `json:"depth" yaml:"depth"`
	Signature    string         `json:"signature,omitempty" yaml:"signature,omitempty"`
	IsDirectory  bool           `json:"is_directory" yaml:"is_directory"`
	IsExecutable bool           `json:"is_executable" yaml:"is_executable"`
	LoopDetected bool           `json:"loop_detected,omitempty" yaml:"loop_detected,omitempty"`
	DepthLimited bool           `json:"depth_limited,omitempty" yaml:"depth_limited,omitempty"`
	Error        string         `json:"error,omitempty" yaml:"error,omitempty"`

	Binary      *types.BinaryImageDescriptor `json:"binary,omitempty" yaml:"binary,omitempty"`
	BinaryError string                       `json:"binary_error,omitempty" yaml:"binary_error,omitempty"`
}

// Query represents the executed scan parameters
type Query struct {
	Recursive      bool     `json:"recursive" yaml:"recursive"`
	MaxDepth       int      `json:"max_depth" yaml:"max_depth"`
	NamePattern    string   `json:"name_pattern,omitempty" yaml:"name_pattern,omitempty"`
	NameRegex      string   `json:"name_regex,omitempty" yaml:"name_regex,omitempty"`
	Extensions     []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Types          []string `json:"types,omitempty" yaml:"types,omitempty"`
	CaseSensitive  bool     `json:"case_sensitive" yaml:"case_sensitive"`
	MinSize        string   `json:"min_size,omitempty" yaml:"min_size,omitempty"`
	MaxSize        string   `json:"max_size,omitempty" yaml:"max_size,omitempty"`
	ModifiedAfter  string   `json:"modified_after,omitempty" yaml:"modified_after,omitempty"`
	ModifiedBefore string   `json:"modified_before,omitempty" yaml:"modified_before,omitempty"`
	FilesOnly      bool     `json:"files_only" yaml:"files_only"`
	MaxResults     int      `json:"max_results" yaml:"max_results"`

	AnalyzeBinaries bool `json:"analyze_binaries" yaml:"analyze_binaries"`
}
