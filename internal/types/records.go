package types

import (
	"time"
)

// FileRecord describes one filesystem entry as seen by the inventory
type FileRecord struct {
	Path         string    `json:"path" yaml:"path"`
	Name         string    `json:"name" yaml:"name"`
	Type         FileType  `json:"type" yaml:"type"`
	Size         int64     `json:"size" yaml:"size"`
	Signature    string    `json:"signature,omitempty" yaml:"signature,omitempty"`
	IsDirectory  bool      `json:"is_directory" yaml:"is_directory"`
	IsExecutable bool      `json:"is_executable" yaml:"is_executable"`
	IsSigned     bool      `json:"is_signed" yaml:"is_signed"` // reserved, never set
	ModTime      time.Time `json:"mod_time" yaml:"mod_time"`
	Depth        int       `json:"depth" yaml:"depth"`
	LoopDetected bool      `json:"loop_detected,omitempty" yaml:"loop_detected,omitempty"`
	// DepthLimited marks a directory listed at the depth limit whose contents were not walked.
	DepthLimited bool      `json:"depth_limited,omitempty" yaml:"depth_limited,omitempty"`
	Error        string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// DigestSet holds lowercase hex digests computed over the same bytes
type DigestSet struct {
	MD5    string `json:"md5" yaml:"md5"`
	SHA1   string `json:"sha1" yaml:"sha1"`
	SHA256 string `json:"sha256" yaml:"sha256"`
}

// IsZero reports whether no digest was computed
func (d DigestSet) IsZero() bool {
	return d.MD5 == "" && d.SHA1 == "" && d.SHA256 == ""
}

// BinaryImageDescriptor holds the structural facts read from a Mach-O or fat header
type BinaryImageDescriptor struct {
	IsValid               bool   `json:"is_valid" yaml:"is_valid"`
	Is64Bit               bool   `json:"is_64_bit" yaml:"is_64_bit"`
	IsArm64e              bool   `json:"is_arm64e" yaml:"is_arm64e"`
	ArchitectureCount     int    `json:"architecture_count" yaml:"architecture_count"`
	Architectures         string `json:"architectures" yaml:"architectures"`
	HasEncryption         bool   `json:"has_encryption" yaml:"has_encryption"` // reserved, never set
	IsPositionIndependent bool   `json:"is_position_independent" yaml:"is_position_independent"`
	LoadCommandCount      int    `json:"load_command_count" yaml:"load_command_count"`
	Magic                 uint32 `json:"magic" yaml:"magic"`
	ByteOrder             string `json:"byte_order,omitempty" yaml:"byte_order,omitempty"`
	FileKind              string `json:"file_kind,omitempty" yaml:"file_kind,omitempty"`
	CPUType               string `json:"cpu_type,omitempty" yaml:"cpu_type,omitempty"`
}

// IsUniversal reports whether the descriptor came from a fat header
func (d BinaryImageDescriptor) IsUniversal() bool {
	return d.Architectures == ArchLabelUniversal
}

// BundleMetadata is what an app archive reports about its main application
type BundleMetadata struct {
	BundleIdentifier        string `json:"bundle_identifier" yaml:"bundle_identifier"`
	Version                 string `json:"version" yaml:"version"`
	BuildVersion            string `json:"build_version,omitempty" yaml:"build_version,omitempty"`
	MinimumOSVersion        string `json:"minimum_os_version,omitempty" yaml:"minimum_os_version,omitempty"`
	DisplayName             string `json:"display_name" yaml:"display_name"`
	ExecutableName          string `json:"executable_name,omitempty" yaml:"executable_name,omitempty"`
	AppPath                 string `json:"app_path" yaml:"app_path"`
	HasEmbeddedProvisioning bool   `json:"has_embedded_provisioning" yaml:"has_embedded_provisioning"`
	IsSigned                bool   `json:"is_signed" yaml:"is_signed"`
	ExecutableCount         int    `json:"executable_count" yaml:"executable_count"`
}

// CompareResult reports how two files differ
type CompareResult struct {
	Identical      bool   `json:"identical" yaml:"identical"`
	SizeMismatch   bool   `json:"size_mismatch" yaml:"size_mismatch"`
	SizeDifference uint64 `json:"size_difference" yaml:"size_difference"`
	DifferingBytes uint64 `json:"differing_bytes" yaml:"differing_bytes"`
	Size1          int64  `json:"size1" yaml:"size1"`
	Size2          int64  `json:"size2" yaml:"size2"`
}

// ItemResult is the outcome of a bulk operation on one path
type ItemResult struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty"`
	Err         error  `json:"-" yaml:"-"`
}

// OK reports whether the item succeeded
func (r ItemResult) OK() bool {
	return r.Err == nil
}

// BulkResult collects per-item outcomes of a bulk operation
type BulkResult struct {
	Items     []ItemResult `json:"items" yaml:"items"`
	Succeeded int          `json:"succeeded" yaml:"succeeded"`
}

// Add records one item outcome
func (b *BulkResult) Add(item ItemResult) {
	b.Items = append(b.Items, item)
	if item.OK() {
		b.Succeeded++
	}
}

// Failed returns the number of failed items
func (b BulkResult) Failed() int {
	return len(b.Items) - b.Succeeded
}

// AllSucceeded reports whether every item succeeded
func (b BulkResult) AllSucceeded() bool {
	return b.Failed() == 0
}

// ArchiveResult summarises an archive create or extract
type ArchiveResult struct {
	Path    string `json:"path" yaml:"path"`
	Entries int    `json:"entries" yaml:"entries"`
	Bytes   int64  `json:"bytes" yaml:"bytes"`
}
