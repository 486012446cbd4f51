package scan

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

func testResponse() *Response {
	return &Response{
		RunID:        "run-1",
		Root:         "/data",
		TotalScanned: 3,
		TotalFound:   2,
		TypeCounts:   map[string]int{"text": 1},
		ScanTime:     time.Millisecond,
		Files: []FileResult{
			{Path: "/data/sub", Name: "sub", TypeName: "Directory", IsDirectory: true, Depth: 1},
			{Path: "/data/sub/a.txt", Name: "a.txt", Type: types.FileTypeText, TypeName: "Text", Size: 2048, Depth: 2, Signature: "61 62"},
		},
	}
}

func TestFormatOutput(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		wantErr  bool
		validate func(*testing.T, string)
	}{
		{
			name:   "table format",
			format: "table",
			validate: func(t *testing.T, output string) {
				assert.Contains(t, output, "PATH")
				assert.Contains(t, output, "/data/sub/a.txt")
				assert.Contains(t, output, "2.0 KB")
				assert.Contains(t, output, "Found 2 of 3 entries")
				assert.Contains(t, output, "text: 1")
			},
		},
		{
			name:   "json format",
			format: "json",
			validate: func(t *testing.T, output string) {
				var decoded map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(output), &decoded))
				assert.Equal(t, "run-1", decoded["run_id"])
				files := decoded["files"].([]interface{})
				assert.Equal(t, "text", files[1].(map[string]interface{})["type"])
			},
		},
		{
			name:   "yaml format",
			format: "yaml",
			validate: func(t *testing.T, output string) {
				var decoded map[string]interface{}
				require.NoError(t, yaml.Unmarshal([]byte(output), &decoded))
				assert.Equal(t, "/data", decoded["root"])
			},
		},
		{
			name:    "unsupported format",
			format:  "xml",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := FormatOutput(&buf, testResponse(), tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, buf.String())
		})
	}
}

func TestFormatOutput_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatOutput(&buf, &Response{}, "table"))
	assert.Contains(t, buf.String(), "No files found")
}

func TestFormatOutput_ArchColumn(t *testing.T) {
	resp := testResponse()
	resp.Query.AnalyzeBinaries = true
	resp.Files = append(resp.Files,
		FileResult{Path: "/data/sub/Demo", Name: "Demo", Type: types.FileTypeExecutableImage, TypeName: "Mach-O", Depth: 2,
			Binary: &types.BinaryImageDescriptor{IsValid: true, Architectures: types.ArchLabel64}},
		FileResult{Path: "/data/sub/libFake.dylib", Name: "libFake.dylib", Type: types.FileTypeDynamicLibrary, TypeName: "Dynamic Library", Depth: 2,
			BinaryError: "not a Mach-O header"},
		FileResult{Path: "/data/deep", Name: "deep", TypeName: "Directory", IsDirectory: true, Depth: 1, DepthLimited: true},
	)

	var buf bytes.Buffer
	require.NoError(t, FormatOutput(&buf, resp, "table"))
	output := buf.String()

	assert.Contains(t, output, "ARCH")
	assert.Contains(t, output, types.ArchLabel64)
	assert.Contains(t, output, "invalid")
	assert.Contains(t, output, "/data/deep (depth limit)")
}
