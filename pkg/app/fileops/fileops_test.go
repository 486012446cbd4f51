package fileops

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-fileprobe/pkg/app"
	"github.com/deploymenttheory/go-fileprobe/pkg/engine"
)

func newTestContext(t *testing.T) (*app.Context, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	eng, err := engine.New(engine.WithFs(fs))
	require.NoError(t, err)
	ctx := app.NewContext(eng, nil)
	ctx.Quiet = true
	return ctx, fs
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		wantErr bool
	}{
		{"delete", Request{Op: OpDelete, Paths: []string{"/a"}}, false},
		{"copy", Request{Op: OpCopy, Paths: []string{"/a"}, Destination: "/d"}, false},
		{"move", Request{Op: OpMove, Paths: []string{"/a"}, Destination: "/d"}, false},
		{"no paths", Request{Op: OpDelete}, true},
		{"delete with destination", Request{Op: OpDelete, Paths: []string{"/a"}, Destination: "/d"}, true},
		{"copy without destination", Request{Op: OpCopy, Paths: []string{"/a"}}, true},
		{"unknown op", Request{Op: "shred", Paths: []string{"/a"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name          string
		request       *Request
		wantSucceeded int
		wantFailed    int
		exists        map[string]bool
	}{
		{
			name:          "copy keeps sources",
			request:       &Request{Op: OpCopy, Paths: []string{"/src/a.txt", "/src/missing"}, Destination: "/dst"},
			wantSucceeded: 1,
			wantFailed:    1,
			exists:        map[string]bool{"/src/a.txt": true, "/dst/a.txt": true},
		},
		{
			name:          "move removes sources",
			request:       &Request{Op: OpMove, Paths: []string{"/src/a.txt", "/src/b.txt"}, Destination: "/dst"},
			wantSucceeded: 2,
			exists:        map[string]bool{"/src/a.txt": false, "/dst/a.txt": true, "/dst/b.txt": true},
		},
		{
			name:          "delete continues past failures",
			request:       &Request{Op: OpDelete, Paths: []string{"/src/missing", "/src/b.txt"}},
			wantSucceeded: 1,
			wantFailed:    1,
			exists:        map[string]bool{"/src/b.txt": false, "/src/a.txt": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, fs := newTestContext(t)
			require.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("a"), 0o644))
			require.NoError(t, afero.WriteFile(fs, "/src/b.txt", []byte("b"), 0o644))
			require.NoError(t, fs.MkdirAll("/dst", 0o755))

			resp, err := Handle(ctx, tt.request)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSucceeded, resp.Succeeded)
			assert.Equal(t, tt.wantFailed, resp.Failed)
			assert.Len(t, resp.Items, len(tt.request.Paths))

			for path, want := range tt.exists {
				got, _ := afero.Exists(fs, path)
				assert.Equal(t, want, got, path)
			}

			var buf bytes.Buffer
			require.NoError(t, FormatOutput(&buf, resp, app.FormatTable))
			assert.Contains(t, buf.String(), "SOURCE")
		})
	}
}

func TestHandle_MissingDestination(t *testing.T) {
	ctx, fs := newTestContext(t)
	require.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("a"), 0o644))

	_, err := Handle(ctx, &Request{Op: OpCopy, Paths: []string{"/src/a.txt"}, Destination: "/nowhere"})
	var appErr *app.CommonError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, app.ErrCodeIO, appErr.Code)
}
