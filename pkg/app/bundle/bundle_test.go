package bundle

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"

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

func createTestIPA(t *testing.T) []byte {
	t.Helper()
	info, err := plist.Marshal(map[string]interface{}{
		"CFBundleIdentifier":         "com.example.shop",
		"CFBundleShortVersionString": "1.0",
		"CFBundleVersion":            "7",
		"CFBundleName":               "Shop",
	}, plist.BinaryFormat)
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range map[string][]byte{
		"Payload/Shop.app/Info.plist":               info,
		"Payload/Shop.app/embedded.mobileprovision": []byte("profile"),
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestHandle(t *testing.T) {
	ctx, fs := newTestContext(t)
	require.NoError(t, afero.WriteFile(fs, "/apps/Shop.ipa", createTestIPA(t), 0o644))

	resp, err := Handle(ctx, &Request{ArchivePath: "/apps/Shop.ipa"})
	require.NoError(t, err)

	assert.Equal(t, ctx.RunID, resp.RunID)
	assert.Equal(t, "com.example.shop", resp.Bundle.BundleIdentifier)
	assert.Equal(t, "Shop", resp.Bundle.DisplayName)
	assert.Equal(t, "Payload/Shop.app", resp.Bundle.AppPath)
	assert.True(t, resp.Bundle.HasEmbeddedProvisioning)
	assert.False(t, resp.Bundle.IsSigned)

	var table bytes.Buffer
	require.NoError(t, FormatOutput(&table, resp, app.FormatTable))
	assert.Contains(t, table.String(), "com.example.shop")
	assert.Contains(t, table.String(), "Provisioning Profile:")

	var yamlOut bytes.Buffer
	require.NoError(t, FormatOutput(&yamlOut, resp, app.FormatYAML))
	assert.Contains(t, yamlOut.String(), "bundle_identifier: com.example.shop")
}

func TestHandle_Errors(t *testing.T) {
	ctx, fs := newTestContext(t)
	require.NoError(t, afero.WriteFile(fs, "/apps/broken.ipa", []byte("not a zip"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/apps/data.tgz", []byte{0x1F, 0x8B, 0x08}, 0o644))

	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing path", "", app.ErrCodeInvalidInput},
		{"missing file", "/apps/none.ipa", app.ErrCodeIO},
		{"not a zip", "/apps/broken.ipa", app.ErrCodeFormat},
		{"gzip", "/apps/data.tgz", app.ErrCodeNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Handle(ctx, &Request{ArchivePath: tt.path})
			var appErr *app.CommonError
			require.True(t, errors.As(err, &appErr), "got %v", err)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}
