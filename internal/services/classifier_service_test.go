package services

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

func TestClassifierService_Classify(t *testing.T) {
	fs := afero.NewMemMapFs()
	svc := newTestServices(fs)

	zip := createTestZip(t, []zipEntry{{name: "Payload/App.app/Info.plist", data: []byte("x")}})
	writeTestFile(t, fs, "/in/App.ipa", zip)
	writeTestFile(t, fs, "/in/App.zip", zip)
	writeTestFile(t, fs, "/in/binary", createTestMachO())
	writeTestFile(t, fs, "/in/embedded.mobileprovision", []byte{0x30, 0x82, 0x01, 0x00})
	writeTestFile(t, fs, "/in/notes.txt", []byte{})
	writeTestFile(t, fs, "/in/blob", []byte{0x00, 0x01})
	require.NoError(t, fs.MkdirAll("/in/dir", 0o755))

	tests := []struct {
		path string
		want types.FileType
	}{
		{"/in/App.ipa", types.FileTypeAppArchive},
		{"/in/App.zip", types.FileTypeArchive},
		{"/in/binary", types.FileTypeExecutableImage},
		{"/in/embedded.mobileprovision", types.FileTypeProvisioningProfile},
		{"/in/notes.txt", types.FileTypeText},
		{"/in/blob", types.FileTypeUnknown},
		{"/in/dir", types.FileTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := svc.classifier.Classify(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifierService_Errors(t *testing.T) {
	svc := newTestServices(afero.NewMemMapFs())

	_, err := svc.classifier.Classify("/missing")
	assert.True(t, errors.Is(err, types.ErrIO))

	_, err = svc.classifier.Classify("")
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))
}
