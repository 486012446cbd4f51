package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTypeNames(t *testing.T) {
	tests := []struct {
		fileType    FileType
		name        string
		displayName string
	}{
		{FileTypeUnknown, "unknown", "Unknown"},
		{FileTypeText, "text", "Text"},
		{FileTypeAppArchive, "app_archive", "IPA"},
		{FileTypeExecutableImage, "executable_image", "Mach-O"},
		{FileTypePropertyList, "property_list", "Property List"},
		{FileTypeKeyStore, "key_store", "Certificate"},
		{FileTypeProvisioningProfile, "provisioning_profile", "Provisioning Profile"},
		{FileTypeDynamicLibrary, "dynamic_library", "Dynamic Library"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.fileType.String())
			assert.Equal(t, tt.displayName, tt.fileType.DisplayName())

			parsed, err := ParseFileType(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.fileType, parsed)
		})
	}
}

func TestFileTypeOutOfRange(t *testing.T) {
	ft := FileType(99)
	assert.False(t, ft.IsValid())
	assert.Equal(t, "FileType(99)", ft.String())
	assert.Equal(t, "Unknown", ft.DisplayName())

	_, err := ParseFileType("spreadsheet")
	assert.Error(t, err)
}

func TestAllFileTypesOrder(t *testing.T) {
	all := AllFileTypes()
	require.Len(t, all, 15)
	assert.Equal(t, FileTypeUnknown, all[0])
	assert.Equal(t, FileTypeDynamicLibrary, all[len(all)-1])
}

func TestFileTypeJSON(t *testing.T) {
	record := FileRecord{Name: "a.ipa", Type: FileTypeAppArchive}

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"app_archive"`)

	var decoded FileRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, FileTypeAppArchive, decoded.Type)
}

func TestFileTypeIsBinaryImage(t *testing.T) {
	assert.True(t, FileTypeExecutableImage.IsBinaryImage())
	assert.True(t, FileTypeDynamicLibrary.IsBinaryImage())
	assert.False(t, FileTypeArchive.IsBinaryImage())
}
