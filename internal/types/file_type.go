package types

import (
	"fmt"
	"strings"
)

// FileType is the closed set of content categories the classifier can report
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeText
	FileTypeImage
	FileTypeVideo
	FileTypeAudio
	FileTypeArchive
	FileTypeAppArchive
	FileTypeExecutableImage
	FileTypePropertyList
	FileTypeJSON
	FileTypeXML
	FileTypePDF
	FileTypeKeyStore
	FileTypeProvisioningProfile
	FileTypeDynamicLibrary
)

var fileTypeNames = [...]string{
	FileTypeUnknown:             "unknown",
	FileTypeText:                "text",
	FileTypeImage:               "image",
	FileTypeVideo:               "video",
	FileTypeAudio:               "audio",
	FileTypeArchive:             "archive",
	FileTypeAppArchive:          "app_archive",
	FileTypeExecutableImage:     "executable_image",
	FileTypePropertyList:        "property_list",
	FileTypeJSON:                "json",
	FileTypeXML:                 "xml",
	FileTypePDF:                 "pdf",
	FileTypeKeyStore:            "key_store",
	FileTypeProvisioningProfile: "provisioning_profile",
	FileTypeDynamicLibrary:      "dynamic_library",
}

var fileTypeDisplayNames = [...]string{
	FileTypeUnknown:             "Unknown",
	FileTypeText:                "Text",
	FileTypeImage:               "Image",
	FileTypeVideo:               "Video",
	FileTypeAudio:               "Audio",
	FileTypeArchive:             "Archive",
	FileTypeAppArchive:          "IPA",
	FileTypeExecutableImage:     "Mach-O",
	FileTypePropertyList:        "Property List",
	FileTypeJSON:                "JSON",
	FileTypeXML:                 "XML",
	FileTypePDF:                 "PDF",
	FileTypeKeyStore:            "Certificate",
	FileTypeProvisioningProfile: "Provisioning Profile",
	FileTypeDynamicLibrary:      "Dynamic Library",
}

// AllFileTypes returns every file type in declaration order
func AllFileTypes() []FileType {
	all := make([]FileType, len(fileTypeNames))
	for i := range fileTypeNames {
		all[i] = FileType(i)
	}
	return all
}

// IsValid reports whether t is a member of the enumeration
func (t FileType) IsValid() bool {
	return t >= FileTypeUnknown && int(t) < len(fileTypeNames)
}

// String returns the stable machine-readable name
func (t FileType) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("FileType(%d)", int(t))
	}
	return fileTypeNames[t]
}

// DisplayName returns the human-readable name shown to users
func (t FileType) DisplayName() string {
	if !t.IsValid() {
		return fileTypeDisplayNames[FileTypeUnknown]
	}
	return fileTypeDisplayNames[t]
}

// IsBinaryImage reports whether the type carries a Mach-O header worth analysing
func (t FileType) IsBinaryImage() bool {
	return t == FileTypeExecutableImage || t == FileTypeDynamicLibrary
}

// MarshalText implements encoding.TextMarshaler
func (t FileType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *FileType) UnmarshalText(text []byte) error {
	parsed, err := ParseFileType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseFileType converts a machine name back into a FileType
func ParseFileType(name string) (FileType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range fileTypeNames {
		if n == name {
			return FileType(i), nil
		}
	}
	return FileTypeUnknown, fmt.Errorf("unknown file type: %q", name)
}
