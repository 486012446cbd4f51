package signature

import (
	"bytes"
	"path"
	"strings"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// DefaultAppArchiveExtensions are the extensions that turn a ZIP into an app archive.
var DefaultAppArchiveExtensions = []string{"ipa"}

// extensionTypes is consulted only when no signature matches.
var extensionTypes = map[string]types.FileType{
	"json":            types.FileTypeJSON,
	"plist":           types.FileTypePropertyList,
	"xml":             types.FileTypeXML,
	"txt":             types.FileTypeText,
	"text":            types.FileTypeText,
	"p12":             types.FileTypeKeyStore,
	"pfx":             types.FileTypeKeyStore,
	"mobileprovision": types.FileTypeProvisioningProfile,
	"dylib":           types.FileTypeDynamicLibrary,
	"mp3":             types.FileTypeAudio,
	"m4a":             types.FileTypeAudio,
}

// Classifier maps a content prefix and file name to a FileType
type Classifier struct {
	appArchiveExts map[string]struct{}
}

// Option configures a Classifier
type Option func(*Classifier)

// WithAppArchiveExtensions replaces the set of extensions that mark a ZIP as an app archive
func WithAppArchiveExtensions(exts ...string) Option {
	return func(c *Classifier) {
		c.appArchiveExts = make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
			if ext != "" {
				c.appArchiveExts[ext] = struct{}{}
			}
		}
	}
}

// NewClassifier creates a Classifier
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{}
	WithAppArchiveExtensions(DefaultAppArchiveExtensions...)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClassifyBytes classifies a file from its leading bytes and its name.
// It never touches the filesystem and always returns the same result for the same input.
func (c *Classifier) ClassifyBytes(name string, prefix []byte) types.FileType {
	if len(prefix) > MaxPrefixLength {
		prefix = prefix[:MaxPrefixLength]
	}
	ext := Extension(name)

	if entry, ok := Lookup(prefix); ok {
		if entry.ZipFamily && c.IsAppArchiveExtension(ext) {
			return types.FileTypeAppArchive
		}
		return entry.Type
	}

	// ISO base media files carry their box size before the ftyp marker and a
	// major brand after it, so a complete box header is at least 12 bytes
	if len(prefix) >= 12 && bytes.Equal(prefix[4:8], []byte("ftyp")) {
		return types.FileTypeVideo
	}

	if ft, ok := extensionTypes[ext]; ok {
		return ft
	}

	if IsText(prefix) {
		return types.FileTypeText
	}
	return types.FileTypeUnknown
}

// IsAppArchiveExtension reports whether ext marks an app archive
func (c *Classifier) IsAppArchiveExtension(ext string) bool {
	_, ok := c.appArchiveExts[strings.ToLower(ext)]
	return ok
}

// ExtensionType returns the type mapped to an extension, if any
func ExtensionType(ext string) (types.FileType, bool) {
	ft, ok := extensionTypes[strings.ToLower(ext)]
	return ft, ok
}

// Extension returns the lower-cased extension of the base name without the dot.
// Names without a dot, and dot-files such as ".profile", have no extension.
func Extension(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 || idx == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[idx+1:])
}

// IsText reports whether data looks like text: no control bytes other than tab, newline
// and carriage return. Empty input is not text.
func IsText(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for _, b := range data {
		if b < 32 && b != '\n' && b != '\r' && b != '\t' {
			return false
		}
	}
	return true
}

// HexPreview formats up to n leading bytes as space-separated uppercase hex pairs
func HexPreview(data []byte, n int) string {
	if len(data) > n {
		data = data[:n]
	}
	var sb strings.Builder
	const digits = "0123456789ABCDEF"
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(digits[b>>4])
		sb.WriteByte(digits[b&0x0f])
	}
	return sb.String()
}
