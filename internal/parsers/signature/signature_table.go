package signature

import (
	"bytes"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// Entry is a single magic-byte pattern anchored at offset 0
type Entry struct {
	Magic       []byte
	Type        types.FileType
	Description string
	// ZipFamily marks ZIP container signatures that an app-archive extension can refine.
	ZipFamily bool
}

// Matches reports whether data starts with the entry's pattern
func (e Entry) Matches(data []byte) bool {
	return len(data) >= len(e.Magic) && bytes.Equal(data[:len(e.Magic)], e.Magic)
}

// MaxPrefixLength is the number of leading bytes the classifier looks at.
const MaxPrefixLength = 32

// table is ordered by priority. The first matching entry wins.
var table = []Entry{
	// Mach-O thin headers, both bitnesses and byte orders
	{Magic: []byte{0xFE, 0xED, 0xFA, 0xCE}, Type: types.FileTypeExecutableImage, Description: "Mach-O 32-bit"},
	{Magic: []byte{0xFE, 0xED, 0xFA, 0xCF}, Type: types.FileTypeExecutableImage, Description: "Mach-O 64-bit"},
	{Magic: []byte{0xCE, 0xFA, 0xED, 0xFE}, Type: types.FileTypeExecutableImage, Description: "Mach-O 32-bit (reversed)"},
	{Magic: []byte{0xCF, 0xFA, 0xED, 0xFE}, Type: types.FileTypeExecutableImage, Description: "Mach-O 64-bit (reversed)"},

	// Universal binaries. Java class files share CA FE BA BE and classify here too;
	// the Mach-O reader rejects them, since their version field reads as more than
	// MaxFatArchitectures slices.
	{Magic: []byte{0xCA, 0xFE, 0xBA, 0xBE}, Type: types.FileTypeExecutableImage, Description: "Mach-O universal"},
	{Magic: []byte{0xBE, 0xBA, 0xFE, 0xCA}, Type: types.FileTypeExecutableImage, Description: "Mach-O universal (reversed)"},
	{Magic: []byte{0xCA, 0xFE, 0xBA, 0xBF}, Type: types.FileTypeExecutableImage, Description: "Mach-O universal 64-bit"},
	{Magic: []byte{0xBF, 0xBA, 0xFE, 0xCA}, Type: types.FileTypeExecutableImage, Description: "Mach-O universal 64-bit (reversed)"},

	// ZIP local file header, empty archive, spanned archive
	{Magic: []byte{'P', 'K', 0x03, 0x04}, Type: types.FileTypeArchive, Description: "ZIP archive", ZipFamily: true},
	{Magic: []byte{'P', 'K', 0x05, 0x06}, Type: types.FileTypeArchive, Description: "ZIP archive (empty)", ZipFamily: true},
	{Magic: []byte{'P', 'K', 0x07, 0x08}, Type: types.FileTypeArchive, Description: "ZIP archive (spanned)", ZipFamily: true},

	{Magic: []byte{0xFF, 0xD8, 0xFF}, Type: types.FileTypeImage, Description: "JPEG image"},
	{Magic: []byte{0x89, 'P', 'N', 'G'}, Type: types.FileTypeImage, Description: "PNG image"},
	{Magic: []byte("GIF89a"), Type: types.FileTypeImage, Description: "GIF image"},
	{Magic: []byte("GIF87a"), Type: types.FileTypeImage, Description: "GIF image"},

	{Magic: []byte("ftyp"), Type: types.FileTypeVideo, Description: "ISO base media"},
	{Magic: []byte("%PDF"), Type: types.FileTypePDF, Description: "PDF document"},
	{Magic: []byte("<?xml"), Type: types.FileTypeXML, Description: "XML document"},
	{Magic: []byte("bplist"), Type: types.FileTypePropertyList, Description: "binary property list"},

	{Magic: []byte("ID3"), Type: types.FileTypeAudio, Description: "MP3 audio (ID3)"},
	{Magic: []byte("fLaC"), Type: types.FileTypeAudio, Description: "FLAC audio"},
	{Magic: []byte("OggS"), Type: types.FileTypeAudio, Description: "Ogg audio"},

	{Magic: []byte{0x1F, 0x8B}, Type: types.FileTypeArchive, Description: "gzip archive"},
	{Magic: []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}, Type: types.FileTypeArchive, Description: "7-Zip archive"},
}

// Signatures returns a copy of the signature table in priority order
func Signatures() []Entry {
	out := make([]Entry, len(table))
	for i, e := range table {
		magic := make([]byte, len(e.Magic))
		copy(magic, e.Magic)
		e.Magic = magic
		out[i] = e
	}
	return out
}

// Lookup returns the first entry matching data
func Lookup(data []byte) (Entry, bool) {
	for _, e := range table {
		if e.Matches(data) {
			return e, true
		}
	}
	return Entry{}, false
}

// IsZip reports whether data starts with a ZIP-family signature
func IsZip(data []byte) bool {
	e, ok := Lookup(data)
	return ok && e.ZipFamily
}
