package services

import (
	"archive/zip"
	"context"
	"io"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
	"howett.net/plist"

	"github.com/deploymenttheory/go-fileprobe/internal/parsers/signature"
	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// maxInfoPlistSize bounds how much of an Info.plist is read into memory.
const maxInfoPlistSize = 8 << 20

var infoPlistPattern = regexp.MustCompile(`^Payload/[^/]+\.app/Info\.plist$`)

// infoPlist holds the Info.plist keys reported in BundleMetadata
type infoPlist struct {
	BundleIdentifier string `mapstructure:"CFBundleIdentifier"`
	ShortVersion     string `mapstructure:"CFBundleShortVersionString"`
	BundleVersion    string `mapstructure:"CFBundleVersion"`
	MinimumOSVersion string `mapstructure:"MinimumOSVersion"`
	DisplayName      string `mapstructure:"CFBundleDisplayName"`
	BundleName       string `mapstructure:"CFBundleName"`
	Executable       string `mapstructure:"CFBundleExecutable"`
}

// BundleService reads application metadata out of app archives
type BundleService struct {
	fs     afero.Fs
	logger *slog.Logger
}

// NewBundleService creates a new bundle service
func NewBundleService(fs afero.Fs, log *slog.Logger) *BundleService {
	return &BundleService{fs: fs, logger: orNop(log)}
}

// Analyze opens an app archive and reports the metadata of its Payload application.
// Signing and provisioning are reported by presence only; nothing is verified.
func (bs *BundleService) Analyze(ctx context.Context, archivePath string) (types.BundleMetadata, error) {
	if archivePath == "" {
		return types.BundleMetadata{}, types.InvalidArgument("analyze bundle", "archive path is required")
	}

	zr, closeFn, err := openZipFs(bs.fs, "analyze bundle", archivePath)
	if err != nil {
		return types.BundleMetadata{}, err
	}
	defer closeFn()

	plistFile := findInfoPlist(zr)
	if plistFile == nil {
		return types.BundleMetadata{}, types.FormatError("analyze bundle", archivePath, "no Payload/*.app/Info.plist found")
	}

	info, err := decodeInfoPlist(plistFile)
	if err != nil {
		return types.BundleMetadata{}, types.NewEngineError(types.KindFormat, "analyze bundle", archivePath, "invalid Info.plist", err)
	}

	appDir := path.Dir(plistFile.Name) + "/"
	meta := types.BundleMetadata{
		BundleIdentifier: info.BundleIdentifier,
		Version:          firstNonEmpty(info.ShortVersion, info.BundleVersion),
		BuildVersion:     info.BundleVersion,
		MinimumOSVersion: info.MinimumOSVersion,
		DisplayName:      firstNonEmpty(info.DisplayName, info.BundleName),
		ExecutableName:   info.Executable,
		AppPath:          strings.TrimSuffix(appDir, "/"),
	}

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return types.BundleMetadata{}, err
		}
		if !strings.HasPrefix(f.Name, appDir) || f.Mode().IsDir() {
			continue
		}

		switch strings.TrimPrefix(f.Name, appDir) {
		case "embedded.mobileprovision":
			meta.HasEmbeddedProvisioning = true
		case "_CodeSignature/CodeResources":
			meta.IsSigned = true
		}

		isImage, err := isBinaryImageEntry(f)
		if err != nil {
			bs.logger.Debug("unreadable bundle entry", "entry", f.Name, "error", err)
			continue
		}
		if isImage {
			meta.ExecutableCount++
		}
	}

	bs.logger.Debug("analyzed bundle", "path", archivePath, "bundle_id", meta.BundleIdentifier, "executables", meta.ExecutableCount)
	return meta, nil
}

// findInfoPlist returns the Info.plist of the first application under Payload
func findInfoPlist(zr *zip.Reader) *zip.File {
	var matches []*zip.File
	for _, f := range zr.File {
		if infoPlistPattern.MatchString(f.Name) {
			matches = append(matches, f)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches[0]
}

// decodeInfoPlist parses an XML or binary plist and maps its keys onto infoPlist
func decodeInfoPlist(f *zip.File) (*infoPlist, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxInfoPlistSize))
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if _, err := plist.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var info infoPlist
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &info,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}
	return &info, nil
}

// isBinaryImageEntry reports whether an archive entry starts with a Mach-O magic
func isBinaryImageEntry(f *zip.File) (bool, error) {
	if f.UncompressedSize64 < 4 {
		return false, nil
	}

	rc, err := f.Open()
	if err != nil {
		return false, err
	}
	defer rc.Close()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(rc, magic); err != nil {
		return false, err
	}

	entry, ok := signature.Lookup(magic)
	return ok && entry.Type == types.FileTypeExecutableImage, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
