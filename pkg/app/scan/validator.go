package scan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/deploymenttheory/go-fileprobe/internal/types"
	"github.com/deploymenttheory/go-fileprobe/pkg/app"
)

const (
	dateLayout    = "2006-01-02"
	maxResultsCap = 1000000
)

var sizeMultipliers = map[string]int64{
	"B":  1,
	"KB": 1024,
	"MB": 1024 * 1024,
	"GB": 1024 * 1024 * 1024,
	"TB": 1024 * 1024 * 1024 * 1024,
}

// Validate validates a scan request
func (r *Request) Validate() error {
	if r.Path == "" {
		return app.NewError(app.ErrCodeInvalidInput, "directory path is required", nil)
	}

	if r.MaxDepth < 0 {
		return app.NewError(app.ErrCodeInvalidInput, "max depth must be >= 0", nil)
	}

	if r.MaxResults < 0 || r.MaxResults > maxResultsCap {
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("max results must be between 0 and %d", maxResultsCap), nil)
	}

	if r.NamePattern != "" && r.NameRegex != "" {
		return app.NewError(app.ErrCodeInvalidInput, "cannot specify both name pattern and regex", nil)
	}

	_, err := r.compileFilter()
	return err
}

// compileFilter parses every criterion once so matching does no further validation
func (r *Request) compileFilter() (*filter, error) {
	f := &filter{
		namePattern:   r.NamePattern,
		caseSensitive: r.CaseSensitive,
		filesOnly:     r.FilesOnly,
	}

	if r.NamePattern != "" {
		if !r.CaseSensitive {
			f.namePattern = strings.ToLower(r.NamePattern)
		}
		if _, err := matchPattern(f.namePattern, ""); err != nil {
			return nil, app.NewError(app.ErrCodeInvalidInput, "invalid name pattern", err)
		}
	}

	if r.NameRegex != "" {
		expr := r.NameRegex
		if !r.CaseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, app.NewError(app.ErrCodeInvalidInput, "invalid regex pattern", err)
		}
		f.nameRegex = re
	}

	for _, ext := range r.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			continue
		}
		if f.extensions == nil {
			f.extensions = map[string]bool{}
		}
		f.extensions[ext] = true
	}

	for _, name := range r.Types {
		ft, err := types.ParseFileType(name)
		if err != nil {
			return nil, app.NewError(app.ErrCodeInvalidInput, "invalid file type filter", err)
		}
		if f.types == nil {
			f.types = map[types.FileType]bool{}
		}
		f.types[ft] = true
	}

	var err error
	if r.MinSize != "" {
		if f.minSize, err = ParseSize(r.MinSize); err != nil {
			return nil, app.NewError(app.ErrCodeInvalidInput, "invalid min-size format", err)
		}
		f.hasMinSize = true
	}
	if r.MaxSize != "" {
		if f.maxSize, err = ParseSize(r.MaxSize); err != nil {
			return nil, app.NewError(app.ErrCodeInvalidInput, "invalid max-size format", err)
		}
		f.hasMaxSize = true
	}
	if f.hasMinSize && f.hasMaxSize && f.minSize > f.maxSize {
		return nil, app.NewError(app.ErrCodeInvalidInput, "min-size is larger than max-size", nil)
	}

	if r.ModifiedAfter != "" {
		if f.modifiedAfter, err = time.Parse(dateLayout, r.ModifiedAfter); err != nil {
			return nil, app.NewError(app.ErrCodeInvalidInput, "invalid date format for modified-after, use YYYY-MM-DD", err)
		}
	}
	if r.ModifiedBefore != "" {
		if f.modifiedBefore, err = time.Parse(dateLayout, r.ModifiedBefore); err != nil {
			return nil, app.NewError(app.ErrCodeInvalidInput, "invalid date format for modified-before, use YYYY-MM-DD", err)
		}
	}

	return f, nil
}

// ParseSize converts size strings like "10MB" or "1.5 GB" to bytes
func ParseSize(size string) (int64, error) {
	size = strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(size)), " ", "")
	if size == "" {
		return 0, fmt.Errorf("empty size")
	}

	split := strings.IndexFunc(size, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	if split == 0 {
		return 0, fmt.Errorf("no numeric value found")
	}

	numPart, unit := size, "B"
	if split > 0 {
		numPart, unit = size[:split], size[split:]
	}

	value, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value: %s", numPart)
	}

	multiplier, ok := sizeMultipliers[unit]
	if !ok {
		return 0, fmt.Errorf("invalid size unit: %s (valid: B, KB, MB, GB, TB)", unit)
	}

	return int64(value * float64(multiplier)), nil
}
