package scan

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/deploymenttheory/go-fileprobe/internal/parsers/signature"
	"github.com/deploymenttheory/go-fileprobe/internal/types"
)

// filter is a compiled Request. The zero value matches every record.
type filter struct {
	namePattern   string
	nameRegex     *regexp.Regexp
	caseSensitive bool
	extensions    map[string]bool
	types         map[types.FileType]bool

	minSize    int64
	maxSize    int64
	hasMinSize bool
	hasMaxSize bool

	modifiedAfter  time.Time
	modifiedBefore time.Time
	filesOnly      bool
}

func matchPattern(pattern, name string) (bool, error) {
	return filepath.Match(pattern, name)
}

// matches reports whether a scan record satisfies every criterion
func (f *filter) matches(r types.FileRecord) bool {
	if r.IsDirectory {
		if f.filesOnly {
			return false
		}
		// Size, type and extension criteria only describe files
		if f.hasMinSize || f.hasMaxSize || f.types != nil || f.extensions != nil {
			return false
		}
	}

	name := r.Name
	if !f.caseSensitive {
		name = strings.ToLower(name)
	}
	if f.namePattern != "" {
		if ok, _ := matchPattern(f.namePattern, name); !ok {
			return false
		}
	}
	if f.nameRegex != nil && !f.nameRegex.MatchString(r.Name) {
		return false
	}

	if f.extensions != nil && !f.extensions[signature.Extension(r.Name)] {
		return false
	}
	if f.types != nil && !f.types[r.Type] {
		return false
	}

	if f.hasMinSize && r.Size < f.minSize {
		return false
	}
	if f.hasMaxSize && r.Size > f.maxSize {
		return false
	}

	if !f.modifiedAfter.IsZero() && r.ModTime.Before(f.modifiedAfter) {
		return false
	}
	// The before date includes the whole named day
	if !f.modifiedBefore.IsZero() && !r.ModTime.Before(f.modifiedBefore.AddDate(0, 0, 1)) {
		return false
	}

	return true
}
