//go:build !unix

package services

import (
	"os"
)

// fileIdentity is unavailable here; callers fall back to the cleaned path
func fileIdentity(info os.FileInfo) (dirIdentity, bool) {
	return dirIdentity{}, false
}
