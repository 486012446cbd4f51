//go:build unix

package services

import (
	"os"
	"syscall"
)

// fileIdentity returns the device and inode of info when the platform exposes them
func fileIdentity(info os.FileInfo) (dirIdentity, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return dirIdentity{}, false
	}
	return dirIdentity{dev: uint64(st.Dev), ino: uint64(st.Ino)}, true
}
