//go:build linux || darwin || freebsd || netbsd || openbsd

package loader

import (
	"os"
	"syscall"
	"time"
)

// createdTime returns the inode change time, the closest unix equivalent of
// a creation date.
func createdTime(fi os.FileInfo) time.Time {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return fi.ModTime()
	}
	return statCtime(st)
}
