//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package loader

import (
	"os"
	"time"
)

func createdTime(fi os.FileInfo) time.Time {
	return fi.ModTime()
}
