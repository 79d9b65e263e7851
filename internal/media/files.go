package media

import (
	"io"
	"os"

	"media-loader/internal/filesystem"
)

// openFile opens path through the retrying filesystem layer.
func openFile(path string) (*os.File, error) {
	return filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
}

func closeLogged(c io.Closer, path string) {
	if err := c.Close(); err != nil {
		log.Warn("failed to close %s: %v", path, err)
	}
}
