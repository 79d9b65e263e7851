package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"media-loader/internal/filesystem"
	"media-loader/internal/logging"
	"media-loader/internal/mediatypes"
	"media-loader/internal/metrics"

	"github.com/bodgit/sevenzip"
)

var log = logging.For("archive")

// Extract expands the archive at src into dst, which must exist. The format
// is taken from the file name. Entries that would land outside dst are
// rejected, and links are skipped.
func Extract(ctx context.Context, src, dst string) error {
	format := mediatypes.GetArchiveFormat(src)
	start := time.Now()

	var (
		n   int
		err error
	)
	switch format {
	case mediatypes.ArchiveZip:
		n, err = extractZip(ctx, src, dst)
	case mediatypes.ArchiveSevenZip:
		n, err = extract7z(ctx, src, dst)
	case mediatypes.ArchiveTar, mediatypes.ArchiveTarGz, mediatypes.ArchiveTarBz2:
		n, err = extractTar(ctx, src, dst, format)
	default:
		return mediatypes.NewPathError(mediatypes.ErrValidation, "extract", src,
			errors.New("unsupported archive format"))
	}

	metrics.ArchiveExtractDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())
	metrics.ArchiveEntriesTotal.WithLabelValues(string(format)).Add(float64(n))

	if err != nil {
		if errors.Is(err, mediatypes.ErrValidation) || errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return mediatypes.NewPathError(mediatypes.ErrDecode, "extract", src, err)
	}

	log.Debug("Extracted %d entries from %s", n, filepath.Base(src))
	return nil
}

// target returns where entry name lands under dst.
func target(dst, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimLeft(name, `/\`)))
	if clean == "." {
		return dst, nil
	}
	full := filepath.Join(dst, clean)
	if !strings.HasPrefix(full, filepath.Clean(dst)+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: archive entry %q escapes the extraction directory",
			mediatypes.ErrValidation, name)
	}
	return full, nil
}

func writeFile(path string, r io.Reader, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm()|0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// entry is the format-neutral view of one archive member.
type entry struct {
	name string
	mode fs.FileMode
	open func() (io.ReadCloser, error)
}

func extractEntry(dst string, e entry) (bool, error) {
	path, err := target(dst, e.name)
	if err != nil {
		return false, err
	}

	switch {
	case e.mode.IsDir():
		return false, os.MkdirAll(path, 0o755)
	case !e.mode.IsRegular():
		log.Debug("Skipping non-regular entry %s", e.name)
		return false, nil
	}

	rc, err := e.open()
	if err != nil {
		return false, fmt.Errorf("open %s: %w", e.name, err)
	}
	defer rc.Close()

	if err := writeFile(path, rc, e.mode); err != nil {
		return false, fmt.Errorf("write %s: %w", e.name, err)
	}
	return true, nil
}

func extractZip(ctx context.Context, src, dst string) (int, error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return 0, err
	}
	defer zr.Close()

	n := 0
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		wrote, err := extractEntry(dst, entry{name: f.Name, mode: f.Mode(), open: f.Open})
		if err != nil {
			return n, err
		}
		if wrote {
			n++
		}
	}
	return n, nil
}

func extract7z(ctx context.Context, src, dst string) (int, error) {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	n := 0
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		wrote, err := extractEntry(dst, entry{name: f.Name, mode: f.Mode(), open: f.Open})
		if err != nil {
			return n, err
		}
		if wrote {
			n++
		}
	}
	return n, nil
}

func extractTar(ctx context.Context, src, dst string, format mediatypes.ArchiveFormat) (int, error) {
	f, err := filesystem.OpenWithRetry(src, filesystem.DefaultRetryConfig())
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var r io.Reader = f
	switch format {
	case mediatypes.ArchiveTarGz:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return 0, err
		}
		defer gz.Close()
		r = gz
	case mediatypes.ArchiveTarBz2:
		r = bzip2.NewReader(f)
	}

	tr := tar.NewReader(r)
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}

		wrote, err := extractEntry(dst, entry{
			name: hdr.Name,
			mode: hdr.FileInfo().Mode(),
			open: func() (io.ReadCloser, error) { return io.NopCloser(tr), nil },
		})
		if err != nil {
			return n, err
		}
		if wrote {
			n++
		}
	}
}

// ContentRoot returns the directory holding an extracted archive's content:
// dir itself, or its only child when that child is a directory.
func ContentRoot(dir string) (string, error) {
	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())
	if err != nil {
		return "", err
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name()), nil
	}
	return dir, nil
}
