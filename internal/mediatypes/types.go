package mediatypes

import (
	"path/filepath"
	"strings"
)

// Kind identifies which decoding path a resolved source takes.
type Kind string

const (
	// KindImage is a single still image.
	KindImage Kind = "image"
	// KindDirectory is a directory of still images.
	KindDirectory Kind = "directory"
	// KindList is an explicit list of still images, usually from a wildcard match.
	KindList Kind = "list"
	// KindVideo is a video container decoded through ffmpeg.
	KindVideo Kind = "video"
	// KindGIF is a (possibly animated) GIF.
	KindGIF Kind = "gif"
	// KindArchive is a compressed archive of still images.
	KindArchive Kind = "archive"
)

// ArchiveFormat identifies the decompressor used for an archive.
type ArchiveFormat string

const (
	// ArchiveNone means the path is not a recognized archive.
	ArchiveNone ArchiveFormat = ""
	// ArchiveZip is a .zip file.
	ArchiveZip ArchiveFormat = "zip"
	// ArchiveSevenZip is a .7z file.
	ArchiveSevenZip ArchiveFormat = "7z"
	// ArchiveTar is an uncompressed .tar file.
	ArchiveTar ArchiveFormat = "tar"
	// ArchiveTarGz is a gzip compressed tarball.
	ArchiveTarGz ArchiveFormat = "tar.gz"
	// ArchiveTarBz2 is a bzip2 compressed tarball.
	ArchiveTarBz2 ArchiveFormat = "tar.bz2"
)

// ImageExtensions maps file extensions to whether they are loadable still images.
// .gif is listed here as well as handled as an animated source.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// VideoExtensions maps file extensions to whether they are decoded as video.
var VideoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
}

// archiveSuffixes is ordered so compound suffixes match before ".tar".
var archiveSuffixes = []struct {
	suffix string
	format ArchiveFormat
}{
	{".tar.gz", ArchiveTarGz},
	{".tgz", ArchiveTarGz},
	{".tar.bz2", ArchiveTarBz2},
	{".tar", ArchiveTar},
	{".zip", ArchiveZip},
	{".7z", ArchiveSevenZip},
}

// Ext returns the lowercase extension of path including the leading dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsImage reports whether path has a still-image extension.
func IsImage(path string) bool {
	return ImageExtensions[Ext(path)]
}

// IsVideo reports whether path has a video extension.
func IsVideo(path string) bool {
	return VideoExtensions[Ext(path)]
}

// IsGIF reports whether path has a .gif extension.
func IsGIF(path string) bool {
	return Ext(path) == ".gif"
}

// GetArchiveFormat returns the archive format implied by the file name, or
// ArchiveNone when the name has no archive suffix.
func GetArchiveFormat(path string) ArchiveFormat {
	lower := strings.ToLower(path)
	for _, s := range archiveSuffixes {
		if strings.HasSuffix(lower, s.suffix) {
			return s.format
		}
	}
	return ArchiveNone
}

// Classify returns the Kind of a single resolved path. Directories are
// classified by the caller-supplied isDir flag so this stays free of I/O.
func Classify(path string, isDir bool) Kind {
	switch {
	case isDir:
		return KindDirectory
	case IsVideo(path):
		return KindVideo
	case IsGIF(path):
		return KindGIF
	case GetArchiveFormat(path) != ArchiveNone:
		return KindArchive
	default:
		return KindImage
	}
}

// Stem returns the base name of path with its last extension removed.
// "clip.final.mp4" becomes "clip.final" and "photos.tar.gz" becomes "photos.tar".
func Stem(path string) string {
	base := filepath.Base(path)
	if i := strings.LastIndex(base, "."); i > 0 {
		return base[:i]
	}
	return base
}
