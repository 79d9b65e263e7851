package metrics

import (
	"media-loader/internal/filesystem"
	"media-loader/internal/mediatypes"
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is present in the first written textfile.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	kinds := []mediatypes.Kind{
		mediatypes.KindImage,
		mediatypes.KindDirectory,
		mediatypes.KindList,
		mediatypes.KindVideo,
		mediatypes.KindGIF,
		mediatypes.KindArchive,
		"unknown",
	}
	for _, kind := range kinds {
		for _, status := range []string{"success", "error"} {
			LoadsTotal.WithLabelValues(string(kind), status)
		}
		LoadDuration.WithLabelValues(string(kind))
		FramesDecodedTotal.WithLabelValues(string(kind))
	}

	for _, backend := range []string{"imaging", "vips"} {
		for _, status := range []string{"success", "error"} {
			ImageDecodeTotal.WithLabelValues(backend, status)
		}
	}

	for _, tool := range []string{"ffmpeg", "ffprobe"} {
		for _, status := range []string{"success", "error"} {
			FFmpegProcessesTotal.WithLabelValues(tool, status)
		}
	}

	formats := []mediatypes.ArchiveFormat{
		mediatypes.ArchiveZip,
		mediatypes.ArchiveSevenZip,
		mediatypes.ArchiveTar,
		mediatypes.ArchiveTarGz,
		mediatypes.ArchiveTarBz2,
	}
	for _, format := range formats {
		ArchiveExtractDuration.WithLabelValues(string(format))
		ArchiveEntriesTotal.WithLabelValues(string(format))
	}

	volumes := []string{filesystem.RootInput, filesystem.RootOutput, filesystem.RootTemp, "unknown"}
	for _, vol := range volumes {
		for _, op := range []string{"stat", "open", "readdir"} {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
		}
	}
}
