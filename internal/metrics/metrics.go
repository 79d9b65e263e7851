package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Loader metrics
var (
	LoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_loader_loads_total",
			Help: "Total number of load requests by source kind and status",
		},
		[]string{"kind", "status"},
	)

	LoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_loader_load_duration_seconds",
			Help:    "Duration of a complete load request in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"kind"},
	)

	FramesDecodedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_loader_frames_decoded_total",
			Help: "Total number of frames placed into returned batches",
		},
		[]string{"kind"},
	)

	ItemsSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_loader_items_skipped_total",
			Help: "Images dropped from a directory or list batch because they failed to decode",
		},
	)

	BatchBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_loader_batch_bytes",
			Help:    "Size of returned image batches in bytes",
			Buckets: prometheus.ExponentialBuckets(1<<20, 4, 8), // 1MiB .. 16GiB
		},
	)
)

// Decoder metrics
var (
	ImageDecodeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_loader_image_decode_total",
			Help: "Still image decodes by decoder backend and status",
		},
		[]string{"backend", "status"}, // backend: "imaging", "vips"
	)

	FFmpegProcessesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_loader_ffmpeg_processes_total",
			Help: "ffmpeg and ffprobe invocations by tool and status",
		},
		[]string{"tool", "status"},
	)

	ArchiveExtractDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_loader_archive_extract_duration_seconds",
			Help:    "Time spent expanding archives into scratch directories",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)

	ArchiveEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_loader_archive_entries_total",
			Help: "Archive entries written to scratch directories",
		},
		[]string{"format"},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_loader_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations by logical root",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"volume", "operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_loader_filesystem_operation_errors_total",
			Help: "Failed filesystem operations by logical root",
		},
		[]string{"volume", "operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_loader_filesystem_retry_attempts_total",
			Help: "Retries after NFS stale file handle errors",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_loader_filesystem_stale_errors_total",
			Help: "NFS stale file handle (ESTALE) errors seen",
		},
		[]string{"operation", "volume"},
	)
)

// App info
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_loader_app_info",
			Help: "Build information, value is always 1",
		},
		[]string{"version", "commit", "go_version"},
	)
)
