// Package metrics declares the Prometheus metrics of the media loader.
//
// The loader has no network surface, so metrics are not scraped over HTTP.
// Instead the CLI writes the default registry to a textfile after each run
// (METRICS_FILE), which node_exporter's textfile collector picks up:
//
//	metrics.InitializeMetrics()
//	filesystem.SetObserver(metrics.NewFilesystemObserver())
//	...
//	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil { ... }
//
// # Metric Families
//
//   - media_loader_loads_total{kind,status} and media_loader_load_duration_seconds{kind}
//   - media_loader_frames_decoded_total{kind}, media_loader_items_skipped_total
//   - media_loader_image_decode_total{backend,status}
//   - media_loader_ffmpeg_processes_total{tool,status}
//   - media_loader_archive_extract_duration_seconds{format}
//   - media_loader_filesystem_* by logical root volume
package metrics
