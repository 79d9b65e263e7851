// Package startup loads the media loader's configuration and build
// information.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig]:
//
//   - MEDIA_INPUT_DIR: Root for relative and "[input]" paths (default: ./input)
//   - MEDIA_OUTPUT_DIR: Root for "[output]" paths and saved frames (default: ./output)
//   - MEDIA_TEMP_DIR: Root for "[temp]" paths and archive scratch directories
//     (default: $TMPDIR/media-loader)
//   - FFMPEG_PATH, FFPROBE_PATH: Video tools (default: looked up on PATH)
//   - VIPS_FALLBACK: Retry images the Go decoders reject with libvips (default: false)
//   - METRICS_FILE: Write Prometheus metrics here after each run (default: disabled)
//   - MAX_RES: Default resolution bound for the CLI (default: 2048)
//   - LOG_LEVEL, DEBUG: Logging level
//   - MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT: Go memory limit
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
package startup
