/*
Medialoader loads media from disk into normalized RGB frame batches.

Usage:

	medialoader load [flags] <path>
	medialoader schema
	medialoader version

The load command accepts a single image, a directory of images, an image
wildcard such as "shots/*.png", a video, an animated GIF or an archive
(.zip, .7z, .tar, .tar.gz, .tar.bz2). Relative paths are tried against the
working directory first and then against the input directory. A trailing
" [input]", " [output]" or " [temp]" annotation selects a root directly.

The process exits with 2 for invalid arguments, 3 when the path cannot be
found, 4 when nothing could be decoded and 1 for any other failure.

Environment variables:

	MEDIA_INPUT_DIR   input root (default ./input)
	MEDIA_OUTPUT_DIR  output root and --save target (default ./output)
	MEDIA_TEMP_DIR    temp root and archive scratch space
	FFMPEG_PATH       ffmpeg binary (default ffmpeg)
	FFPROBE_PATH      ffprobe binary (default ffprobe)
	VIPS_FALLBACK     decode unsupported images with libvips
	MAX_RES           default for --max-res
	METRICS_FILE      write Prometheus metrics here after each run
	LOG_LEVEL         debug, info, warn or error
	MEMORY_LIMIT      container memory limit in bytes, used to set GOMEMLIMIT
	MEMORY_RATIO      share of MEMORY_LIMIT given to the Go heap
*/
package main
