// Package media decodes still images, videos and animated GIFs into
// normalized RGB frames.
//
// Still images go through imaging with EXIF orientation applied, falling
// back to libvips when it has been initialized. Videos are probed with
// ffprobe and decoded by a single ffmpeg process that writes sampled frames
// as raw rgb24. GIFs are composited frame by frame with the standard
// library decoder.
//
// Videos and GIFs are exposed as a FrameStream: the stream's Info is known
// once it is opened, frames are pulled one at a time with Next, and Close
// releases the underlying process or decoded data. Drain collects a stream
// into a Batch, the N×H×W×3 float32 layout every loader returns.
package media
