package media

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"media-loader/internal/mediatypes"
	"media-loader/internal/metrics"
)

// VideoStream decodes sampled frames from one ffmpeg process. It implements
// FrameStream; the process is killed and reaped by Close.
type VideoStream struct {
	path   string
	info   StreamInfo
	maxRes int

	srcWidth  int
	srcHeight int

	cmd    *exec.Cmd
	reader *bufio.Reader
	stderr *bytes.Buffer
	buf    []byte

	pending *Frame
	emitted int
	done    bool
	closed  bool
}

// ffmpegArgs builds the decode command: every interval-th frame, at most
// frames frames, written as packed rgb24 to stdout.
func ffmpegArgs(path string, interval, frames int) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-i", path,
		"-map", "0:v:0",
		"-an", "-sn",
	}
	if interval > 1 {
		args = append(args,
			"-vf", fmt.Sprintf(`select=not(mod(n\,%d))`, interval),
			"-vsync", "0",
		)
	}
	args = append(args,
		"-frames:v", strconv.Itoa(frames),
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	)
	return args
}

// OpenVideo probes path, starts decoding and reads the first frame so the
// stream's Info is known before any frame is handed out.
func OpenVideo(ctx context.Context, path string, opts FrameOptions, tools VideoTools) (*VideoStream, error) {
	probe, err := ProbeVideo(ctx, tools, path)
	if err != nil {
		return nil, mediatypes.NewPathError(mediatypes.ErrDecode, "open video", path, err)
	}
	if probe.Width <= 0 || probe.Height <= 0 {
		return nil, mediatypes.NewPathError(mediatypes.ErrDecode, "open video", path,
			fmt.Errorf("invalid stream dimensions %dx%d", probe.Width, probe.Height))
	}

	interval := SamplingInterval(probe.FrameRate, opts.TargetRate)
	planned := PlanFrames(probe.TotalFrames, interval, opts.Cap)
	if planned == 0 {
		return nil, mediatypes.NewPathError(mediatypes.ErrDecode, "open video", path,
			errors.New("no frames to extract"))
	}

	reported := probe.FrameRate
	if opts.TargetRate > 0 {
		reported = opts.TargetRate
	}

	log.Debug("Video %s: %.3f fps, %d frames, %dx%d, interval %d, planning %d frames",
		path, probe.FrameRate, probe.TotalFrames, probe.Width, probe.Height, interval, planned)

	cmd := exec.CommandContext(ctx, tools.ffmpeg(), ffmpegArgs(path, interval, planned)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, mediatypes.NewPathError(mediatypes.ErrDecode, "open video", path, err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		metrics.FFmpegProcessesTotal.WithLabelValues("ffmpeg", "error").Inc()
		return nil, mediatypes.NewPathError(mediatypes.ErrDecode, "open video", path,
			fmt.Errorf("failed to start ffmpeg: %w", err))
	}

	s := &VideoStream{
		path:      path,
		maxRes:    opts.MaxRes,
		srcWidth:  probe.Width,
		srcHeight: probe.Height,
		cmd:       cmd,
		reader:    bufio.NewReaderSize(stdout, 1<<20),
		stderr:    &stderr,
		buf:       make([]byte, probe.Width*probe.Height*Channels),
	}

	first, err := s.read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("could not read the first frame")
		}
		s.Close()
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, mediatypes.NewPathError(mediatypes.ErrDecode, "open video", path, err)
	}

	s.pending = first
	s.info = StreamInfo{
		FrameRate: reported,
		Frames:    planned,
		Width:     first.Width,
		Height:    first.Height,
	}
	return s, nil
}

// read decodes the next raw frame from ffmpeg, resizing it if needed.
func (s *VideoStream) read() (*Frame, error) {
	if _, err := io.ReadFull(s.reader, s.buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			log.Warn("truncated frame from ffmpeg for %s", s.path)
			return nil, io.EOF
		}
		return nil, err
	}

	w, h := fitSize(s.srcWidth, s.srcHeight, s.maxRes)
	if w == s.srcWidth && h == s.srcHeight {
		return frameFromRGB24(s.buf, w, h), nil
	}
	return FrameFromImage(FitMax(rgb24Image(s.buf, s.srcWidth, s.srcHeight), s.maxRes)), nil
}

// Info returns the control record announced before the first frame.
func (s *VideoStream) Info() StreamInfo {
	return s.info
}

// Next returns the next sampled frame or io.EOF.
func (s *VideoStream) Next() (*Frame, error) {
	if s.closed || s.done || s.emitted >= s.info.Frames {
		return nil, io.EOF
	}

	if f := s.pending; f != nil {
		s.pending = nil
		s.emitted++
		return f, nil
	}

	f, err := s.read()
	if err != nil {
		s.done = true
		if errors.Is(err, io.EOF) {
			// The container ran out before the planned count, which is fine
			log.Debug("video %s exhausted after %d of %d frames", s.path, s.emitted, s.info.Frames)
			return nil, io.EOF
		}
		return nil, mediatypes.NewPathError(mediatypes.ErrDecode, "read video frame", s.path, err)
	}
	s.emitted++
	return f, nil
}

// Close stops ffmpeg and waits for it to exit.
func (s *VideoStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.pending = nil

	finished := s.done || s.emitted >= s.info.Frames
	if !finished && s.cmd.Process != nil {
		// Abandoned early: nothing left to read, stop decoding now
		_ = s.cmd.Process.Kill()
	}

	err := s.cmd.Wait()
	if err != nil && !finished {
		// Killed or failed before producing anything useful; either way
		// the stream has already reported what it could
		metrics.FFmpegProcessesTotal.WithLabelValues("ffmpeg", "error").Inc()
		log.Debug("ffmpeg for %s ended: %v", s.path, err)
		return nil
	}
	if err != nil {
		metrics.FFmpegProcessesTotal.WithLabelValues("ffmpeg", "error").Inc()
		return fmt.Errorf("ffmpeg error: %w - %s", err, strings.TrimSpace(s.stderr.String()))
	}
	metrics.FFmpegProcessesTotal.WithLabelValues("ffmpeg", "success").Inc()
	return nil
}
