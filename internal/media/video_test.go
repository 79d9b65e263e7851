package media

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"testing"

	"media-loader/internal/mediatypes"
)

func TestFFmpegArgs(t *testing.T) {
	args := ffmpegArgs("/videos/clip.mp4", 1, 12)
	if slices.Contains(args, "-vf") {
		t.Errorf("interval 1 should not add a select filter: %v", args)
	}
	if i := slices.Index(args, "-frames:v"); i < 0 || args[i+1] != "12" {
		t.Errorf("missing frame limit: %v", args)
	}
	if i := slices.Index(args, "-i"); i < 0 || args[i+1] != "/videos/clip.mp4" {
		t.Errorf("missing input: %v", args)
	}
	if args[len(args)-1] != "pipe:1" {
		t.Errorf("output should be stdout, got %q", args[len(args)-1])
	}

	args = ffmpegArgs("clip.mov", 4, 3)
	i := slices.Index(args, "-vf")
	if i < 0 || args[i+1] != `select=not(mod(n\,4))` {
		t.Errorf("select filter = %v", args)
	}
	// -vsync 0 is understood by ffmpeg 4.x as well as later releases.
	if j := slices.Index(args, "-vsync"); j < 0 || args[j+1] != "0" {
		t.Errorf("decimation should keep timestamps untouched: %v", args)
	}
	if slices.Contains(args, "-fps_mode") {
		t.Errorf("-fps_mode requires ffmpeg 5.1: %v", args)
	}
}

// makeTestVideo renders a synthetic clip with ffmpeg, skipping the test when
// ffmpeg is unavailable.
func makeTestVideo(t *testing.T, frames, rate int) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping ffmpeg test in short mode")
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available")
	}

	path := filepath.Join(t.TempDir(), "clip.mp4")
	cmd := exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "testsrc=size=64x48:rate="+strconv.Itoa(rate),
		"-frames:v", strconv.Itoa(frames),
		"-pix_fmt", "yuv420p", "-c:v", "mpeg4",
		path)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("could not create test video: %v: %s", err, out)
	}
	return path
}

func TestOpenVideo(t *testing.T) {
	path := makeTestVideo(t, 30, 30)

	tests := []struct {
		name       string
		opts       FrameOptions
		wantRate   float64
		wantFrames int
		wantW      int
		wantH      int
	}{
		{"all frames", FrameOptions{}, 30, 30, 64, 48},
		{"decimated", FrameOptions{TargetRate: 10}, 10, 10, 64, 48},
		{"capped", FrameOptions{Cap: 4}, 30, 4, 64, 48},
		{"resized", FrameOptions{Cap: 2, MaxRes: 32}, 30, 2, 32, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := OpenVideo(context.Background(), path, tt.opts, DefaultVideoTools())
			if err != nil {
				t.Fatalf("OpenVideo() error = %v", err)
			}
			info := s.Info()
			if info.FrameRate != tt.wantRate {
				t.Errorf("FrameRate = %v, want %v", info.FrameRate, tt.wantRate)
			}
			if info.Frames != tt.wantFrames {
				t.Errorf("Frames = %d, want %d", info.Frames, tt.wantFrames)
			}

			b, err := Drain(s)
			if err != nil {
				t.Fatalf("Drain() error = %v", err)
			}
			if got := b.Shape(); got != [4]int{tt.wantFrames, tt.wantH, tt.wantW, 3} {
				t.Errorf("Shape() = %v", got)
			}
		})
	}
}

func TestVideoStreamEarlyClose(t *testing.T) {
	path := makeTestVideo(t, 30, 30)

	s, err := OpenVideo(context.Background(), path, FrameOptions{}, DefaultVideoTools())
	if err != nil {
		t.Fatalf("OpenVideo() error = %v", err)
	}
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := s.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after Close = %v, want io.EOF", err)
	}
}

func TestOpenVideoErrors(t *testing.T) {
	tools := VideoTools{FFmpeg: "/nonexistent/ffmpeg", FFprobe: "/nonexistent/ffprobe"}
	_, err := OpenVideo(context.Background(), "clip.mp4", FrameOptions{}, tools)
	if !errors.Is(err, mediatypes.ErrDecode) {
		t.Errorf("OpenVideo() error = %v, want ErrDecode", err)
	}
}
