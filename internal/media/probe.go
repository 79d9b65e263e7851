package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"media-loader/internal/metrics"
)

// VideoTools names the ffmpeg binaries used for video decoding.
type VideoTools struct {
	FFmpeg  string
	FFprobe string
}

// DefaultVideoTools looks both binaries up on PATH.
func DefaultVideoTools() VideoTools {
	return VideoTools{FFmpeg: "ffmpeg", FFprobe: "ffprobe"}
}

func (t VideoTools) ffmpeg() string {
	if t.FFmpeg == "" {
		return "ffmpeg"
	}
	return t.FFmpeg
}

func (t VideoTools) ffprobe() string {
	if t.FFprobe == "" {
		return "ffprobe"
	}
	return t.FFprobe
}

// VideoInfo contains the properties of a video's first video stream.
type VideoInfo struct {
	FrameRate   float64
	TotalFrames int
	Duration    float64
	// Width and Height are the display dimensions after rotation.
	Width    int
	Height   int
	Rotation int
	Codec    string
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type probeStream struct {
	CodecType    string            `json:"codec_type"`
	CodecName    string            `json:"codec_name"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	AvgFrameRate string            `json:"avg_frame_rate"`
	RFrameRate   string            `json:"r_frame_rate"`
	NbFrames     string            `json:"nb_frames"`
	Duration     string            `json:"duration"`
	Tags         map[string]string `json:"tags"`
	SideDataList []struct {
		Rotation float64 `json:"rotation"`
	} `json:"side_data_list"`
}

// parseRate parses an ffprobe rational such as "30000/1001".
func parseRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// parseProbe extracts VideoInfo from ffprobe's JSON output.
func parseProbe(data []byte) (*VideoInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var vs *probeStream
	for i := range out.Streams {
		if out.Streams[i].CodecType == "video" {
			vs = &out.Streams[i]
			break
		}
	}
	if vs == nil {
		return nil, fmt.Errorf("no video stream found")
	}

	info := &VideoInfo{
		Codec:  vs.CodecName,
		Width:  vs.Width,
		Height: vs.Height,
	}

	info.FrameRate = parseRate(vs.AvgFrameRate)
	if info.FrameRate <= 0 {
		info.FrameRate = parseRate(vs.RFrameRate)
	}

	info.Duration, _ = strconv.ParseFloat(vs.Duration, 64)
	if info.Duration <= 0 {
		info.Duration, _ = strconv.ParseFloat(out.Format.Duration, 64)
	}

	if n, err := strconv.Atoi(vs.NbFrames); err == nil && n > 0 {
		info.TotalFrames = n
	} else if info.Duration > 0 && info.FrameRate > 0 {
		info.TotalFrames = int(math.Round(info.Duration * info.FrameRate))
	}

	for _, sd := range vs.SideDataList {
		if sd.Rotation != 0 {
			info.Rotation = int(sd.Rotation)
		}
	}
	if info.Rotation == 0 {
		if r, err := strconv.Atoi(vs.Tags["rotate"]); err == nil {
			info.Rotation = r
		}
	}

	// ffmpeg auto-rotates on decode, so quarter turns swap the output size
	if rot := ((info.Rotation % 360) + 360) % 360; rot == 90 || rot == 270 {
		info.Width, info.Height = info.Height, info.Width
	}

	return info, nil
}

// ProbeVideo runs ffprobe on path.
func ProbeVideo(ctx context.Context, tools VideoTools, path string) (*VideoInfo, error) {
	cmd := exec.CommandContext(ctx, tools.ffprobe(),
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		metrics.FFmpegProcessesTotal.WithLabelValues("ffprobe", "error").Inc()
		return nil, fmt.Errorf("ffprobe error: %w - %s", err, strings.TrimSpace(stderr.String()))
	}
	metrics.FFmpegProcessesTotal.WithLabelValues("ffprobe", "success").Inc()

	return parseProbe(stdout.Bytes())
}
