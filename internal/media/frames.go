package media

import (
	"errors"
	"fmt"
	"io"
	"math"

	"media-loader/internal/mediatypes"
)

// FrameOptions control how a frame source is sampled.
type FrameOptions struct {
	// TargetRate is the desired frames per second; 0 keeps the native rate.
	TargetRate float64
	// Cap limits the number of frames; 0 means no limit.
	Cap int
	// MaxRes constrains the larger side of every frame; 0 disables resizing.
	MaxRes int
}

// StreamInfo is announced by a frame source before any frame is read.
type StreamInfo struct {
	// FrameRate is the rate to report: the target rate if one was given,
	// otherwise the source's native rate, 0 for still images.
	FrameRate float64
	// Frames is the number of frames the source plans to emit. Fewer may
	// arrive if the source is exhausted early.
	Frames int
	// Width and Height are the first frame's dimensions after resizing.
	Width  int
	Height int
}

// FrameStream is a lazy, single-use sequence of decoded frames. Next returns
// io.EOF once the planned frames have been emitted or the source runs dry.
// Close releases the underlying handle and is safe to call more than once.
type FrameStream interface {
	Info() StreamInfo
	Next() (*Frame, error)
	Close() error
}

// SamplingInterval returns the decimation step for a source at native fps
// sampled at target fps: max(1, round(native/target)), rounding half to even.
// A non-positive rate on either side takes every frame.
func SamplingInterval(native, target float64) int {
	if target <= 0 || native <= 0 {
		return 1
	}
	return max(1, int(math.RoundToEven(native/target)))
}

// PlanFrames returns how many frames survive decimation of total frames at
// the given interval, limited by limit when it is positive.
func PlanFrames(total, interval, limit int) int {
	if total <= 0 {
		return 0
	}
	interval = max(1, interval)
	potential := (total + interval - 1) / interval
	n := potential
	if limit > 0 {
		n = min(limit, potential)
	}
	if n == 0 {
		n = potential
	}
	return n
}

// Drain reads every remaining frame of s into a batch and closes s.
func Drain(s FrameStream) (*Batch, error) {
	defer s.Close()

	info := s.Info()
	b := NewBatch(info.Width, info.Height, info.Frames)
	for {
		f, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := b.Append(f); err != nil {
			return nil, err
		}
	}

	if b.N == 0 {
		return nil, fmt.Errorf("%w: no frames extracted", mediatypes.ErrDecode)
	}
	return b, nil
}
