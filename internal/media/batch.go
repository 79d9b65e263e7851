package media

import (
	"fmt"
	"image"
	"image/color"

	"media-loader/internal/mediatypes"

	"github.com/disintegration/imaging"
)

// Channels is the number of color channels in every frame (RGB).
const Channels = 3

// Frame is one decoded picture: Height rows of Width RGB triples, each
// sample normalized to [0, 1].
type Frame struct {
	Width  int
	Height int
	Pix    []float32
}

// FrameFromImage converts img to a normalized RGB frame. Alpha is dropped
// without premultiplication.
func FrameFromImage(img image.Image) *Frame {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	f := &Frame{Width: w, Height: h, Pix: make([]float32, w*h*Channels)}

	for y := 0; y < h; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		dst := f.Pix[y*w*Channels : (y+1)*w*Channels]
		for x := 0; x < w; x++ {
			dst[x*3] = float32(src[x*4]) / 255
			dst[x*3+1] = float32(src[x*4+1]) / 255
			dst[x*3+2] = float32(src[x*4+2]) / 255
		}
	}
	return f
}

// frameFromRGB24 converts packed rgb24 bytes (as written by ffmpeg) to a frame.
func frameFromRGB24(buf []byte, w, h int) *Frame {
	f := &Frame{Width: w, Height: h, Pix: make([]float32, w*h*Channels)}
	for i, b := range buf[:w*h*Channels] {
		f.Pix[i] = float32(b) / 255
	}
	return f
}

// rgb24Image wraps packed rgb24 bytes as an image so they can be resampled.
func rgb24Image(buf []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, j := 0, 0; i < w*h*Channels; i, j = i+3, j+4 {
		img.Pix[j] = buf[i]
		img.Pix[j+1] = buf[i+1]
		img.Pix[j+2] = buf[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// At returns channel c of the pixel at (x, y).
func (f *Frame) At(x, y, c int) float32 {
	return f.Pix[(y*f.Width+x)*Channels+c]
}

// Image converts the frame back to 8-bit RGB for encoding.
func (f *Frame) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, j := 0, 0; i < len(f.Pix); i, j = i+3, j+4 {
		img.Pix[j] = to8(f.Pix[i])
		img.Pix[j+1] = to8(f.Pix[i+1])
		img.Pix[j+2] = to8(f.Pix[i+2])
		img.Pix[j+3] = 0xff
	}
	return img
}

// Resize resamples the frame to exactly w×h with Lanczos.
func (f *Frame) Resize(w, h int) *Frame {
	if f.Width == w && f.Height == h {
		return f
	}
	return FrameFromImage(imaging.Resize(f.Image(), w, h, imaging.Lanczos))
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	default:
		return uint8(v*255 + 0.5)
	}
}

// Batch is an N×Height×Width×3 array of normalized samples, frames stored
// back to back. Every frame in a batch has the same dimensions.
type Batch struct {
	N      int
	Height int
	Width  int
	Data   []float32
}

// NewBatch returns an empty batch for frames of the given size with room for
// capacity frames.
func NewBatch(width, height, capacity int) *Batch {
	if capacity < 0 {
		capacity = 0
	}
	return &Batch{
		Width:  width,
		Height: height,
		Data:   make([]float32, 0, capacity*width*height*Channels),
	}
}

// Append adds a frame. The frame must match the batch dimensions.
func (b *Batch) Append(f *Frame) error {
	if f.Width != b.Width || f.Height != b.Height {
		return fmt.Errorf("%w: frame is %dx%d, batch is %dx%d",
			mediatypes.ErrValidation, f.Width, f.Height, b.Width, b.Height)
	}
	b.Data = append(b.Data, f.Pix...)
	b.N++
	return nil
}

// Stack builds a batch from frames. It fails on an empty slice or when the
// frames disagree on size.
func Stack(frames []*Frame) (*Batch, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: no frames to stack", mediatypes.ErrEmptyResult)
	}
	b := NewBatch(frames[0].Width, frames[0].Height, len(frames))
	for _, f := range frames {
		if err := b.Append(f); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Frame returns a view of frame i sharing the batch's storage.
func (b *Batch) Frame(i int) *Frame {
	size := b.Width * b.Height * Channels
	return &Frame{Width: b.Width, Height: b.Height, Pix: b.Data[i*size : (i+1)*size : (i+1)*size]}
}

// Shape returns the batch dimensions as (N, H, W, C).
func (b *Batch) Shape() [4]int {
	return [4]int{b.N, b.Height, b.Width, Channels}
}

// SizeBytes returns the memory held by the samples.
func (b *Batch) SizeBytes() int64 {
	return int64(len(b.Data)) * 4
}

// RGBAt returns the 8-bit color of pixel (x, y) in frame i, mainly for tests
// and debugging output.
func (b *Batch) RGBAt(i, x, y int) color.NRGBA {
	f := b.Frame(i)
	return color.NRGBA{R: to8(f.At(x, y, 0)), G: to8(f.At(x, y, 1)), B: to8(f.At(x, y, 2)), A: 0xff}
}
