package media

import (
	"fmt"
	"image"

	"media-loader/internal/logging"
	"media-loader/internal/mediatypes"
	"media-loader/internal/metrics"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

var log = logging.For("media")

// fitSize returns the dimensions of a w×h image constrained so that neither
// side exceeds maxRes. The larger side becomes exactly maxRes and the other
// is scaled proportionally, truncating. maxRes <= 0 disables the constraint.
func fitSize(w, h, maxRes int) (int, int) {
	if maxRes <= 0 || (w <= maxRes && h <= maxRes) {
		return w, h
	}
	if w > h {
		nh := int(float64(h) * (float64(maxRes) / float64(w)))
		return maxRes, max(nh, 1)
	}
	nw := int(float64(w) * (float64(maxRes) / float64(h)))
	return max(nw, 1), maxRes
}

// FitMax downscales img with Lanczos so neither side exceeds maxRes,
// preserving aspect ratio. Images already within bounds are returned as is.
func FitMax(img image.Image, maxRes int) image.Image {
	b := img.Bounds()
	w, h := fitSize(b.Dx(), b.Dy(), maxRes)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// OpenImage decodes a still image with EXIF orientation applied. When the
// standard decoders reject the file and libvips is initialized, it retries
// through libvips.
func OpenImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err == nil {
		metrics.ImageDecodeTotal.WithLabelValues("imaging", "success").Inc()
		return img, nil
	}
	metrics.ImageDecodeTotal.WithLabelValues("imaging", "error").Inc()

	if !IsVipsAvailable() {
		return nil, err
	}

	log.Debug("imaging.Open failed for %s: %v, trying libvips", path, err)
	vimg, verr := LoadImageWithVips(path)
	if verr != nil {
		metrics.ImageDecodeTotal.WithLabelValues("vips", "error").Inc()
		return nil, fmt.Errorf("%v (libvips: %v)", err, verr)
	}
	metrics.ImageDecodeTotal.WithLabelValues("vips", "success").Inc()
	return vimg, nil
}

// DecodeFrame loads one still image as a normalized frame: orientation is
// corrected first, then the image is constrained to maxRes.
func DecodeFrame(path string, maxRes int) (*Frame, error) {
	img, err := OpenImage(path)
	if err != nil {
		return nil, mediatypes.NewPathError(mediatypes.ErrDecode, "decode image", path, err)
	}

	src := img.Bounds()
	img = FitMax(img, maxRes)
	if b := img.Bounds(); b.Dx() != src.Dx() || b.Dy() != src.Dy() {
		log.Debug("Constrained %s from %dx%d to %dx%d", path, src.Dx(), src.Dy(), b.Dx(), b.Dy())
	}

	return FrameFromImage(img), nil
}

// DecodeImage loads one still image as a batch of one frame and returns the
// batch with its width and height.
func DecodeImage(path string, maxRes int) (*Batch, int, int, error) {
	f, err := DecodeFrame(path, maxRes)
	if err != nil {
		return nil, 0, 0, err
	}
	b, err := Stack([]*Frame{f})
	if err != nil {
		return nil, 0, 0, err
	}
	return b, f.Width, f.Height, nil
}
