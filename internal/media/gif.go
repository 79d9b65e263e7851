package media

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"

	"media-loader/internal/mediatypes"
)

// defaultGIFRate is assumed when a GIF declares no usable frame delay.
const defaultGIFRate = 10.0

// GIFStream emits the decimated frames of a GIF. Opening decodes the file
// once to count surviving frames and size the first one; the first call to
// Next decodes it a second time for emission.
type GIFStream struct {
	path     string
	maxRes   int
	interval int
	info     StreamInfo

	// single holds the only frame of a non-animated GIF
	single *Frame

	g       *gif.GIF
	canvas  *gifCanvas
	index   int
	emitted int
	closed  bool
}

func decodeGIF(path string) (*gif.GIF, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer closeLogged(f, path)

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("gif has no frames")
	}
	return g, nil
}

// gifRate derives frames per second from the first frame's delay, which GIF
// stores in hundredths of a second.
func gifRate(g *gif.GIF) float64 {
	if len(g.Delay) == 0 || g.Delay[0] <= 0 {
		return defaultGIFRate
	}
	return 1000 / float64(g.Delay[0]*10)
}

// OpenGIF prepares a frame stream for path. A single-frame GIF yields one
// frame at rate 0, like a still image.
func OpenGIF(path string, opts FrameOptions) (*GIFStream, error) {
	g, err := decodeGIF(path)
	if err != nil {
		return nil, mediatypes.NewPathError(mediatypes.ErrDecode, "open gif", path, err)
	}

	s := &GIFStream{path: path, maxRes: opts.MaxRes}

	if len(g.Image) == 1 {
		frame := FrameFromImage(FitMax(newGIFCanvas(g).render(g, 0), opts.MaxRes))
		s.single = frame
		s.info = StreamInfo{FrameRate: 0, Frames: 1, Width: frame.Width, Height: frame.Height}
		return s, nil
	}

	nativeRate := gifRate(g)
	s.interval = SamplingInterval(nativeRate, opts.TargetRate)

	// First pass: count survivors and size the first one
	survivors := 0
	for i := range g.Image {
		if i%s.interval != 0 {
			continue
		}
		if survivors == 0 {
			b := FitMax(newGIFCanvas(g).render(g, i), opts.MaxRes).Bounds()
			s.info.Width, s.info.Height = b.Dx(), b.Dy()
		}
		survivors++
	}

	planned := survivors
	if opts.Cap > 0 {
		planned = min(opts.Cap, survivors)
	}
	if planned == 0 {
		return nil, mediatypes.NewPathError(mediatypes.ErrDecode, "open gif", path,
			fmt.Errorf("no frames to extract"))
	}

	s.info.Frames = planned
	s.info.FrameRate = nativeRate
	if opts.TargetRate > 0 {
		s.info.FrameRate = opts.TargetRate
	}

	log.Debug("GIF %s: %d frames at %.2f fps, interval %d, planning %d frames",
		path, len(g.Image), nativeRate, s.interval, planned)
	return s, nil
}

// Info returns the control record.
func (s *GIFStream) Info() StreamInfo {
	return s.info
}

// Next returns the next decimated frame or io.EOF.
func (s *GIFStream) Next() (*Frame, error) {
	if s.closed || s.emitted >= s.info.Frames {
		return nil, io.EOF
	}

	if s.single != nil {
		f := s.single
		s.single = nil
		s.emitted++
		return f, nil
	}

	if s.g == nil {
		// Second pass
		g, err := decodeGIF(s.path)
		if err != nil {
			return nil, mediatypes.NewPathError(mediatypes.ErrDecode, "read gif", s.path, err)
		}
		s.g = g
		s.canvas = newGIFCanvas(g)
	}

	for s.index < len(s.g.Image) {
		i := s.index
		s.index++
		composed := s.canvas.render(s.g, i)
		if i%s.interval != 0 {
			continue
		}
		s.emitted++
		return FrameFromImage(FitMax(composed, s.maxRes)), nil
	}
	return nil, io.EOF
}

// Close drops the decoded frames.
func (s *GIFStream) Close() error {
	s.closed = true
	s.g = nil
	s.canvas = nil
	s.single = nil
	return nil
}

// gifCanvas composites GIF frames in order, applying each frame's disposal
// method before the next frame is drawn.
type gifCanvas struct {
	img *image.RGBA
	// restore is the state to return to after a DisposalPrevious frame
	restore  *image.RGBA
	disposal byte
	area     image.Rectangle
}

func newGIFCanvas(g *gif.GIF) *gifCanvas {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		for _, frame := range g.Image {
			bounds = bounds.Union(frame.Bounds())
		}
	}
	return &gifCanvas{img: image.NewRGBA(bounds)}
}

// render draws frame i and returns a copy of the full picture.
func (c *gifCanvas) render(g *gif.GIF, i int) *image.RGBA {
	switch c.disposal {
	case gif.DisposalBackground:
		draw.Draw(c.img, c.area, image.Transparent, image.Point{}, draw.Src)
	case gif.DisposalPrevious:
		if c.restore != nil {
			c.img = c.restore
		}
	}

	frame := g.Image[i]
	c.disposal = 0
	if i < len(g.Disposal) {
		c.disposal = g.Disposal[i]
	}
	c.area = frame.Bounds()
	c.restore = nil
	if c.disposal == gif.DisposalPrevious {
		c.restore = cloneRGBA(c.img)
	}

	draw.Draw(c.img, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
	return cloneRGBA(c.img)
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
