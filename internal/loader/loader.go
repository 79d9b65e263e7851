package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"media-loader/internal/archive"
	"media-loader/internal/filesystem"
	"media-loader/internal/logging"
	"media-loader/internal/media"
	"media-loader/internal/mediatypes"
	"media-loader/internal/memory"
	"media-loader/internal/metrics"
	"media-loader/internal/pathresolve"
)

var log = logging.For("loader")

// DefaultMaxRes is the resolution bound used when a caller does not pick one.
const DefaultMaxRes = 2048

// Config holds the loader's collaborators.
type Config struct {
	Roots *filesystem.RootResolver
	Retry filesystem.RetryConfig
	Tools media.VideoTools
	// TempDir is where archive scratch directories are created; empty uses
	// the temp root, then the OS default.
	TempDir string
}

// Request describes one load.
type Request struct {
	Path string
	// Cap limits frames or files; 0 is unlimited.
	Cap int
	// Rate is the target frame rate for videos and GIFs; 0 keeps the native rate.
	Rate float64
	// MaxRes bounds the larger side of every frame; 0 disables resizing.
	MaxRes int
	Sort   SortMode
}

// Result is a loaded batch and its metadata.
type Result struct {
	Batch     *media.Batch
	Width     int
	Height    int
	Count     int
	Name      string
	Path      string
	FrameRate float64
	Kind      mediatypes.Kind
}

// Loader resolves media paths and decodes them into batches. Each Load call
// is independent; a Loader may be reused.
type Loader struct {
	cfg      Config
	resolver *pathresolve.Resolver
}

// New creates a Loader.
func New(cfg Config) *Loader {
	if cfg.Retry.MaxRetries == 0 && cfg.Retry.InitialBackoff == 0 {
		roots := cfg.Retry.Roots
		cfg.Retry = filesystem.DefaultRetryConfig()
		cfg.Retry.Roots = roots
	}
	if cfg.Retry.Roots == nil {
		cfg.Retry.Roots = cfg.Roots
	}
	return &Loader{
		cfg:      cfg,
		resolver: pathresolve.New(cfg.Roots, cfg.Retry),
	}
}

// normalize checks req and rewrites Sort to its canonical lower-case form.
func (r *Request) normalize() error {
	switch {
	case r.Cap < 0:
		return fmt.Errorf("%w: image load cap must not be negative, got %d", mediatypes.ErrValidation, r.Cap)
	case r.Rate < 0:
		return fmt.Errorf("%w: force rate must not be negative, got %v", mediatypes.ErrValidation, r.Rate)
	case r.MaxRes < 0:
		return fmt.Errorf("%w: max resolution must not be negative, got %d", mediatypes.ErrValidation, r.MaxRes)
	}
	mode, err := ParseSortMode(string(r.Sort))
	if err != nil {
		return err
	}
	r.Sort = mode
	return nil
}

// Load resolves req.Path and decodes it according to its kind.
func (l *Loader) Load(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if err := req.normalize(); err != nil {
		metrics.LoadsTotal.WithLabelValues("unknown", "error").Inc()
		return nil, err
	}

	resolved, err := l.resolver.Resolve(req.Path)
	if err != nil {
		metrics.LoadsTotal.WithLabelValues("unknown", "error").Inc()
		log.Error("Error loading media: %v", err)
		return nil, err
	}

	kind, err := l.classify(resolved)
	if err != nil {
		metrics.LoadsTotal.WithLabelValues("unknown", "error").Inc()
		return nil, err
	}

	res, err := l.dispatch(ctx, kind, resolved, req)

	status := "success"
	if err != nil {
		status = "error"
		log.Error("Error loading media: %v", err)
	}
	metrics.LoadsTotal.WithLabelValues(string(kind), status).Inc()
	metrics.LoadDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	res.Kind = kind
	res.Width, res.Height, res.Count = res.Batch.Width, res.Batch.Height, res.Batch.N
	metrics.FramesDecodedTotal.WithLabelValues(string(kind)).Add(float64(res.Count))
	metrics.BatchBytes.Observe(float64(res.Batch.SizeBytes()))

	log.Info("Loaded %s %q: %d frame(s) at %dx%d", kind, res.Name, res.Count, res.Width, res.Height)
	return res, nil
}

func (l *Loader) classify(r pathresolve.Resolved) (mediatypes.Kind, error) {
	if r.IsList() {
		return mediatypes.KindList, nil
	}
	fi, err := filesystem.StatWithRetry(r.Path, l.cfg.Retry)
	if err != nil {
		return "", mediatypes.NewPathError(mediatypes.ErrNotFound, "stat", r.Path, err)
	}
	return mediatypes.Classify(r.Path, fi.IsDir()), nil
}

func (l *Loader) dispatch(ctx context.Context, kind mediatypes.Kind, r pathresolve.Resolved, req Request) (*Result, error) {
	switch kind {
	case mediatypes.KindList:
		return l.loadList(ctx, r.Paths, req)
	case mediatypes.KindDirectory:
		return l.loadDirectory(ctx, r.Path, req)
	case mediatypes.KindVideo:
		return l.loadVideo(ctx, r.Path, req)
	case mediatypes.KindGIF:
		return l.loadGIF(r.Path, req)
	case mediatypes.KindArchive:
		return l.loadArchive(ctx, r.Path, req)
	case mediatypes.KindImage:
		return l.loadImage(r.Path, req)
	default:
		return nil, fmt.Errorf("%w: unhandled media kind %q", mediatypes.ErrValidation, kind)
	}
}

func (l *Loader) loadImage(path string, req Request) (*Result, error) {
	batch, _, _, err := media.DecodeImage(path, req.MaxRes)
	if err != nil {
		return nil, err
	}
	return &Result{Batch: batch, Name: mediatypes.Stem(path), Path: path}, nil
}

func (l *Loader) loadVideo(ctx context.Context, path string, req Request) (*Result, error) {
	s, err := media.OpenVideo(ctx, path, frameOptions(req), l.cfg.Tools)
	if err != nil {
		return nil, err
	}
	return l.drain(s, path)
}

func (l *Loader) loadGIF(path string, req Request) (*Result, error) {
	s, err := media.OpenGIF(path, frameOptions(req))
	if err != nil {
		return nil, err
	}
	return l.drain(s, path)
}

func frameOptions(req Request) media.FrameOptions {
	return media.FrameOptions{TargetRate: req.Rate, Cap: req.Cap, MaxRes: req.MaxRes}
}

// drain collects every frame of s, warning first when the planned batch
// would not fit under the memory limit.
func (l *Loader) drain(s media.FrameStream, path string) (*Result, error) {
	info := s.Info()
	warnIfOverBudget(path, info.Frames, info.Height, info.Width)

	batch, err := media.Drain(s)
	if err != nil {
		var pe *mediatypes.PathError
		if !errors.As(err, &pe) {
			err = mediatypes.NewPathError(mediatypes.ErrDecode, "extract frames", path, err)
		}
		return nil, err
	}
	return &Result{Batch: batch, Name: mediatypes.Stem(path), Path: path, FrameRate: info.FrameRate}, nil
}

func warnIfOverBudget(path string, frames, height, width int) {
	need := memory.BatchBytes(frames, height, width)
	if budget := memory.CurrentBudget(); !budget.Fits(need) {
		log.Warn("Batch for %s needs %s, more than the %s left under the memory limit",
			path, memory.FormatBytes(need), memory.FormatBytes(budget.Headroom()))
	}
}

// loadArchive expands the archive into a scratch directory, loads it as a
// directory, and reports the archive itself as name and path. The scratch
// directory is removed on every return path.
func (l *Loader) loadArchive(ctx context.Context, path string, req Request) (*Result, error) {
	base := l.tempDir()
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	scratch, err := os.MkdirTemp(base, "archive-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			log.Warn("Failed to remove scratch directory %s: %v", scratch, err)
		}
	}()

	if err := archive.Extract(ctx, path, scratch); err != nil {
		return nil, err
	}

	root, err := archive.ContentRoot(scratch)
	if err != nil {
		return nil, mediatypes.NewPathError(mediatypes.ErrDecode, "read archive", path, err)
	}

	res, err := l.loadDirectory(ctx, root, req)
	if err != nil {
		return nil, err
	}
	res.Name = mediatypes.Stem(path)
	res.Path = path
	return res, nil
}

func (l *Loader) tempDir() string {
	if l.cfg.TempDir != "" {
		return l.cfg.TempDir
	}
	if dir, ok := l.cfg.Roots.Dir(filesystem.RootTemp); ok {
		return dir
	}
	return filepath.Join(os.TempDir(), "media-loader")
}
