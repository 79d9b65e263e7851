package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"media-loader/internal/filesystem"
	"media-loader/internal/media"
	"media-loader/internal/mediatypes"
	"media-loader/internal/metrics"
	"media-loader/internal/workers"

	"golang.org/x/sync/errgroup"
)

// maxNameParts is how many file names a list's display name shows.
const maxNameParts = 3

// maxDecodeWorkers caps concurrent image decodes for one list.
const maxDecodeWorkers = 8

// loadDirectory loads the still images directly inside dir.
func (l *Loader) loadDirectory(ctx context.Context, dir string, req Request) (*Result, error) {
	entries, err := filesystem.ReadDirWithRetry(dir, l.cfg.Retry)
	if err != nil {
		return nil, mediatypes.NewPathError(mediatypes.ErrValidation, "read directory", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !mediatypes.IsImage(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	if len(paths) == 0 {
		return nil, mediatypes.NewPathError(mediatypes.ErrEmptyResult, "load directory", dir,
			fmt.Errorf("no image files found"))
	}

	log.Debug("Found %d image(s) in %s", len(paths), dir)
	return l.loadList(ctx, paths, req)
}

// loadList sorts, caps and decodes a list of still images. Files that fail
// to decode are skipped with a warning. Frames whose size differs from the
// first decoded frame are resampled to match it.
func (l *Loader) loadList(ctx context.Context, paths []string, req Request) (*Result, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no image paths provided", mediatypes.ErrEmptyResult)
	}

	paths = append([]string(nil), paths...)
	sortPaths(paths, req.Sort, l.cfg.Retry)
	if req.Cap > 0 && len(paths) > req.Cap {
		paths = paths[:req.Cap]
	}

	frames, err := decodeAll(ctx, paths, req.MaxRes)
	if err != nil {
		return nil, err
	}

	var batch *media.Batch
	for i, f := range frames {
		if f == nil {
			continue
		}

		if batch == nil {
			warnIfOverBudget(filepath.Dir(paths[0]), len(paths), f.Height, f.Width)
			batch = media.NewBatch(f.Width, f.Height, len(paths))
		} else if f.Width != batch.Width || f.Height != batch.Height {
			log.Debug("Resizing %s from %dx%d to %dx%d to match the batch",
				paths[i], f.Width, f.Height, batch.Width, batch.Height)
			f = f.Resize(batch.Width, batch.Height)
		}

		if err := batch.Append(f); err != nil {
			return nil, err
		}
		frames[i] = nil
	}

	if batch == nil {
		return nil, fmt.Errorf("%w: none of %d image(s) could be decoded", mediatypes.ErrEmptyResult, len(paths))
	}

	return &Result{
		Batch: batch,
		Name:  displayName(paths),
		Path:  filepath.Dir(paths[0]),
	}, nil
}

// decodeAll decodes paths on a bounded pool of workers. The result keeps the
// order of paths; a nil entry marks a file that could not be decoded.
func decodeAll(ctx context.Context, paths []string, maxRes int) ([]*media.Frame, error) {
	frames := make([]*media.Frame, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers.ForCPU(maxDecodeWorkers))

	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := media.DecodeFrame(p, maxRes)
			if err != nil {
				log.Warn("Failed to load image %s: %v", p, err)
				metrics.ItemsSkippedTotal.Inc()
				return nil
			}
			frames[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}

// displayName joins the first few file stems with "|", adding "..." when
// more files exist.
func displayName(paths []string) string {
	stems := make([]string, 0, min(len(paths), maxNameParts))
	for _, p := range paths[:min(len(paths), maxNameParts)] {
		stems = append(stems, mediatypes.Stem(p))
	}
	name := strings.Join(stems, "|")
	if len(paths) > maxNameParts {
		name += "..."
	}
	return name
}
