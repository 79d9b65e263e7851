package pathresolve

import (
	"fmt"
	"path/filepath"
	"strings"

	"media-loader/internal/filesystem"
	"media-loader/internal/logging"
	"media-loader/internal/mediatypes"

	"github.com/bmatcuk/doublestar/v4"
)

var log = logging.For("pathresolve")

// Resolved is the outcome of resolving a path string: either a single
// existing path or the non-empty list of files a wildcard matched. Both are
// absolute.
type Resolved struct {
	Path  string
	Paths []string
}

// IsList reports whether the path was a wildcard expanded to several files.
func (r Resolved) IsList() bool {
	return len(r.Paths) > 0
}

// Resolver turns user-supplied path strings into absolute paths on disk.
type Resolver struct {
	roots *filesystem.RootResolver
	retry filesystem.RetryConfig
}

// New creates a resolver over the given logical roots.
func New(roots *filesystem.RootResolver, retry filesystem.RetryConfig) *Resolver {
	if retry.Roots == nil {
		retry.Roots = roots
	}
	return &Resolver{roots: roots, retry: retry}
}

// Clean strips surrounding quotes and turns backslashes into forward slashes.
func Clean(raw string) string {
	s := strings.Trim(raw, `"`)
	s = strings.Trim(s, `'`)
	return strings.ReplaceAll(s, `\`, "/")
}

// isImagePattern reports whether s holds wildcards and names a still image.
// Only these patterns are ever expanded.
func isImagePattern(s string) bool {
	return strings.ContainsAny(s, "*?") && mediatypes.IsImage(s)
}

// Resolve locates raw on disk. Candidates are tried in order: the path
// relative to an annotated root (" [input]", " [output]", " [temp]"), the
// path as given, then the path under the input root. An image wildcard is
// expanded instead of checked for existence, and only counts when it
// matches something.
func (r *Resolver) Resolve(raw string) (Resolved, error) {
	path := Clean(raw)

	if strings.Contains(path, "[") {
		if name, root, ok := filesystem.SplitAnnotation(path); ok {
			if dir, ok := r.roots.Dir(root); ok {
				if res, found := r.try(filepath.Join(dir, name), isImagePattern(name)); found {
					log.Debug("Resolved %q against %s root: %s", raw, root, describe(res))
					return res, nil
				}
			}
		}
	}

	pattern := isImagePattern(path)
	if res, found := r.try(path, pattern); found {
		return res, nil
	}

	inputPath := path
	if !filepath.IsAbs(path) {
		inputPath = filepath.Join(r.roots.InputDir(), path)
	}
	if res, found := r.try(inputPath, pattern); found {
		log.Debug("Resolved %q under input root: %s", raw, describe(res))
		return res, nil
	}

	return Resolved{}, fmt.Errorf("%w: could not find file or directory at %s or %s",
		mediatypes.ErrNotFound, path, inputPath)
}

func (r *Resolver) try(candidate string, pattern bool) (Resolved, bool) {
	if pattern {
		matches, err := doublestar.FilepathGlob(candidate, doublestar.WithFilesOnly())
		if err != nil {
			log.Debug("Glob %q failed: %v", candidate, err)
			return Resolved{}, false
		}
		if len(matches) == 0 {
			return Resolved{}, false
		}
		abs := make([]string, 0, len(matches))
		for _, m := range matches {
			abs = append(abs, absPath(m))
		}
		return Resolved{Paths: abs}, true
	}

	if candidate == "" || !filesystem.Exists(candidate, r.retry) {
		return Resolved{}, false
	}
	return Resolved{Path: absPath(candidate)}, true
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

func describe(r Resolved) string {
	if r.IsList() {
		return fmt.Sprintf("%d matches", len(r.Paths))
	}
	return r.Path
}
