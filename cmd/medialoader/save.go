package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"media-loader/internal/media"

	"github.com/disintegration/imaging"
)

// sanitizeName turns a display name such as "a|b|c..." into a safe file
// name prefix.
func sanitizeName(name string) string {
	name = strings.TrimSuffix(name, "...")
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == '|':
			return '_'
		case r == '/', r == '\\', r == ':', r == '*', r == '?', r == '"', r == '<', r == '>':
			return '-'
		case r < 0x20:
			return -1
		}
		return r
	}, name)
	clean = strings.Trim(clean, " .")
	if clean == "" {
		return "frames"
	}
	return clean
}

// nextCounter returns the first frame number not used by an existing
// prefix_NNNNN.png in dir, so repeated runs never overwrite earlier output.
func nextCounter(dir, prefix string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	next := 1
	for _, e := range entries {
		var n int
		rest, ok := strings.CutPrefix(e.Name(), prefix+"_")
		if !ok {
			continue
		}
		if _, err := fmt.Sscanf(rest, "%05d.png", &n); err == nil && n >= next {
			next = n + 1
		}
	}
	return next, nil
}

// saveFrames writes every frame of b to dir as PNG and returns the paths.
func saveFrames(b *media.Batch, dir, name string) ([]string, error) {
	prefix := sanitizeName(name)
	counter, err := nextCounter(dir, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	paths := make([]string, 0, b.N)
	for i := 0; i < b.N; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%s_%05d.png", prefix, counter+i))
		if err := imaging.Save(b.Frame(i).Image(), path); err != nil {
			return paths, fmt.Errorf("failed to save frame %d: %w", i, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
