package loader

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"media-loader/internal/filesystem"
	"media-loader/internal/mediatypes"
)

// SortMode orders the files of a directory or wildcard load.
type SortMode string

const (
	SortNone         SortMode = "none"
	SortAlphabetical SortMode = "alphabetical"
	SortDateCreated  SortMode = "date_created"
	SortDateModified SortMode = "date_modified"
	SortRandom       SortMode = "random"
)

// SortModes lists every mode in the order they are offered to users.
var SortModes = []SortMode{SortNone, SortAlphabetical, SortDateCreated, SortDateModified, SortRandom}

// randomSeed keeps random ordering reproducible across calls.
const randomSeed = 0

// ParseSortMode accepts a mode name case-insensitively. The empty string
// and "None" select SortNone.
func ParseSortMode(s string) (SortMode, error) {
	mode := SortMode(strings.ToLower(strings.TrimSpace(s)))
	if mode == "" {
		return SortNone, nil
	}
	for _, m := range SortModes {
		if m == mode {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown sort mode %q", mediatypes.ErrValidation, s)
}

// sortPaths orders paths in place. retry is used to stat files for the
// date modes.
func sortPaths(paths []string, mode SortMode, retry filesystem.RetryConfig) {
	switch mode {
	case SortAlphabetical:
		sort.SliceStable(paths, func(i, j int) bool {
			return strings.ToLower(paths[i]) < strings.ToLower(paths[j])
		})
	case SortDateCreated:
		sortByTime(paths, retry, createdTime)
	case SortDateModified:
		sortByTime(paths, retry, func(fi os.FileInfo) time.Time { return fi.ModTime() })
	case SortRandom:
		r := rand.New(rand.NewSource(randomSeed))
		r.Shuffle(len(paths), func(i, j int) { paths[i], paths[j] = paths[j], paths[i] })
	case SortNone:
	}
}

// sortByTime sorts oldest first. Files that cannot be stat'ed sort as the
// zero time and will fail again, with a warning, when decoded.
func sortByTime(paths []string, retry filesystem.RetryConfig, key func(os.FileInfo) time.Time) {
	times := make(map[string]time.Time, len(paths))
	for _, p := range paths {
		if fi, err := filesystem.StatWithRetry(p, retry); err == nil {
			times[p] = key(fi)
		}
	}
	sort.SliceStable(paths, func(i, j int) bool {
		return times[paths[i]].Before(times[paths[j]])
	})
}
