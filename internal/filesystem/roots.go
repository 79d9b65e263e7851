package filesystem

import (
	"path/filepath"
	"sort"
	"strings"
)

// Logical root names understood in path annotations such as "clip.mp4 [output]".
const (
	RootInput  = "input"
	RootOutput = "output"
	RootTemp   = "temp"
)

// RootResolver maps logical root names to absolute directories and maps
// absolute paths back to the root containing them (longest prefix wins).
type RootResolver struct {
	dirs map[string]string
	// mounts is sorted by path length descending for longest-prefix matching
	mounts []rootMount
}

type rootMount struct {
	path string // absolute path with trailing separator
	name string
}

// NewRootResolver creates a resolver from a map of root name → directory.
// Example:
//
//	NewRootResolver(map[string]string{
//	    "input":  "/srv/loader/input",
//	    "output": "/srv/loader/output",
//	    "temp":   "/tmp/media-loader",
//	})
func NewRootResolver(roots map[string]string) *RootResolver {
	rr := &RootResolver{dirs: make(map[string]string, len(roots))}
	for name, dir := range roots {
		if dir == "" {
			continue
		}
		absPath, err := filepath.Abs(dir)
		if err != nil {
			absPath = filepath.Clean(dir)
		}
		rr.dirs[name] = absPath
		if !strings.HasSuffix(absPath, string(filepath.Separator)) {
			absPath += string(filepath.Separator)
		}
		rr.mounts = append(rr.mounts, rootMount{path: absPath, name: name})
	}

	sort.Slice(rr.mounts, func(i, j int) bool {
		if len(rr.mounts[i].path) == len(rr.mounts[j].path) {
			return rr.mounts[i].name < rr.mounts[j].name
		}
		return len(rr.mounts[i].path) > len(rr.mounts[j].path)
	})

	return rr
}

// Dir returns the directory configured for a root name.
func (rr *RootResolver) Dir(name string) (string, bool) {
	if rr == nil {
		return "", false
	}
	dir, ok := rr.dirs[name]
	return dir, ok
}

// InputDir returns the input root, or "" when none is configured.
func (rr *RootResolver) InputDir() string {
	dir, _ := rr.Dir(RootInput)
	return dir
}

// Label returns the root name containing path, or "unknown". It is used as
// the volume label on filesystem metrics.
func (rr *RootResolver) Label(path string) string {
	if rr == nil {
		return "unknown"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "unknown"
	}

	sep := string(filepath.Separator)
	for _, mount := range rr.mounts {
		if strings.HasPrefix(absPath+sep, mount.path) {
			return mount.name
		}
	}

	return "unknown"
}

// SplitAnnotation strips a trailing " [root]" annotation from s.
// It returns the remaining name and the annotated root name; ok is false when
// s carries no recognized annotation.
func SplitAnnotation(s string) (name, root string, ok bool) {
	trimmed := strings.TrimRight(s, " ")
	if !strings.HasSuffix(trimmed, "]") {
		return s, "", false
	}
	open := strings.LastIndex(trimmed, "[")
	if open < 0 {
		return s, "", false
	}
	root = trimmed[open+1 : len(trimmed)-1]
	switch root {
	case RootInput, RootOutput, RootTemp:
	default:
		return s, "", false
	}
	return strings.TrimRight(trimmed[:open], " "), root, true
}
