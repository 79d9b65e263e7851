package mediatypes

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		isDir bool
		want  Kind
	}{
		{name: "Directory", path: "/data/frames", isDir: true, want: KindDirectory},
		{name: "Directory with image-like name", path: "/data/frames.png", isDir: true, want: KindDirectory},
		{name: "MP4 video", path: "/data/clip.mp4", want: KindVideo},
		{name: "MOV upper case", path: "/data/CLIP.MOV", want: KindVideo},
		{name: "GIF", path: "/data/anim.gif", want: KindGIF},
		{name: "Zip archive", path: "/data/set.zip", want: KindArchive},
		{name: "Tar gz archive", path: "/data/set.tar.gz", want: KindArchive},
		{name: "Tar bz2 archive", path: "/data/set.tar.bz2", want: KindArchive},
		{name: "7z archive", path: "/data/set.7z", want: KindArchive},
		{name: "PNG image", path: "/data/a.png", want: KindImage},
		{name: "Unknown falls back to image", path: "/data/a.bmp", want: KindImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.path, tt.isDir)
			if got != tt.want {
				t.Errorf("Classify(%q, %v) = %v, want %v", tt.path, tt.isDir, got, tt.want)
			}
		})
	}
}

func TestGetArchiveFormat(t *testing.T) {
	tests := []struct {
		path string
		want ArchiveFormat
	}{
		{"a.zip", ArchiveZip},
		{"a.ZIP", ArchiveZip},
		{"a.7z", ArchiveSevenZip},
		{"a.tar", ArchiveTar},
		{"a.tar.gz", ArchiveTarGz},
		{"a.tgz", ArchiveTarGz},
		{"a.tar.bz2", ArchiveTarBz2},
		{"a.gz", ArchiveNone},
		{"a.png", ArchiveNone},
		{"", ArchiveNone},
	}

	for _, tt := range tests {
		if got := GetArchiveFormat(tt.path); got != tt.want {
			t.Errorf("GetArchiveFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestExtensionSets(t *testing.T) {
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp", ".gif"} {
		if !IsImage("x" + ext) {
			t.Errorf("IsImage(%q) = false, want true", ext)
		}
		if !IsImage("x" + strings.ToUpper(ext)) {
			t.Errorf("IsImage(%q) should be case-insensitive", strings.ToUpper(ext))
		}
	}
	if IsImage("x.mp4") {
		t.Error("IsImage(.mp4) = true, want false")
	}
	if !IsVideo("x.mp4") || !IsVideo("x.mov") {
		t.Error("IsVideo should accept .mp4 and .mov")
	}
	if IsVideo("x.mkv") {
		t.Error("IsVideo(.mkv) = true, want false")
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/a/b/photo.png", "photo"},
		{"clip.final.mp4", "clip.final"},
		{"/a/photos.tar.gz", "photos.tar"},
		{"noext", "noext"},
		{".hidden", ".hidden"},
	}

	for _, tt := range tests {
		if got := Stem(tt.path); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPathError(t *testing.T) {
	err := NewPathError(ErrDecode, "open video", "/x/clip.mp4", fs.ErrPermission)

	if !errors.Is(err, ErrDecode) {
		t.Error("PathError should match its kind")
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("PathError should match its cause")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("PathError should not match an unrelated kind")
	}
	if !strings.Contains(err.Error(), "/x/clip.mp4") {
		t.Errorf("Error() = %q, want it to name the path", err.Error())
	}

	bare := NewPathError(ErrEmptyResult, "load directory", "/x", nil)
	if !errors.Is(bare, ErrEmptyResult) {
		t.Error("PathError without cause should still match its kind")
	}
}
