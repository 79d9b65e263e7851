package media

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"media-loader/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

// govips cannot be restarted once shut down, so the shutdown tests are last
// in this file and everything before them initializes on demand.

func requireVips(t testing.TB) {
	t.Helper()
	if IsVipsAvailable() {
		return
	}
	if err := InitVips(); err != nil {
		t.Skipf("libvips not available: %v", err)
	}
}

func TestVipsLogSettings(t *testing.T) {
	tests := []struct {
		app  logging.LogLevel
		want vips.LogLevel
	}{
		{logging.LevelDebug, vips.LogLevelInfo},
		{logging.LevelInfo, vips.LogLevelWarning},
		{logging.LevelWarn, vips.LogLevelWarning},
		{logging.LevelError, vips.LogLevelError},
	}

	for _, tt := range tests {
		t.Run(tt.app.String(), func(t *testing.T) {
			got, handler := vipsLogSettings(tt.app)
			if got != tt.want {
				t.Errorf("vipsLogSettings(%v) level = %v, want %v", tt.app, got, tt.want)
			}
			if handler == nil {
				t.Fatal("handler is nil")
			}
			// Messages below the threshold are dropped, others must not panic.
			handler("test", vips.LogLevelDebug, "debug message")
			handler("test", vips.LogLevelCritical, "critical message")
		})
	}
}

func TestInitVipsIdempotent(t *testing.T) {
	requireVips(t)

	if err := InitVips(); err != nil {
		t.Errorf("second InitVips() failed: %v", err)
	}
	if !IsVipsAvailable() {
		t.Error("IsVipsAvailable() = false after InitVips")
	}
}

func TestLoadImageWithVips(t *testing.T) {
	requireVips(t)
	dir := t.TempDir()

	tests := []struct {
		name          string
		width, height int
		format        string
	}{
		{"landscape jpeg", 640, 480, "jpeg"},
		{"portrait png", 30, 50, "png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+"."+tt.format)
			createTestImage(t, path, tt.width, tt.height, tt.format)

			img, err := LoadImageWithVips(path)
			if err != nil {
				t.Fatalf("LoadImageWithVips failed: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.width || b.Dy() != tt.height {
				t.Errorf("LoadImageWithVips() = %dx%d, want full size %dx%d", b.Dx(), b.Dy(), tt.width, tt.height)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadImageWithVips(filepath.Join(dir, "absent.jpg")); err == nil {
			t.Error("expected an error for a missing file")
		}
	})
}

func TestOpenImageFallbackStillFailsOnGarbage(t *testing.T) {
	requireVips(t)

	path := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenImage(path); err == nil {
		t.Error("OpenImage succeeded on garbage with libvips fallback")
	}
}

func TestShutdownVips(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ShutdownVips()
		}()
	}
	wg.Wait()

	if IsVipsAvailable() {
		t.Error("IsVipsAvailable() = true after ShutdownVips")
	}

	path := filepath.Join(t.TempDir(), "after.png")
	createTestImage(t, path, 4, 4, "png")
	if _, err := LoadImageWithVips(path); err == nil {
		t.Error("LoadImageWithVips succeeded after shutdown")
	}
}

func BenchmarkLoadImageWithVips(b *testing.B) {
	requireVips(b)

	path := filepath.Join(b.TempDir(), "bench.jpg")
	createTestImage(b, path, 2000, 1500, "jpeg")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := LoadImageWithVips(path); err != nil {
			b.Fatalf("LoadImageWithVips failed: %v", err)
		}
	}
}
