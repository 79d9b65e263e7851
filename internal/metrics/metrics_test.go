package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLoaderMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"LoadsTotal", LoadsTotal},
		{"LoadDuration", LoadDuration},
		{"FramesDecodedTotal", FramesDecodedTotal},
		{"ItemsSkippedTotal", ItemsSkippedTotal},
		{"BatchBytes", BatchBytes},
		{"ImageDecodeTotal", ImageDecodeTotal},
		{"FFmpegProcessesTotal", FFmpegProcessesTotal},
		{"ArchiveExtractDuration", ArchiveExtractDuration},
		{"ArchiveEntriesTotal", ArchiveEntriesTotal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestInitializeMetricsIsIdempotent(t *testing.T) {
	InitializeMetrics()
	InitializeMetrics()

	if got := testutil.ToFloat64(LoadsTotal.WithLabelValues("video", "success")); got < 0 {
		t.Errorf("unexpected counter value %v", got)
	}
}

func TestFilesystemObserver(t *testing.T) {
	obs := NewFilesystemObserver()

	before := testutil.ToFloat64(FilesystemOperationErrors.WithLabelValues("input", "stat"))
	obs.ObserveOperation("input", "stat", 0.001, errors.New("boom"))
	obs.ObserveOperation("input", "stat", 0.001, nil)
	after := testutil.ToFloat64(FilesystemOperationErrors.WithLabelValues("input", "stat"))
	if after-before != 1 {
		t.Errorf("error counter moved by %v, want 1", after-before)
	}

	beforeRetry := testutil.ToFloat64(FilesystemRetryAttempts.WithLabelValues("open", "temp"))
	obs.ObserveRetryAttempt("open", "temp")
	if got := testutil.ToFloat64(FilesystemRetryAttempts.WithLabelValues("open", "temp")); got-beforeRetry != 1 {
		t.Errorf("retry counter moved by %v, want 1", got-beforeRetry)
	}

	beforeStale := testutil.ToFloat64(FilesystemStaleErrors.WithLabelValues("open", "temp"))
	obs.ObserveStaleError("open", "temp")
	if got := testutil.ToFloat64(FilesystemStaleErrors.WithLabelValues("open", "temp")); got-beforeStale != 1 {
		t.Errorf("stale counter moved by %v, want 1", got-beforeStale)
	}
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_loads_total", Help: "test"})
	reg.MustRegister(c)
	c.Add(3)

	path := filepath.Join(t.TempDir(), "sub", "loader.prom")
	if err := WriteTextfileFrom(reg, path); err != nil {
		t.Fatalf("WriteTextfileFrom: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "test_loads_total 3") {
		t.Errorf("textfile missing counter:\n%s", data)
	}
}

func TestWriteTextfileDisabled(t *testing.T) {
	if err := WriteTextfile(""); err != nil {
		t.Errorf("empty path should be a no-op, got %v", err)
	}
}
