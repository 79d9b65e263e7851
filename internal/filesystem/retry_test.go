package filesystem

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

type recordingObserver struct {
	ops     []string
	volumes []string
	errs    int
	stale   int
	retries int
}

func (o *recordingObserver) ObserveOperation(volume, operation string, _ float64, err error) {
	o.ops = append(o.ops, operation)
	o.volumes = append(o.volumes, volume)
	if err != nil {
		o.errs++
	}
}

func (o *recordingObserver) ObserveRetryAttempt(string, string) { o.retries++ }
func (o *recordingObserver) ObserveStaleError(string, string)   { o.stale++ }

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", config.MaxRetries)
	}
	if config.InitialBackoff != 50*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 50ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 500*time.Millisecond {
		t.Errorf("MaxBackoff = %v, want 500ms", config.MaxBackoff)
	}
	if config.Roots != nil {
		t.Error("Roots should be nil by default")
	}
}

func TestIsNFSStaleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "ESTALE error", err: syscall.ESTALE, want: true},
		{name: "wrapped ESTALE", err: &os.PathError{Op: "stat", Path: "/x", Err: syscall.ESTALE}, want: true},
		{name: "ENOENT error", err: syscall.ENOENT, want: false},
		{name: "generic error", err: os.ErrNotExist, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNFSStaleError(tt.err); got != tt.want {
				t.Errorf("isNFSStaleError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithRetryStaleThenSuccess(t *testing.T) {
	obs := &recordingObserver{}
	SetObserver(obs)
	t.Cleanup(func() { SetObserver(nil) })

	config := RetryConfig{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
	calls := 0
	got, err := withRetry("stat", "/x", config, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, syscall.ESTALE
		}
		return 42, nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 || calls != 3 {
		t.Errorf("got %d after %d calls, want 42 after 3", got, calls)
	}
	if obs.stale != 2 || obs.retries != 2 {
		t.Errorf("stale=%d retries=%d, want 2 and 2", obs.stale, obs.retries)
	}
	if obs.errs != 0 {
		t.Errorf("final operation should be recorded as success")
	}
}

func TestWithRetryGivesUp(t *testing.T) {
	config := RetryConfig{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
	calls := 0
	_, err := withRetry("open", "/x", config, func() (string, error) {
		calls++
		return "", syscall.ESTALE
	})

	if err != syscall.ESTALE {
		t.Errorf("err = %v, want ESTALE", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (initial + 2 retries)", calls)
	}
}

func TestWithRetryNoRetryOnOtherErrors(t *testing.T) {
	calls := 0
	_, err := withRetry("stat", "/x", DefaultRetryConfig(), func() (int, error) {
		calls++
		return 0, os.ErrNotExist
	})
	if err != os.ErrNotExist {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestStatOpenReadDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.png")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	obs := &recordingObserver{}
	SetObserver(obs)
	t.Cleanup(func() { SetObserver(nil) })

	config := DefaultRetryConfig()
	config.Roots = NewRootResolver(map[string]string{RootInput: dir})

	info, err := StatWithRetry(file, config)
	if err != nil || info.Size() != 1 {
		t.Fatalf("StatWithRetry = %v, %v", info, err)
	}

	f, err := OpenWithRetry(file, config)
	if err != nil {
		t.Fatalf("OpenWithRetry: %v", err)
	}
	f.Close()

	entries, err := ReadDirWithRetry(dir, config)
	if err != nil || len(entries) != 1 {
		t.Fatalf("ReadDirWithRetry = %d entries, %v", len(entries), err)
	}

	if Exists(filepath.Join(dir, "missing"), config) {
		t.Error("Exists should be false for a missing file")
	}

	if len(obs.ops) != 4 {
		t.Fatalf("observed %d operations, want 4: %v", len(obs.ops), obs.ops)
	}
	for _, v := range obs.volumes {
		if v != RootInput {
			t.Errorf("volume label = %q, want %q", v, RootInput)
		}
	}
	if obs.errs != 1 {
		t.Errorf("errs = %d, want 1 (the missing file)", obs.errs)
	}
}
